package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	currentSurah int
	meaningLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search TEXT",
	Short: "Find the verse that best matches an Arabic phrase",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := apiClient().SearchAyah(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d:%d  %s (%s)  score=%.2f\n%s\n",
			res.SurahNumber, res.AyahNumber, res.SurahEnglishName, res.SurahName, res.Score, res.Text)
		return nil
	},
}

var locateCmd = &cobra.Command{
	Use:   "locate TEXT",
	Short: "Resolve a spoken phrase or chapter number into a navigation target",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := apiClient().Locate(cmd.Context(), strings.Join(args, " "), currentSurah)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !res.Navigates() {
			fmt.Fprintln(out, res.Kind)
			return nil
		}
		fmt.Fprintf(out, "%s  %d:%d  score=%.2f\n", res.Kind, res.SurahNumber, res.AyahNumber, res.Score)
		if res.Text != "" {
			fmt.Fprintln(out, res.Text)
		}
		return nil
	},
}

var meaningCmd = &cobra.Command{
	Use:   "meaning QUERY",
	Short: "Semantic search over the indexed translation",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := apiClient().SearchMeaning(cmd.Context(), strings.Join(args, " "), meaningLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, v := range res.Results {
			fmt.Fprintf(out, "%3d:%-3d  %.3f  %s\n", v.SurahNumber, v.AyahNumber, v.Score, v.Text)
		}
		return nil
	},
}

func init() {
	locateCmd.Flags().IntVar(&currentSurah, "surah", 0, "Chapter currently open in the reader")
	meaningCmd.Flags().IntVar(&meaningLimit, "limit", 10, "Maximum results")
}

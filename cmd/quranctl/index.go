package main

import (
	"fmt"
	"time"

	"github.com/quran-reader-api/internal/config"
	"github.com/quran-reader-api/internal/logging"
	"github.com/quran-reader-api/internal/models"
	"github.com/quran-reader-api/internal/repository/postgres"
	"github.com/quran-reader-api/internal/services"
	"github.com/quran-reader-api/internal/upstream"
	"github.com/quran-reader-api/pkg/embeddings"
	"github.com/quran-reader-api/pkg/store/db"
	"github.com/spf13/cobra"
)

var (
	indexFrom int
	indexTo   int
)

var indexMeaningsCmd = &cobra.Command{
	Use:   "index-meanings",
	Short: "Embed a translation edition and store it for meaning search",
	Long: `index-meanings fetches MEANING_EDITION chapter by chapter, embeds every
verse with EMBEDDING_PROVIDER and upserts the vectors into DATABASE_URL.
It requires DB_DRIVER=postgres with the pgvector extension available.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()
		if cfg.DBDriver != db.DriverPostgres {
			return fmt.Errorf("index-meanings needs DB_DRIVER=%s, got %q", db.DriverPostgres, cfg.DBDriver)
		}
		if !models.ValidSurah(indexFrom) || !models.ValidSurah(indexTo) || indexFrom > indexTo {
			return fmt.Errorf("invalid chapter range %d..%d", indexFrom, indexTo)
		}
		ctx := cmd.Context()

		conn, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()
		if err := postgres.EnsureSchema(ctx, conn, cfg.EmbeddingDimensions); err != nil {
			return err
		}

		embeddingsSvc, err := embeddings.New(ctx, embeddings.Config{
			Provider:     cfg.EmbeddingProvider,
			ServiceURL:   cfg.EmbeddingServiceURL,
			Dimensions:   cfg.EmbeddingDimensions,
			GCPProjectID: cfg.GCPProjectID,
			GCPLocation:  cfg.GCPLocation,
			VertexModel:  cfg.VertexModel,
		})
		if err != nil {
			return err
		}
		defer embeddingsSvc.Close()

		quran := upstream.NewQuranClient(cfg.QuranAPIURL, upstream.Options{Timeout: cfg.UpstreamTimeout, RPS: cfg.UpstreamRPS})
		meaning := services.NewMeaningSearchService(postgres.NewMeaningRepository(conn), embeddingsSvc, cfg.MeaningEdition)

		log := logging.With("edition", cfg.MeaningEdition, "provider", cfg.EmbeddingProvider)
		start := time.Now()
		total := 0
		for n := indexFrom; n <= indexTo; n++ {
			ch, err := quran.SurahText(ctx, n, cfg.MeaningEdition)
			if err != nil {
				return err
			}
			indexed, err := meaning.IndexChapter(ctx, ch)
			total += indexed
			if err != nil {
				return err
			}
			log.Info("indexed chapter", "surah", n, "verses", indexed)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "indexed %d verses of %s in %s\n",
			total, cfg.MeaningEdition, time.Since(start).Round(time.Second))
		return nil
	},
}

func init() {
	indexMeaningsCmd.Flags().IntVar(&indexFrom, "from", models.FirstSurah, "First chapter to index")
	indexMeaningsCmd.Flags().IntVar(&indexTo, "to", models.LastSurah, "Last chapter to index")
}

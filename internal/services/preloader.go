package services

import (
	"context"
	"time"

	"github.com/quran-reader-api/internal/logging"
	"github.com/quran-reader-api/internal/models"
)

// preloadBatch is how many chapters are fetched between pauses.
const preloadBatch = 10

// PreloadReport summarizes one preload pass.
type PreloadReport struct {
	Succeeded int
	Skipped   int
	Failed    []int
}

// Preloader warms the corpus with every chapter at startup.
type Preloader struct {
	corpus *Corpus
	pause  time.Duration
}

// NewPreloader creates a preloader that waits pause after every ten chapters.
func NewPreloader(corpus *Corpus, pause time.Duration) *Preloader {
	return &Preloader{corpus: corpus, pause: pause}
}

// Run fetches chapters 1..114 in order. Chapters already cached count as
// successful and are not refetched. A failed chapter is logged and skipped;
// there is no retry.
func (p *Preloader) Run(ctx context.Context) PreloadReport {
	var report PreloadReport
	log := logging.With("component", "preloader", "edition", p.corpus.Edition())
	start := time.Now()

	for n := models.FirstSurah; n <= models.LastSurah; n++ {
		if ctx.Err() != nil {
			log.Warn("preload cancelled", "at", n)
			break
		}

		if p.corpus.Status(n) == ChapterCached {
			report.Skipped++
			report.Succeeded++
		} else if _, err := p.corpus.Load(ctx, n); err != nil {
			log.Warn("chapter preload failed", "surah", n, "err", err)
			report.Failed = append(report.Failed, n)
		} else {
			report.Succeeded++
		}

		if n%preloadBatch == 0 && n < models.LastSurah {
			if !p.sleep(ctx) {
				log.Warn("preload cancelled", "at", n)
				break
			}
		}
	}

	log.Info("preload finished",
		"succeeded", report.Succeeded,
		"skipped", report.Skipped,
		"failed", len(report.Failed),
		"took", time.Since(start).Round(time.Millisecond))
	return report
}

func (p *Preloader) sleep(ctx context.Context) bool {
	if p.pause <= 0 {
		return true
	}
	t := time.NewTimer(p.pause)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

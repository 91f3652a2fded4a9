package tasks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/time/rate"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/services"
	"github.com/desertthunder/songbook/internal/shared"
)

// ImportOpts contains configuration for bulk song imports.
type ImportOpts struct {
	NumWorkers int     // Concurrent workers (default: 1). More than one does not preserve input order.
	RateLimit  float64 // Requests per second (default: 5)
}

// SongImportResult is the outcome of adding one input row.
type SongImportResult struct {
	Index int              // Position in the input
	Input models.SongInput // Row as parsed
	Song  *models.Song     // Stored song, nil on failure
	Error error
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	UserID  int64
	Total   int
	Added   int
	Failed  int
	Results []SongImportResult // Sorted by Index
}

type importJob struct {
	index int
	input models.SongInput
}

// Importer adds songs to a user's collection in bulk.
type Importer struct {
	songs services.SongCollection
}

// NewImporter creates an [Importer] writing through songs.
func NewImporter(songs services.SongCollection) *Importer {
	return &Importer{songs: songs}
}

// Import adds every input to userID's collection through a rate-limited worker pool.
//
// Individual failures (a duplicate id, say) are recorded per row and do not stop the run.
// An unknown user fails the first row; the remaining rows are then skipped with the same error.
func (im *Importer) Import(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	userID int64,
	inputs []models.SongInput,
	opts ImportOpts,
) (*ImportResult, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id must be positive", shared.ErrInvalidArgument)
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 1
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	result := &ImportResult{
		UserID:  userID,
		Total:   len(inputs),
		Results: make([]SongImportResult, 0, len(inputs)),
	}
	sendProgress(prog, importStartedUpdate(len(inputs), userID))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan importJob, len(inputs))
	results := make(chan SongImportResult, len(inputs))

	var (
		wg      sync.WaitGroup
		fatal   error
		fatalMu sync.Mutex
	)
	abort := func(err error) {
		fatalMu.Lock()
		defer fatalMu.Unlock()
		if fatal == nil {
			fatal = err
		}
	}
	aborted := func() error {
		fatalMu.Lock()
		defer fatalMu.Unlock()
		return fatal
	}

	for range opts.NumWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				res := SongImportResult{Index: job.index, Input: job.input}
				if err := aborted(); err != nil {
					res.Error = err
					results <- res
					continue
				}
				if err := limiter.Wait(ctx); err != nil {
					res.Error = err
					results <- res
					continue
				}

				song, err := im.songs.AddSong(ctx, userID, job.input)
				if shared.KindOf(err) == shared.KindNotFound {
					abort(err)
				}
				res.Song, res.Error = song, err
				results <- res
			}
		}()
	}

	for i, in := range inputs {
		jobs <- importJob{index: i, input: in}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)
		if res.Error == nil {
			result.Added++
			sendProgress(prog, importCompletedUpdate(completed, len(inputs), res.Song))
		} else {
			result.Failed++
			sendProgress(prog, importFailedUpdate(completed, len(inputs), res.Input, res.Error))
		}
	}

	sort.Slice(result.Results, func(i, j int) bool {
		return result.Results[i].Index < result.Results[j].Index
	})

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if err := aborted(); err != nil {
		return result, err
	}
	return result, nil
}

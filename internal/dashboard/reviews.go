package dashboard

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"mentorship/internal/crud"
	"mentorship/internal/reviews"
)

// ReviewBoard is the reviews screen: weekly scores plus fee status.
type ReviewBoard struct {
	repo   *reviews.Repository
	scores *crud.Collection[reviews.Score, int]

	mu      sync.RWMutex
	fees    []reviews.Fee
	feesErr error
}

func NewReviewBoard(repo *reviews.Repository) *ReviewBoard {
	return &ReviewBoard{repo: repo, scores: crud.New[reviews.Score, int]("review-scores", repo)}
}

// Load fetches scores and fees together.
func (b *ReviewBoard) Load(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.scores.Reload(gctx) })
	g.Go(func() error { return b.loadFees(gctx) })
	return g.Wait()
}

func (b *ReviewBoard) loadFees(ctx context.Context) error {
	fees, err := b.repo.Fees(ctx)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.feesErr = err
	if err == nil {
		b.fees = fees
	}
	return err
}

func (b *ReviewBoard) Err() error {
	if err := b.scores.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.feesErr
}

func (b *ReviewBoard) Scores() []reviews.Score { return b.scores.Items() }

func (b *ReviewBoard) Fees() []reviews.Fee {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]reviews.Fee(nil), b.fees...)
}

// Outstanding is the total still owed across the loaded fees.
func (b *ReviewBoard) Outstanding() float64 {
	return reviews.OutstandingTotal(b.Fees())
}

// SaveScore creates a score without an id and updates one with an id, then reloads the scores.
func (b *ReviewBoard) SaveScore(ctx context.Context, s reviews.Score) (reviews.Score, error) {
	if s.ID == 0 {
		return b.scores.Create(ctx, s)
	}
	return b.scores.Update(ctx, s)
}

func (b *ReviewBoard) DeleteScore(ctx context.Context, id int) error {
	return b.scores.Delete(ctx, id)
}

// Package reviews covers the weekly review scores and the fee status tracked per user.
package reviews

import (
	"context"
	"net/http"
	"strconv"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"mentorship/internal/apiclient"
	"mentorship/internal/logger"
	"mentorship/internal/validate"
)

// Score is one weekly review. TotalScore is computed by the API.
type Score struct {
	ID               int     `json:"id"`
	UserID           int     `json:"userId" validate:"gt=0"`
	Week             int     `json:"week" validate:"gte=1,lte=52"`
	ReviewDate       string  `json:"reviewDate" validate:"required"`
	ReviewerName     string  `json:"reviewerName" validate:"required"`
	AcademicScore    float64 `json:"academicScore" validate:"gte=0"`
	ReviewScoreValue float64 `json:"reviewScoreValue" validate:"gte=0"`
	TaskScore        float64 `json:"taskScore" validate:"gte=0"`
	TotalScore       float64 `json:"totalScore"`
}

// ComputeTotal is the sum of the component scores, for previews before the API computes it.
func (s Score) ComputeTotal() float64 {
	return s.AcademicScore + s.ReviewScoreValue + s.TaskScore
}

// FeeStatus of a fee record.
type FeeStatus string

const (
	FeePending   FeeStatus = "Pending"
	FeeCompleted FeeStatus = "Completed"
	FeeOverdued  FeeStatus = "Overdued"
)

// Fee is the fee tracking part of a user's review entity.
type Fee struct {
	ID            int       `json:"id"`
	UserID        int       `json:"userId" validate:"gt=0"`
	FeeCategory   string    `json:"feeCategory" validate:"required"`
	PendingAmount float64   `json:"pendingAmount" validate:"gte=0"`
	DueDate       string    `json:"dueDate,omitempty"`
	FeeStatus     FeeStatus `json:"feeStatus" validate:"required,oneof=Pending Completed Overdued"`
}

// OutstandingTotal sums the pending amounts of fees not yet completed.
func OutstandingTotal(fees []Fee) float64 {
	total := 0.0
	for _, f := range fees {
		if f.FeeStatus != FeeCompleted {
			total += f.PendingAmount
		}
	}
	return total
}

// Repository is the HTTP-backed store for scores and fees.
type Repository struct {
	api *apiclient.Client
	log zerolog.Logger
}

func NewRepository(api *apiclient.Client) *Repository {
	return &Repository{api: api, log: logger.Get().With().Str("component", "reviews").Logger()}
}

func (r *Repository) List(ctx context.Context) ([]Score, error) {
	out, err := apiclient.List[Score](ctx, r.api, "/ReviewScores", nil)
	return out, pkgerrors.Wrap(err, "list review scores")
}

// ListByUser returns the scores of one user.
func (r *Repository) ListByUser(ctx context.Context, userID int) ([]Score, error) {
	out, err := apiclient.List[Score](ctx, r.api, "/ReviewScores/user/"+strconv.Itoa(userID), nil)
	return out, pkgerrors.Wrapf(err, "list review scores of %d", userID)
}

func (r *Repository) Create(ctx context.Context, s Score) (Score, error) {
	if err := validate.Struct(s); err != nil {
		return Score{}, err
	}
	s.TotalScore = s.ComputeTotal()
	saved, err := apiclient.Save(ctx, r.api, apiclient.Request{Method: http.MethodPost, Path: "/ReviewScores", Body: s}, s, scoreSaved)
	return saved, pkgerrors.Wrap(err, "create review score")
}

func (r *Repository) Update(ctx context.Context, s Score) (Score, error) {
	if err := validate.Struct(s); err != nil {
		return Score{}, err
	}
	s.TotalScore = s.ComputeTotal()
	saved, err := apiclient.Save(ctx, r.api, apiclient.Request{Method: http.MethodPut, Path: scorePath(s.ID), Body: s}, s, scoreSaved)
	return saved, pkgerrors.Wrapf(err, "update review score %d", s.ID)
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	return pkgerrors.Wrapf(r.api.Exec(ctx, apiclient.Request{Method: http.MethodDelete, Path: scorePath(id)}), "delete review score %d", id)
}

// Fees returns the fee records visible to the session.
func (r *Repository) Fees(ctx context.Context) ([]Fee, error) {
	out, err := apiclient.List[Fee](ctx, r.api, "/Review", nil)
	return out, pkgerrors.Wrap(err, "list fees")
}

func (r *Repository) CreateFee(ctx context.Context, f Fee) (Fee, error) {
	if err := validate.Struct(f); err != nil {
		return Fee{}, err
	}
	saved, err := apiclient.Save(ctx, r.api, apiclient.Request{Method: http.MethodPost, Path: "/Review", Body: f}, f, feeSaved)
	return saved, pkgerrors.Wrap(err, "create fee")
}

func (r *Repository) UpdateFee(ctx context.Context, f Fee) (Fee, error) {
	if err := validate.Struct(f); err != nil {
		return Fee{}, err
	}
	saved, err := apiclient.Save(ctx, r.api, apiclient.Request{Method: http.MethodPut, Path: feePath(f.ID), Body: f}, f, feeSaved)
	return saved, pkgerrors.Wrapf(err, "update fee %d", f.ID)
}

func (r *Repository) DeleteFee(ctx context.Context, id int) error {
	return pkgerrors.Wrapf(r.api.Exec(ctx, apiclient.Request{Method: http.MethodDelete, Path: feePath(id)}), "delete fee %d", id)
}

func scorePath(id int) string { return "/ReviewScores/" + strconv.Itoa(id) }
func feePath(id int) string   { return "/Review/" + strconv.Itoa(id) }

func scoreSaved(s Score) bool { return s.ID != 0 }
func feeSaved(f Fee) bool     { return f.ID != 0 }

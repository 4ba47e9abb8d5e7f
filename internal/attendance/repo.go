package attendance

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"mentorship/internal/apiclient"
	"mentorship/internal/logger"
	"mentorship/internal/validate"
)

const basePath = "/Attendance"

// Repository reads and writes attendance records through the API. Create and Update are distinct
// operations on the same natural key: Create fails with apierr.ErrConflict when the key exists,
// Update and Delete fail with apierr.ErrNotFound when it does not.
type Repository struct {
	api *apiclient.Client
	log zerolog.Logger
}

// NewRepository creates a repo.
func NewRepository(api *apiclient.Client) *Repository {
	return &Repository{api: api, log: logger.Get().With().Str("component", "attendance").Logger()}
}

// List returns every record visible to the session.
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	wire, err := apiclient.List[WireRecord](ctx, r.api, basePath, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list attendance")
	}
	out := make([]Record, 0, len(wire))
	for _, w := range wire {
		out = append(out, FromWire(w))
	}
	return out, nil
}

// Get fetches the record for key.
func (r *Repository) Get(ctx context.Context, key Key) (Record, error) {
	w, err := apiclient.One[WireRecord](ctx, r.api, apiclient.Request{
		Method: http.MethodGet,
		Path:   basePath + "/user-date",
		Query:  keyQuery(key),
	})
	if err != nil {
		return Record{}, pkgerrors.Wrapf(err, "get attendance %s", key)
	}
	return FromWire(w), nil
}

// Create adds a record for a key that has none yet.
func (r *Repository) Create(ctx context.Context, rec Record) (Record, error) {
	return r.write(ctx, http.MethodPost, rec)
}

// Update replaces the record stored under rec.Key().
func (r *Repository) Update(ctx context.Context, rec Record) (Record, error) {
	return r.write(ctx, http.MethodPut, rec)
}

// Delete removes the record for key.
func (r *Repository) Delete(ctx context.Context, key Key) error {
	err := r.api.Exec(ctx, apiclient.Request{Method: http.MethodDelete, Path: basePath, Query: keyQuery(key)})
	if err != nil {
		return pkgerrors.Wrapf(err, "delete attendance %s", key)
	}
	r.log.Info().Int("user_id", key.UserID).Str("date", key.Date.String()).Msg("attendance deleted")
	return nil
}

func (r *Repository) write(ctx context.Context, method string, rec Record) (Record, error) {
	w, err := ToWire(rec)
	if err != nil {
		return Record{}, err
	}
	if err := validate.Struct(w); err != nil {
		return Record{}, err
	}
	saved, err := apiclient.Save(ctx, r.api, apiclient.Request{Method: method, Path: basePath, Body: w}, w,
		func(s WireRecord) bool { return s.UserID != 0 })
	if err != nil {
		return Record{}, pkgerrors.Wrapf(err, "%s attendance %s", method, rec.Key())
	}
	r.log.Info().Str("method", method).Int("user_id", rec.UserID).Str("date", w.Date).Msg("attendance saved")
	return FromWire(saved), nil
}

func keyQuery(key Key) url.Values {
	q := url.Values{}
	q.Set("userId", strconv.Itoa(key.UserID))
	q.Set("date", key.Date.String())
	return q
}

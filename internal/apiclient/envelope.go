package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"mentorship/internal/apierr"
)

// envelopeKeys are the wrapper fields the API has been seen to use around payloads.
var envelopeKeys = []string{"data", "items", "$values", "result"}

// DecodeList maps every observed list envelope (bare array, {"data": [...]}, {"items": [...]},
// {"$values": [...]}, nested combinations) to a plain slice.
func DecodeList[T any](body []byte) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []T{}, nil
	}
	if body[0] == '[' {
		out := []T{}
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, pkgerrors.Wrap(err, "decode list")
		}
		return out, nil
	}
	if body[0] != '{' {
		return nil, pkgerrors.Errorf("decode list: unexpected payload %.20q", body)
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, pkgerrors.Wrap(err, "decode list envelope")
	}
	if raw, ok := unwrap(env); ok {
		return DecodeList[T](raw)
	}
	return nil, pkgerrors.New("decode list: unrecognized envelope")
}

// DecodeOne maps a bare object or {"data": {...}} to T. A null payload, bare or enveloped, is
// apierr.ErrNotFound.
func DecodeOne[T any](body []byte) (T, error) {
	var out T
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return out, pkgerrors.New("decode: empty body")
	}
	if bytes.Equal(body, []byte("null")) {
		return out, pkgerrors.Wrap(apierr.ErrNotFound, "decode: null payload")
	}
	if body[0] == '{' {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(body, &env); err == nil && isEnvelope(env) {
			if raw, ok := unwrap(env); ok {
				return DecodeOne[T](raw)
			}
		}
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, pkgerrors.Wrap(err, "decode")
	}
	return out, nil
}

func unwrap(env map[string]json.RawMessage) (json.RawMessage, bool) {
	for _, key := range envelopeKeys {
		for k, raw := range env {
			if strings.EqualFold(k, key) {
				return raw, true
			}
		}
	}
	return nil, false
}

// isEnvelope accepts objects made only of a payload key plus response metadata.
func isEnvelope(env map[string]json.RawMessage) bool {
	payload := false
	for k := range env {
		switch strings.ToLower(k) {
		case "data", "result":
			payload = true
		case "success", "message", "status", "statuscode", "errors":
		default:
			return false
		}
	}
	return payload
}

// List fetches path and normalizes the response into a slice.
func List[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	body, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return nil, err
	}
	return DecodeList[T](body)
}

// One sends req and normalizes the response into a single value.
func One[T any](ctx context.Context, c *Client, req Request) (T, error) {
	body, err := c.Do(ctx, req)
	if err != nil {
		var zero T
		return zero, err
	}
	return DecodeOne[T](body)
}

// Save sends a create or update whose response may be the stored entity, an envelope around it
// or an empty body. sent is returned when the API echoes nothing usable.
func Save[T any](ctx context.Context, c *Client, req Request, sent T, usable func(T) bool) (T, error) {
	body, err := c.Do(ctx, req)
	if err != nil {
		var zero T
		return zero, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return sent, nil
	}
	saved, err := DecodeOne[T](body)
	if err != nil || (usable != nil && !usable(saved)) {
		return sent, nil
	}
	return saved, nil
}

package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentorship/internal/apierr"
)

type row struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestDecodeListEnvelopes(t *testing.T) {
	want := []row{{1, "a"}, {2, "b"}}
	bodies := map[string]string{
		"bare":    `[{"id":1,"name":"a"},{"id":2,"name":"b"}]`,
		"data":    `{"success":true,"data":[{"id":1,"name":"a"},{"id":2,"name":"b"}]}`,
		"items":   `{"items":[{"id":1,"name":"a"},{"id":2,"name":"b"}],"count":2}`,
		"values":  `{"$id":"1","$values":[{"id":1,"name":"a"},{"id":2,"name":"b"}]}`,
		"nested":  `{"data":{"items":[{"id":1,"name":"a"},{"id":2,"name":"b"}],"total":2}}`,
		"result":  `{"result":{"$values":[{"id":1,"name":"a"},{"id":2,"name":"b"}]}}`,
		"uppered": `{"Data":[{"id":1,"name":"a"},{"id":2,"name":"b"}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			got, err := DecodeList[row]([]byte(body))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestDecodeListEmpty(t *testing.T) {
	for _, body := range []string{"", "  ", "null", "[]", `{"data":[]}`, `{"data":null}`} {
		got, err := DecodeList[row]([]byte(body))
		require.NoError(t, err, body)
		assert.NotNil(t, got, body)
		assert.Empty(t, got, body)
	}
}

func TestDecodeListRejectsUnknownShapes(t *testing.T) {
	_, err := DecodeList[row]([]byte(`{"rows":[]}`))
	assert.Error(t, err)
	_, err = DecodeList[row]([]byte(`"text"`))
	assert.Error(t, err)
}

func TestDecodeOne(t *testing.T) {
	got, err := DecodeOne[row]([]byte(`{"id":3,"name":"c"}`))
	require.NoError(t, err)
	assert.Equal(t, row{3, "c"}, got)

	got, err = DecodeOne[row]([]byte(`{"success":true,"message":"ok","data":{"id":3,"name":"c"}}`))
	require.NoError(t, err)
	assert.Equal(t, row{3, "c"}, got)

	// An entity that happens to have a "data" field is not an envelope.
	type doc struct {
		ID   int    `json:"id"`
		Data string `json:"data"`
	}
	d, err := DecodeOne[doc]([]byte(`{"id":4,"data":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, doc{4, "x"}, d)

	_, err = DecodeOne[row](nil)
	assert.Error(t, err)
}

func TestDecodeOneNullPayload(t *testing.T) {
	for _, body := range []string{`null`, `{"success":true,"data":null}`, `{"result":null}`} {
		got, err := DecodeOne[row]([]byte(body))
		assert.ErrorIs(t, err, apierr.ErrNotFound, body)
		assert.Zero(t, got, body)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":null}`))
	}))
	t.Cleanup(srv.Close)
	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = One[row](context.Background(), c, Request{Method: http.MethodGet, Path: "/Profiles/9"})
	assert.ErrorIs(t, err, apierr.ErrNotFound)
}

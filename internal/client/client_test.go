package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredict_Success(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, predictPath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"state": "responded",
			"score": 60,
			"inputs": [{"name": "MUCAPE", "label": "Most Unstable Parcel CAPE", "value": "1500"}],
			"contributions": [{"model": "gbt", "probability": 0.5, "percent": 50}],
			"scored_at": "2024-04-26T21:00:00Z"
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second)
	p, err := c.Predict(context.Background(), map[string]string{"MUCAPE": "1500"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"MUCAPE": "1500"}, got)
	assert.Equal(t, "responded", p.State)
	assert.InDelta(t, 60.0, p.Score, 1e-9)
	require.Len(t, p.Contributions, 1)
	assert.Equal(t, "gbt", p.Contributions[0].Model)
	assert.Equal(t, time.Date(2024, time.April, 26, 21, 0, 0, 0, time.UTC), p.ScoredAt)
}

func TestPredict_ValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"state":"rejected","error":"bad input","fields":[{"field":"MUCIN","label":"Most Unstable Parcel CIN","problem":"not a number"}]}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Predict(context.Background(), map[string]string{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Len(t, apiErr.Fields, 1)
	assert.Equal(t, "MUCIN", apiErr.Fields[0].Field)
	assert.Contains(t, err.Error(), "MUCIN: not a number")
}

func TestPredict_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Predict(context.Background(), map[string]string{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Contains(t, err.Error(), "Too Many Requests")
}

func TestPredict_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).Predict(context.Background(), nil)
	require.Error(t, err)

	var apiErr *APIError
	assert.NotErrorAs(t, err, &apiErr)
}

package ics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedServer(t *testing.T, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Header().Set("Content-Type", "text/calendar")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetchOne_RevalidatesAndFallsBack(t *testing.T) {
	srv, hits := feedServer(t, academicFeed)
	f := NewFetcher(t.TempDir(), srv.Client())
	feed := Feed{ID: "uni", URL: srv.URL + "/cal.ics"}
	ctx := context.Background()

	first, err := f.FetchOne(ctx, feed)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, academicFeed, string(first.Body))

	second, err := f.FetchOne(ctx, feed)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Body, second.Body)
	assert.EqualValues(t, 2, hits.Load())

	srv.Close()
	third, err := f.FetchOne(ctx, feed)
	require.NoError(t, err)
	assert.True(t, third.FromCache)
	assert.Equal(t, first.Body, third.Body)
}

func TestFetchOne_ErrorWithoutCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir(), srv.Client())
	_, err := f.FetchOne(context.Background(), Feed{ID: "x", URL: srv.URL})
	assert.ErrorContains(t, err, "410")

	_, err = f.FetchOne(context.Background(), Feed{ID: "empty"})
	assert.Error(t, err)
}

func TestFetchAll_CollectsErrors(t *testing.T) {
	good, _ := feedServer(t, academicFeed)
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	f := NewFetcher(t.TempDir(), nil)
	results, err := f.FetchAll(context.Background(), []Feed{
		{ID: "good", URL: good.URL},
		{ID: "bad", URL: bad.URL},
	})
	require.Len(t, results, 1)
	assert.Equal(t, "good", results[0].Feed.ID)
	assert.ErrorContains(t, err, "feed bad")
}

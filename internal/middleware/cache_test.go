package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type fakeCacheStore struct {
	data map[string][]byte
}

func newFakeCacheStore() *fakeCacheStore {
	return &fakeCacheStore{data: map[string][]byte{}}
}

func (f *fakeCacheStore) Get(_ context.Context, key string) *redis.StringCmd {
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeCacheStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.data[key] = value.([]byte)
	return redis.NewStatusResult("OK", nil)
}

func TestCacheMissThenHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newFakeCacheStore()
	calls := 0

	router := gin.New()
	router.GET("/timetable/week", Cache(store, time.Minute, nil, nil), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"cells": "full"})
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/timetable/week?programId=7", nil))
	if got := first.Header().Get("X-Cache"); got != "MISS" {
		t.Fatalf("unexpected cache header: %s", got)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/timetable/week?programId=7", nil))
	if got := second.Header().Get("X-Cache"); got != "HIT" {
		t.Fatalf("unexpected cache header: %s", got)
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("cached body diverged: %q vs %q", first.Body.String(), second.Body.String())
	}
	if ct := second.Header().Get("Content-Type"); ct != first.Header().Get("Content-Type") {
		t.Fatalf("content type not restored: %s", ct)
	}
}

func TestCacheRestoresContentType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newFakeCacheStore()

	router := gin.New()
	router.GET("/timetable/report.pdf", Cache(store, time.Minute, nil, nil), func(c *gin.Context) {
		c.Data(http.StatusOK, "application/pdf", []byte("%PDF-1.4"))
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/timetable/report.pdf", nil))

	hit := httptest.NewRecorder()
	router.ServeHTTP(hit, httptest.NewRequest(http.MethodGet, "/timetable/report.pdf", nil))
	if got := hit.Header().Get("X-Cache"); got != "HIT" {
		t.Fatalf("unexpected cache header: %s", got)
	}
	if ct := hit.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type on hit: %s", ct)
	}
	if hit.Body.String() != "%PDF-1.4" {
		t.Fatalf("unexpected cached body: %q", hit.Body.String())
	}
}

// Per-actor views are wired without the cache middleware, so one
// caller's response can never be replayed to another. This mirrors the
// route layout in cmd/api-gateway.
func TestCacheLeftOffPersonalViews(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newFakeCacheStore()

	router := gin.New()
	router.GET("/timetable/faculty", Cache(store, time.Minute, nil, nil), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"weeks": "all"})
	})
	router.GET("/timetable/faculty/:id", func(c *gin.Context) {
		// Stands in for the handler's actor check: the response depends
		// on who is asking.
		c.JSON(http.StatusOK, gin.H{"viewer": c.GetHeader("X-User")})
	})

	reqA := httptest.NewRequest(http.MethodGet, "/timetable/faculty/10", nil)
	reqA.Header.Set("X-User", "teacher-a")
	recA := httptest.NewRecorder()
	router.ServeHTTP(recA, reqA)

	reqB := httptest.NewRequest(http.MethodGet, "/timetable/faculty/10", nil)
	reqB.Header.Set("X-User", "teacher-b")
	recB := httptest.NewRecorder()
	router.ServeHTTP(recB, reqB)

	if recA.Body.String() == recB.Body.String() {
		t.Fatalf("second caller was served the first caller's view: %q", recB.Body.String())
	}
	if _, ok := store.data[cacheKeyPrefix+"/timetable/faculty/10"]; ok {
		t.Fatalf("personal view must not be cached")
	}
}

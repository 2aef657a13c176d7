// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/analysis"
	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/events"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
	ws "github.com/tomtom215/cinematch/internal/websocket"
)

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []*events.ServedEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event *events.ServedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *fakePublisher) published() []*events.ServedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*events.ServedEvent, len(p.events))
	copy(out, p.events)
	return out
}

// fakeAnalyzer returns fixed genres or a fixed error.
type fakeAnalyzer struct {
	genres []string
	err    error

	mu      sync.Mutex
	uploads []analysis.Upload
}

func (a *fakeAnalyzer) Analyze(_ context.Context, upload analysis.Upload) ([]string, error) {
	a.mu.Lock()
	a.uploads = append(a.uploads, upload)
	a.mu.Unlock()
	if a.err != nil {
		return nil, a.err
	}
	return a.genres, nil
}

// fakeStats returns a fixed snapshot and records the requested top.
type fakeStats struct {
	mu   sync.Mutex
	tops []int
}

func (s *fakeStats) Snapshot(top int) events.ServedStats {
	s.mu.Lock()
	s.tops = append(s.tops, top)
	s.mu.Unlock()
	return events.ServedStats{
		Events:    3,
		Titles:    12,
		ByKind:    map[string]int{events.KindRanked: 3},
		TopTitles: []events.TitleCount{{ID: 1, Count: 3}},
	}
}

type testEnv struct {
	handler   *Handler
	router    http.Handler
	publisher *fakePublisher
	analyzer  *fakeAnalyzer
	stats     *fakeStats
}

func newTestEnv(t *testing.T, mutate func(*HandlerConfig)) *testEnv {
	t.Helper()

	store, err := catalog.LoadSeed()
	if err != nil {
		t.Fatalf("LoadSeed() error = %v", err)
	}
	engine, err := recommend.NewEngine(recommend.DefaultConfig(), store, zerolog.Nop(),
		recommend.WithRandomSource(recommend.NewSeededSource(1)))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	env := &testEnv{
		publisher: &fakePublisher{},
		analyzer:  &fakeAnalyzer{genres: []string{"Drama", "Thriller"}},
		stats:     &fakeStats{},
	}

	cfg := HandlerConfig{
		Engine:         engine,
		Catalog:        store,
		Analyzer:       env.analyzer,
		Publisher:      env.publisher,
		Stats:          env.stats,
		Hub:            ws.NewHub(zerolog.Nop()),
		AllowedOrigins: []string{"*"},
		Version:        "test",
		Logger:         zerolog.Nop(),
	}
	if mutate != nil {
		mutate(&cfg)
	}

	h, err := NewHandler(cfg)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	env.handler = h

	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	env.router = NewRouter(h, NewChiMiddleware(mw), 0).SetupChi()
	return env
}

// envelope mirrors models.APIResponse with undecoded data.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, target string, body io.Reader, header http.Header) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	for k, v := range header {
		req.Header[k] = v
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: response is not an envelope: %v\n%s", method, target, err, rec.Body.String())
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v\n%s", err, env.Data)
	}
}

func TestNewHandler_RequiresEngineAndCatalog(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler(HandlerConfig{}); err == nil {
		t.Error("NewHandler() without engine should fail")
	}
}

func TestHealthLive(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/health/live", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp.Status != models.StatusSuccess {
		t.Errorf("envelope status = %q", resp.Status)
	}
	if resp.Metadata.RequestID == "" {
		t.Error("metadata.request_id should be set")
	}
	if rec.Header().Get("X-Request-ID") != resp.Metadata.RequestID {
		t.Error("X-Request-ID header should match metadata")
	}

	var health models.HealthStatus
	decodeData(t, resp, &health)
	if health.Status != models.HealthOK || health.Version != "test" {
		t.Errorf("health = %+v", health)
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		checks     map[string]ReadinessCheck
		wantStatus int
		wantChecks map[string]string
	}{
		{
			name:       "no checks",
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"catalog": "ok"},
		},
		{
			name: "passing check",
			checks: map[string]ReadinessCheck{
				"events": RunningCheck(func() bool { return true }),
			},
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"catalog": "ok", "events": "ok"},
		},
		{
			name: "failing check",
			checks: map[string]ReadinessCheck{
				"events": RunningCheck(func() bool { return false }),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"catalog": "ok", "events": "not running"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, func(c *HandlerConfig) { c.Checks = tt.checks })

			rec, resp := env.do(t, http.MethodGet, "/api/v1/health/ready", nil, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var health models.HealthStatus
			decodeData(t, resp, &health)
			for k, v := range tt.wantChecks {
				if health.Checks[k] != v {
					t.Errorf("checks[%s] = %q, want %q", k, health.Checks[k], v)
				}
			}
			if tt.wantStatus != http.StatusOK && resp.Error.Code != models.ErrCodeServiceUnavailable {
				t.Errorf("error code = %v", resp.Error)
			}
		})
	}
}

func TestRecommendations_Modes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		body     string
		wantMode recommend.Mode
	}{
		{"auto without genres groups", "/api/v1/recommendations", `{"platform":"netflix"}`, recommend.ModeGrouped},
		{"auto with genres ranks", "/api/v1/recommendations", `{"platform":"netflix","genres":["Action"]}`, recommend.ModeRanked},
		{"ranked", "/api/v1/recommendations/ranked", `{"cross_platform":true}`, recommend.ModeRanked},
		{"grouped", "/api/v1/recommendations/grouped", `{"cross_platform":true}`, recommend.ModeGrouped},
		{"compact", "/api/v1/recommendations/compact", `{"cross_platform":true}`, recommend.ModeCompact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, nil)

			rec, resp := env.do(t, http.MethodPost, tt.path, strings.NewReader(tt.body), nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}

			var result recommend.Result
			decodeData(t, resp, &result)
			if result.Mode != tt.wantMode {
				t.Errorf("mode = %q, want %q", result.Mode, tt.wantMode)
			}
			if result.Titles == nil || result.Groups == nil {
				t.Error("titles and groups should always be present")
			}

			published := env.publisher.published()
			if result.Size() == 0 {
				if len(published) != 0 {
					t.Errorf("empty result published %d events", len(published))
				}
				return
			}
			if len(published) != 1 {
				t.Fatalf("published %d events, want 1", len(published))
			}
			event := published[0]
			if event.Kind != string(tt.wantMode) {
				t.Errorf("event kind = %q", event.Kind)
			}
			if len(event.TitleIDs) != result.Size() {
				t.Errorf("event ids = %d, result size = %d", len(event.TitleIDs), result.Size())
			}
			if event.RequestID != resp.Metadata.RequestID {
				t.Errorf("event request id = %q, want %q", event.RequestID, resp.Metadata.RequestID)
			}
		})
	}
}

func TestRecommendations_BadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"empty body", ``, http.StatusBadRequest, models.ErrCodeBadRequest},
		{"whitespace body", " \n\t ", http.StatusBadRequest, models.ErrCodeBadRequest},
		{"malformed JSON", `{"platform":`, http.StatusBadRequest, models.ErrCodeBadRequest},
		{"count too large", `{"count":5000}`, http.StatusBadRequest, models.ErrCodeValidation},
		{"negative count", `{"count":-1}`, http.StatusBadRequest, models.ErrCodeValidation},
		{"bad language code", `{"languages":["english!"]}`, http.StatusBadRequest, models.ErrCodeValidation},
		{"bad platform", `{"platform":"net<flix>"}`, http.StatusBadRequest, models.ErrCodeValidation},
		{"body too large", `{"platform":"` + strings.Repeat("x", maxJSONBody) + `"}`, http.StatusRequestEntityTooLarge, models.ErrCodePayloadTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, nil)

			rec, resp := env.do(t, http.MethodPost, "/api/v1/recommendations/ranked", strings.NewReader(tt.body), nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if resp.Status != models.StatusError || resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
			if len(env.publisher.published()) != 0 {
				t.Error("rejected requests must not publish")
			}
		})
	}
}

func TestRecommendations_UnknownPlatformBackfills(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	// An unknown platform matches nothing and falls through to backfill.
	rec, resp := env.do(t, http.MethodPost, "/api/v1/recommendations/ranked",
		strings.NewReader(`{"platform":"no-such-service"}`), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var result recommend.Result
	decodeData(t, resp, &result)
	if result.Tier != recommend.TierBackfill {
		t.Errorf("tier = %q, want backfill", result.Tier)
	}
	if result.PoolBeforeBackfill != 0 {
		t.Errorf("pool before backfill = %d, want 0", result.PoolBeforeBackfill)
	}
	if result.Backfilled == 0 {
		t.Error("seed catalog should backfill high-match titles")
	}
}

func TestRecommendations_PublishFailureIsNotSurfaced(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	env.publisher.err = errors.New("bus down")

	rec, _ := env.do(t, http.MethodPost, "/api/v1/recommendations/ranked",
		strings.NewReader(`{"cross_platform":true}`), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, publish failures must not fail the request", rec.Code)
	}
	if len(env.publisher.published()) != 1 {
		t.Error("publish should have been attempted")
	}
}

func TestTitle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
	}{
		{"found", "/api/v1/titles/1", http.StatusOK, ""},
		{"unknown id", "/api/v1/titles/999999", http.StatusNotFound, models.ErrCodeNotFound},
		{"non-numeric id", "/api/v1/titles/abc", http.StatusBadRequest, models.ErrCodeValidation},
		{"zero id", "/api/v1/titles/0", http.StatusBadRequest, models.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := env.do(t, http.MethodGet, tt.path, nil, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode != "" {
				if resp.Error == nil || resp.Error.Code != tt.wantCode {
					t.Errorf("error = %+v", resp.Error)
				}
				return
			}
			var title catalog.Title
			decodeData(t, resp, &title)
			if title.ID != 1 || title.Title != "Inception" {
				t.Errorf("title = %d %q", title.ID, title.Title)
			}
		})
	}
}

func TestTitle_ETag(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, _ := env.do(t, http.MethodGet, "/api/v1/titles/1", nil, nil)
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("ETag should be set")
	}

	rec, _ = env.do(t, http.MethodGet, "/api/v1/titles/1", nil, http.Header{"If-None-Match": {etag}})
	if rec.Code != http.StatusNotModified {
		t.Errorf("status = %d, want 304", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Error("304 must not carry a body")
	}
}

func TestSimilar(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/titles/1/similar?count=3", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var result models.SimilarResult
	decodeData(t, resp, &result)
	if result.Title.ID != 1 {
		t.Errorf("reference = %d", result.Title.ID)
	}
	if len(result.Titles) == 0 || len(result.Titles) > 3 {
		t.Fatalf("got %d similar titles, want 1..3", len(result.Titles))
	}
	for i, title := range result.Titles {
		if title.ID == 1 {
			t.Error("reference must not be similar to itself")
		}
		if i > 0 && title.MatchPercentage > result.Titles[i-1].MatchPercentage {
			t.Error("similar titles should be sorted by match percentage")
		}
	}

	published := env.publisher.published()
	if len(published) != 1 || published[0].Kind != events.KindSimilar {
		t.Errorf("published = %+v", published)
	}

	for _, path := range []string{"/api/v1/titles/1/similar?count=x", "/api/v1/titles/1/similar?count=-2"} {
		if rec, _ := env.do(t, http.MethodGet, path, nil, nil); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
	if rec, _ := env.do(t, http.MethodGet, "/api/v1/titles/999999/similar", nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", rec.Code)
	}
}

func TestPartitions(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/catalog/partitions", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var list models.PartitionList
	decodeData(t, resp, &list)
	if len(list.Partitions) != len(catalog.SeedPartitions) {
		t.Errorf("partitions = %d, want %d", len(list.Partitions), len(catalog.SeedPartitions))
	}
	if len(list.Merged) != len(catalog.SeedPartitions) {
		t.Errorf("merged = %v", list.Merged)
	}
	if len(list.Genres) == 0 || len(list.Platforms) == 0 || len(list.Languages) == 0 {
		t.Errorf("list = %+v", list)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/languages/classify?title=Inception&genres=Sci-Fi,%20Action", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var result models.ClassifyResult
	decodeData(t, resp, &result)
	if result.Language == "" {
		t.Error("language should be inferred")
	}
	if len(result.Genres) != 2 || result.Genres[1] != "Action" {
		t.Errorf("genres = %v", result.Genres)
	}

	bad := []string{
		"/api/v1/languages/classify",
		"/api/v1/languages/classify?title=%20%20",
		"/api/v1/languages/classify?title=" + strings.Repeat("a", maxClassifyTitle+1),
	}
	for _, path := range bad {
		rec, resp := env.do(t, http.MethodGet, path, nil, nil)
		if rec.Code != http.StatusBadRequest || resp.Error.Code != models.ErrCodeValidation {
			t.Errorf("%s: status = %d", path, rec.Code)
		}
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/search?q=inception&cross_platform=true", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var result recommend.SearchResult
	decodeData(t, resp, &result)
	if result.Mode != recommend.SearchModeSimilar || result.MatchedID != 1 {
		t.Errorf("result = %s matched %d", result.Mode, result.MatchedID)
	}

	published := env.publisher.published()
	if len(result.Titles) > 0 {
		if len(published) != 1 {
			t.Fatalf("published %d events", len(published))
		}
		if published[0].Kind != events.KindSearch || published[0].Query != "inception" || !published[0].CrossPlatform {
			t.Errorf("event = %+v", published[0])
		}
	}
}

func TestSearch_BlankAndInvalid(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/search?q=", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("blank query: status = %d", rec.Code)
	}
	var result recommend.SearchResult
	decodeData(t, resp, &result)
	if result.Mode != recommend.SearchModeNone || len(result.Titles) != 0 {
		t.Errorf("blank query result = %+v", result)
	}
	if len(env.publisher.published()) != 0 {
		t.Error("empty results must not publish")
	}

	rec, _ = env.do(t, http.MethodGet, "/api/v1/search?q="+strings.Repeat("q", 201), nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("long query: status = %d", rec.Code)
	}
	rec, _ = env.do(t, http.MethodGet, "/api/v1/search?q=x&languages=1234", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad language: status = %d", rec.Code)
	}
}

func TestSuggest(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/search/suggest?q=nolan", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var result models.SuggestResult
	decodeData(t, resp, &result)
	if result.Query != "nolan" || len(result.Titles) == 0 {
		t.Errorf("result = %+v", result)
	}

	rec, resp = env.do(t, http.MethodGet, "/api/v1/search/suggest", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("empty query: status = %d", rec.Code)
	}
	decodeData(t, resp, &result)
	if result.Titles == nil || len(result.Titles) != 0 {
		t.Errorf("empty query titles = %v, want []", result.Titles)
	}

	rec, _ = env.do(t, http.MethodGet, "/api/v1/search/suggest?q="+strings.Repeat("x", ws.MaxQueryLength+1), nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("long query: status = %d", rec.Code)
	}
}

func multipartBody(t *testing.T, field, filename string, content []byte) (io.Reader, http.Header) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile() = %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, http.Header{"Content-Type": {mw.FormDataContentType()}}
}

func TestAnalyze(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	body, header := multipartBody(t, "file", "history.csv", []byte("title,date\nInception,2024-01-01\n"))
	rec, resp := env.do(t, http.MethodPost, "/api/v1/analyze", body, header)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var result models.AnalysisResult
	decodeData(t, resp, &result)
	if result.Filename != "history.csv" || result.Size == 0 {
		t.Errorf("result = %+v", result)
	}
	if len(result.Genres) != 2 || result.Genres[0] != "Drama" {
		t.Errorf("genres = %v", result.Genres)
	}

	env.analyzer.mu.Lock()
	uploads := env.analyzer.uploads
	env.analyzer.mu.Unlock()
	if len(uploads) != 1 || uploads[0].Filename != "history.csv" {
		t.Errorf("uploads = %+v", uploads)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"rate limited", analysis.ErrRateLimited, http.StatusTooManyRequests, models.ErrCodeRateLimited},
		{"breaker open", analysis.ErrUnavailable, http.StatusServiceUnavailable, models.ErrCodeServiceUnavailable},
		{"invalid upload", analysis.ErrInvalidUpload, http.StatusBadRequest, models.ErrCodeValidation},
		{"canceled", context.Canceled, http.StatusServiceUnavailable, models.ErrCodeServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, models.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, nil)
			env.analyzer.err = tt.err

			body, header := multipartBody(t, "file", "history.csv", []byte("data"))
			rec, resp := env.do(t, http.MethodPost, "/api/v1/analyze", body, header)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want %s", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestAnalyze_BadUploads(t *testing.T) {
	t.Parallel()

	t.Run("missing file field", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, nil)
		body, header := multipartBody(t, "other", "history.csv", []byte("data"))
		rec, _ := env.do(t, http.MethodPost, "/api/v1/analyze", body, header)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("not multipart", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, nil)
		rec, resp := env.do(t, http.MethodPost, "/api/v1/analyze", strings.NewReader(`{}`), nil)
		if rec.Code != http.StatusBadRequest || resp.Error.Code != models.ErrCodeBadRequest {
			t.Errorf("status = %d, error = %+v", rec.Code, resp.Error)
		}
	})

	t.Run("file too large", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, func(c *HandlerConfig) { c.MaxUploadSize = 16 })
		body, header := multipartBody(t, "file", "history.csv", bytes.Repeat([]byte("x"), 64))
		rec, resp := env.do(t, http.MethodPost, "/api/v1/analyze", body, header)
		if rec.Code != http.StatusRequestEntityTooLarge || resp.Error.Code != models.ErrCodePayloadTooLarge {
			t.Errorf("status = %d, error = %+v", rec.Code, resp.Error)
		}
	})

	t.Run("analyzer disabled", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, func(c *HandlerConfig) { c.Analyzer = nil })
		body, header := multipartBody(t, "file", "history.csv", []byte("data"))
		rec, _ := env.do(t, http.MethodPost, "/api/v1/analyze", body, header)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d", rec.Code)
		}
	})
}

func TestServedStats(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/stats/served?top=500", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats events.ServedStats
	decodeData(t, resp, &stats)
	if stats.Events != 3 || len(stats.TopTitles) != 1 {
		t.Errorf("stats = %+v", stats)
	}

	env.do(t, http.MethodGet, "/api/v1/stats/served", nil, nil)
	env.stats.mu.Lock()
	tops := env.stats.tops
	env.stats.mu.Unlock()
	if len(tops) != 2 || tops[0] != maxTopTitles || tops[1] != defaultTopTitles {
		t.Errorf("requested tops = %v, want [%d %d]", tops, maxTopTitles, defaultTopTitles)
	}

	if rec, _ := env.do(t, http.MethodGet, "/api/v1/stats/served?top=-1", nil, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("negative top: status = %d", rec.Code)
	}

	disabled := newTestEnv(t, func(c *HandlerConfig) { c.Stats = nil })
	if rec, _ := disabled.do(t, http.MethodGet, "/api/v1/stats/served", nil, nil); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("disabled: status = %d", rec.Code)
	}
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/nope", nil, nil)
	if rec.Code != http.StatusNotFound || resp.Error.Code != models.ErrCodeNotFound {
		t.Errorf("unknown route: status = %d", rec.Code)
	}

	rec, _ = env.do(t, http.MethodGet, "/api/v1/recommendations/ranked", nil, nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET on POST route: status = %d", rec.Code)
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("metrics output should include runtime collectors")
	}
}

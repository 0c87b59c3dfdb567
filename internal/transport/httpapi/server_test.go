package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tripdex/tripdex/internal/domain"
	chatuc "github.com/tripdex/tripdex/internal/usecase/chat"
	healthuc "github.com/tripdex/tripdex/internal/usecase/health"
	safetyuc "github.com/tripdex/tripdex/internal/usecase/safety"
	searchuc "github.com/tripdex/tripdex/internal/usecase/search"
)

// --- Stubs ---

type stubIndex struct {
	results []domain.SearchResult
	err     error
	loc     *domain.Location
	locErr  error
}

func (s *stubIndex) Query(_ context.Context, _ domain.IndexQuery) ([]domain.SearchResult, error) {
	return s.results, s.err
}

func (s *stubIndex) Get(_ context.Context, _ string) (*domain.Location, error) {
	return s.loc, s.locErr
}

func (s *stubIndex) Ping(_ context.Context) error { return nil }

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if s.err != nil {
		return domain.EmbeddingResult{}, s.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(
	_ context.Context, _ string, _ []domain.ChatMessage, _ string,
) (string, error) {
	return s.reply, s.err
}

func f64(v float64) *float64 { return &v }

func testServer(index *stubIndex, completer *stubCompleter) *Server {
	return testServerWithEmbedder(index, &stubEmbedder{}, completer)
}

func testServerWithEmbedder(index *stubIndex, embed *stubEmbedder, completer *stubCompleter) *Server {
	return NewServer(
		searchuc.New(index, embed, searchuc.WithLocator(index)),
		chatuc.New(completer),
		safetyuc.New(completer),
		healthuc.New(index, nil),
		zap.NewNop(),
	)
}

func doJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return env
}

// --- Tests ---

func TestSearch_ResponseShape(t *testing.T) {
	index := &stubIndex{results: []domain.SearchResult{
		{
			Location: domain.Location{
				ID:        "loc_1",
				Name:      "Jumeirah Beach",
				Category:  "beach",
				Tags:      []string{"sunset", "romantic"},
				Rating:    4.7,
				Latitude:  f64(25.2048),
				Longitude: f64(55.2708),
			},
			SimilarityScore: 0.92,
		},
	}}
	srv := testServer(index, &stubCompleter{})

	rr := doJSON(t, srv.Search, `{
		"query": "romantic sunset spots",
		"limit": 10,
		"userLocation": {"lat": 25.0805, "lng": 55.1403}
	}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp searchResponseDTO
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Results) != 1 {
		t.Fatalf("unexpected totals: %+v", resp)
	}
	if resp.Results[0].ID != "loc_1" || resp.Results[0].SimilarityScore != 0.92 {
		t.Errorf("unexpected result %+v", resp.Results[0])
	}
	if resp.Results[0].DistanceKm == nil {
		t.Error("expected distance augmentation with a user location")
	}
	if len(resp.Suggestions) != 3 {
		t.Errorf("expected 3 suggestions, got %d", len(resp.Suggestions))
	}
}

func TestSearch_InvalidBody(t *testing.T) {
	srv := testServer(&stubIndex{}, &stubCompleter{})

	rr := doJSON(t, srv.Search, `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	if env.Error.Code != codeInvalidRequest {
		t.Errorf("code = %q, want %q", env.Error.Code, codeInvalidRequest)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	srv := testServer(&stubIndex{}, &stubCompleter{})

	rr := doJSON(t, srv.Search, `{"query": ""}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	if env.Error.Code != codeInvalidRequest || env.Success {
		t.Errorf("unexpected envelope %+v", env)
	}
}

func TestSearch_IndexOutage(t *testing.T) {
	index := &stubIndex{err: errors.New("connection refused")}
	srv := testServer(index, &stubCompleter{})

	rr := doJSON(t, srv.Search, `{"query": "beach"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	if env.Error.Code != codeSearchFailed {
		t.Errorf("code = %q, want %q", env.Error.Code, codeSearchFailed)
	}
	if strings.Contains(env.Error.Message, "connection refused") {
		t.Error("internal error details must not leak to clients")
	}
}

func TestSearch_DimensionMismatchIsInternal(t *testing.T) {
	index := &stubIndex{
		err: fmt.Errorf("%w: got 512, index expects 768", domain.ErrVectorDimMismatch),
	}
	srv := testServer(index, &stubCompleter{})

	rr := doJSON(t, srv.Search, `{"query": "beach"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for a backend dimension mismatch, got %d", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	if env.Error.Code != codeSearchFailed {
		t.Errorf("code = %q, want %q", env.Error.Code, codeSearchFailed)
	}
	if strings.Contains(env.Error.Message, "768") {
		t.Error("index configuration details must not leak to clients")
	}
}

func TestSearch_ProviderRateLimit(t *testing.T) {
	embed := &stubEmbedder{
		err: fmt.Errorf("%w: %w", domain.ErrRateLimited, domain.ErrEmbeddingFailed),
	}
	srv := testServerWithEmbedder(&stubIndex{}, embed, &stubCompleter{})

	rr := doJSON(t, srv.Search, `{"query": "beach"}`)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	if env.Error.Code != codeRateLimited {
		t.Errorf("code = %q, want %q", env.Error.Code, codeRateLimited)
	}
}

func getLocation(t *testing.T, srv *Server, id string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/api/locations/{id}", srv.GetLocation)

	req := httptest.NewRequest("GET", "/api/locations/"+id, http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestGetLocation_OK(t *testing.T) {
	index := &stubIndex{loc: &domain.Location{
		ID:       "loc_1",
		Name:     "Jumeirah Beach",
		Category: "beach",
		Rating:   4.7,
	}}
	srv := testServer(index, &stubCompleter{})

	rr := getLocation(t, srv, "loc_1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp locationResponseDTO
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Location.ID != "loc_1" || resp.Location.Rating != 4.7 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestGetLocation_NotFound(t *testing.T) {
	index := &stubIndex{locErr: domain.ErrLocationNotFound}
	srv := testServer(index, &stubCompleter{})

	rr := getLocation(t, srv, "ghost")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	if env.Error.Code != codeLocationNotFound {
		t.Errorf("code = %q, want %q", env.Error.Code, codeLocationNotFound)
	}
}

func TestChat_HappyPath(t *testing.T) {
	srv := testServer(&stubIndex{}, &stubCompleter{reply: "Try the old town souk."})

	rr := doJSON(t, srv.Chat, `{"message": "what should I see?"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp chatResponseDTO
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Response != "Try the old town souk." {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestChat_ProviderFailure(t *testing.T) {
	srv := testServer(&stubIndex{}, &stubCompleter{err: domain.ErrChatFailed})

	rr := doJSON(t, srv.Chat, `{"message": "hello"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	if env.Error.Code != codeChatFailed {
		t.Errorf("code = %q, want %q", env.Error.Code, codeChatFailed)
	}
}

func TestSafetyCheck_HappyPath(t *testing.T) {
	srv := testServer(&stubIndex{}, &stubCompleter{
		reply: "The area is safe and secure. You should stay on lit streets.",
	})

	rr := doJSON(t, srv.SafetyCheck, `{
		"locationName": "Dubai Marina Walk",
		"coordinates": {"lat": 25.08, "lng": 55.14},
		"timeOfDay": "evening"
	}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp safetyResponseDTO
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.RiskLevel != "low" {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.Location != "Dubai Marina Walk" || resp.TimeOfDay != "evening" {
		t.Errorf("request echo missing: %+v", resp)
	}
}

func TestSafetyCheck_InvalidTimeOfDay(t *testing.T) {
	srv := testServer(&stubIndex{}, &stubCompleter{})

	rr := doJSON(t, srv.SafetyCheck, `{
		"locationName": "Dubai Marina Walk",
		"coordinates": {"lat": 25.08, "lng": 55.14},
		"timeOfDay": "noonish"
	}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestHealthCheck_OK(t *testing.T) {
	srv := testServer(&stubIndex{}, &stubCompleter{})

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	srv.HealthCheck(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp healthResponseDTO
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Checks["index"] != "ok" {
		t.Errorf("unexpected health response %+v", resp)
	}
}

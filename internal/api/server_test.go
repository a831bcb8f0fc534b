package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analyzer "github.com/FrenchMajesty/text-analyzer"
	"github.com/FrenchMajesty/text-analyzer/model"
	"github.com/FrenchMajesty/text-analyzer/pkg/testutil"
)

type mockPredictor struct {
	names       []string
	PredictFunc func(ctx context.Context, name string, text string) (*analyzer.Result, error)
	lastName    string
	lastText    string
}

func (m *mockPredictor) Names() []string { return m.names }

func (m *mockPredictor) Predict(ctx context.Context, name string, text string) (*analyzer.Result, error) {
	m.lastName = name
	m.lastText = text
	return m.PredictFunc(ctx, name, text)
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestHealth(t *testing.T) {
	s := NewServer(&mockPredictor{})

	rec, body := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestClassifiers(t *testing.T) {
	s := NewServer(&mockPredictor{names: []string{"sarcasm", "platform"}})

	rec, body := do(t, s, http.MethodGet, "/api/classifiers", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"sarcasm", "platform"}, body["classifiers"])
}

func TestClassify_Success(t *testing.T) {
	p := &mockPredictor{PredictFunc: func(ctx context.Context, name string, text string) (*analyzer.Result, error) {
		return &analyzer.Result{Classifier: name, Label: "reddit", Confidence: 0.93, CacheHit: true, Latency: 12 * time.Millisecond}, nil
	}}
	s := NewServer(p)

	rec, body := do(t, s, http.MethodPost, "/api/classify/platform", `{"text":"til something"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "platform", p.lastName)
	assert.Equal(t, "til something", p.lastText)
	assert.Equal(t, "platform", body["classifier"])
	assert.Equal(t, "reddit", body["label"])
	assert.Equal(t, 0.93, body["confidence"])
	assert.Equal(t, true, body["cache_hit"])
	assert.Equal(t, float64(12), body["latency_ms"])
}

func TestClassify_RequiresText(t *testing.T) {
	called := false
	p := &mockPredictor{PredictFunc: func(ctx context.Context, name string, text string) (*analyzer.Result, error) {
		called = true
		return nil, nil
	}}
	s := NewServer(p)

	for _, body := range []string{`{"text":""}`, `{"text":"  \n "}`, `{}`} {
		rec, decoded := do(t, s, http.MethodPost, "/api/classify/sarcasm", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "enter text first", decoded["error"])
	}
	assert.False(t, called)
}

func TestClassify_InvalidBody(t *testing.T) {
	s := NewServer(&mockPredictor{})

	rec, decoded := do(t, s, http.MethodPost, "/api/classify/sarcasm", `{"text":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decoded["error"])
}

func TestClassify_ErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown classifier", analyzer.ErrUnknownClassifier, http.StatusNotFound},
		{"not loaded", analyzer.ErrNotLoaded, http.StatusServiceUnavailable},
		{"closed", analyzer.ErrClosed, http.StatusServiceUnavailable},
		{"empty text", analyzer.ErrEmptyText, http.StatusBadRequest},
		{"upstream failure", errors.New("llm down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(&mockPredictor{PredictFunc: func(ctx context.Context, name string, text string) (*analyzer.Result, error) {
				return nil, tt.err
			}})

			rec, decoded := do(t, s, http.MethodPost, "/api/classify/x", `{"text":"hello"}`)
			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, decoded["error"])
		})
	}
}

func TestClassify_WithAnalyzer(t *testing.T) {
	sarcasm := analyzer.NewSarcasmDetector(analyzer.SarcasmConfig{
		Source: model.Static(testutil.SarcasmArtifact()),
	})
	a, err := analyzer.New(sarcasm)
	require.NoError(t, err)

	s := NewServer(a)

	rec, _ := do(t, s, http.MethodPost, "/api/classify/sarcasm", `{"text":"awful"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, a.Load(context.Background()))

	rec, body := do(t, s, http.MethodPost, "/api/classify/sarcasm", `{"text":"awful"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sarcastic", body["label"])

	rec, _ = do(t, s, http.MethodPost, "/api/classify/spam", `{"text":"awful"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

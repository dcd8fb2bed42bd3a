package inference

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

func geminiServer(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGemini(srv.URL, "test-model", "test-key", 2*time.Second)
}

func textResponse(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestGeminiClassify(t *testing.T) {
	g := geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Contents)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "חלב 3%")

		w.Write([]byte(textResponse("  מוצרי חלב\n")))
	})

	category, err := g.Classify(context.Background(), "חלב 3%")
	require.NoError(t, err)
	assert.Equal(t, "מוצרי חלב", category, "label should be trimmed")
}

func TestGeminiClassifyEmptyAnswer(t *testing.T) {
	g := geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(textResponse("   ")))
	})

	_, err := g.Classify(context.Background(), "מלח")
	assert.ErrorIs(t, err, ErrInference)
}

func TestGeminiIdentifyByBarcode(t *testing.T) {
	g := geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "application/json", req.GenerationConfig.ResponseMimeType)

		w.Write([]byte(textResponse(`{"name":"במבה","category":"חטיפים"}`)))
	})

	product, err := g.IdentifyByBarcode(context.Background(), "7290000066318")
	require.NoError(t, err)
	assert.Equal(t, Product{Name: "במבה", Category: "חטיפים"}, product)
}

func TestGeminiFailureModes(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "quota exceeded", http.StatusTooManyRequests)
			},
		},
		{
			name: "no candidates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"candidates":[]}`))
			},
		},
		{
			name: "malformed identification JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(textResponse("not json")))
			},
		},
		{
			name: "incomplete identification",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(textResponse(`{"name":"","category":""}`)))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := geminiServer(t, tt.handler)
			_, err := g.IdentifyByBarcode(context.Background(), "123")
			assert.ErrorIs(t, err, ErrInference)
		})
	}
}

func TestGeminiTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	g := NewGemini(srv.URL, "test-model", "test-key", 50*time.Millisecond)
	_, err := g.Classify(context.Background(), "קפה")
	assert.ErrorIs(t, err, ErrInference)
}

func TestDisabledClassifier(t *testing.T) {
	var d Disabled
	_, err := d.Classify(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrInference)
	_, err = d.IdentifyByBarcode(context.Background(), "123")
	assert.ErrorIs(t, err, ErrInference)
}

func TestFallbackProduct(t *testing.T) {
	product := FallbackProduct("7290000000001")
	assert.Equal(t, "Barcode 7290000000001", product.Name)
	assert.Equal(t, "General", product.Category)
}

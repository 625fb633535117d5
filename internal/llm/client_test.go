package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiCompleteExtraeTexto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, ":generateContent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [
				{"content": {"parts": [{"text": "Hola, "}, {"text": "bienvenido"}]}}
			]
		}`))
	}))
	defer srv.Close()

	client := NewGeminiClientWithBaseURL(srv.URL, "test-key", "gemini-2.5-flash")
	texto, err := client.Complete(context.Background(), "saluda")
	require.NoError(t, err)
	assert.Equal(t, "Hola, bienvenido", texto)
}

func TestGeminiCompleteFallbackRecursivo(t *testing.T) {
	// Respuesta con forma distinta a la documentada: el texto aparece en una
	// ruta no estándar y aún así debe recuperarse.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"output": {"message": {"text": "respuesta anidada"}}}`))
	}))
	defer srv.Close()

	client := NewGeminiClientWithBaseURL(srv.URL, "test-key", "gemini-2.5-flash")
	texto, err := client.Complete(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, "respuesta anidada", texto)
}

func TestGeminiCompleteStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewGeminiClientWithBaseURL(srv.URL, "test-key", "gemini-2.5-flash")
	_, err := client.Complete(context.Background(), "hola")
	assert.Error(t, err)
}

func TestCohereCompleteTextoPlano(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "Claro, con gusto."}`))
	}))
	defer srv.Close()

	client := NewCohereClientWithBaseURL(srv.URL, "test-key", "command-r")
	texto, err := client.Complete(context.Background(), "ayuda")
	require.NoError(t, err)
	assert.Equal(t, "Claro, con gusto.", texto)
}

func TestCohereCompleteSinTexto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"meta": {"tokens": 10}}`))
	}))
	defer srv.Close()

	client := NewCohereClientWithBaseURL(srv.URL, "test-key", "command-r")
	_, err := client.Complete(context.Background(), "hola")
	assert.Error(t, err)
}

type clientLento struct {
	demora time.Duration
}

func (c *clientLento) Complete(ctx context.Context, prompt string) (string, error) {
	select {
	case <-time.After(c.demora):
		return "tarde pero llega", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestCompleteWithTimeoutVence(t *testing.T) {
	_, err := CompleteWithTimeout(&clientLento{demora: 200 * time.Millisecond}, "hola", 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCompleteWithTimeoutRespondeATiempo(t *testing.T) {
	texto, err := CompleteWithTimeout(&clientLento{demora: 5 * time.Millisecond}, "hola", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "tarde pero llega", texto)
}

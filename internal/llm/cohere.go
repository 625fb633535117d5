package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultCohereBaseURL = "https://api.cohere.com"

// CohereClient llama al endpoint /v1/chat de Cohere, cuya respuesta trae el
// texto plano en el campo text.
type CohereClient struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

func NewCohereClient(apiKey, model string) *CohereClient {
	return &CohereClient{
		baseURL:    defaultCohereBaseURL,
		apiKey:     apiKey,
		model:      model,
		maxTokens:  300,
		httpClient: &http.Client{},
	}
}

func NewCohereClientWithBaseURL(baseURL, apiKey, model string) *CohereClient {
	c := NewCohereClient(apiKey, model)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

type cohereRequest struct {
	Model       string  `json:"model"`
	Message     string  `json:"message"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

func (c *CohereClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(cohereRequest{
		Model:       c.model,
		Message:     prompt,
		MaxTokens:   c.maxTokens,
		Temperature: 0.5,
	})
	if err != nil {
		return "", fmt.Errorf("error serializando request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("error creando request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error llamando a Cohere: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error leyendo respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Cohere devolvió status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("error decodificando respuesta: %w", err)
	}
	if text := strings.TrimSpace(parsed.Text); text != "" {
		return text, nil
	}

	// Algunas versiones de la API anidan el texto en otras rutas.
	if text := buscarCampoTexto(raw); text != "" {
		return text, nil
	}

	return "", fmt.Errorf("respuesta de Cohere sin texto")
}

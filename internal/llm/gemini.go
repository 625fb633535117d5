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

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient llama a la API generateContent de Google. La respuesta viene
// anidada (candidates -> content -> parts), así que la extracción recorre
// varias rutas antes de rendirse.
type GeminiClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiClient crea el cliente. El timeout por llamada lo impone el
// contexto del caller, no el http.Client.
func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		baseURL:    defaultGeminiBaseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{},
	}
}

// NewGeminiClientWithBaseURL permite apuntar a un servidor alternativo en
// tests.
func NewGeminiClientWithBaseURL(baseURL, apiKey, model string) *GeminiClient {
	c := NewGeminiClient(apiKey, model)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("error serializando request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("error creando request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error llamando a Gemini: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error leyendo respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Gemini devolvió status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("error decodificando respuesta: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("Gemini devolvió error: %s", parsed.Error.Message)
	}

	for _, cand := range parsed.Candidates {
		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			sb.WriteString(part.Text)
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			return text, nil
		}
	}

	// Último recurso: buscar cualquier campo "text" en el JSON crudo, por si
	// el proveedor cambió la anidación.
	if text := buscarCampoTexto(raw); text != "" {
		return text, nil
	}

	return "", fmt.Errorf("respuesta de Gemini sin texto")
}

// buscarCampoTexto recorre un árbol JSON arbitrario buscando el primer campo
// "text" no vacío.
func buscarCampoTexto(raw []byte) string {
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return ""
	}
	return buscarTexto(tree)
}

func buscarTexto(nodo any) string {
	switch v := nodo.(type) {
	case map[string]any:
		if s, ok := v["text"].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
		for _, hijo := range v {
			if s := buscarTexto(hijo); s != "" {
				return s
			}
		}
	case []any:
		for _, hijo := range v {
			if s := buscarTexto(hijo); s != "" {
				return s
			}
		}
	}
	return ""
}

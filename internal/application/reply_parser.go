package application

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	reBloqueJSON    = regexp.MustCompile("(?si)```json\\s*(\\{.*?\\})\\s*```")
	reObjetoAlFinal = regexp.MustCompile(`(?s)(\{.*\})\s*$`)
)

// ExtraerJSONDeTexto busca el bloque estructurado en la respuesta del LLM:
// primero un bloque ```json ... ```, luego un objeto JSON al final del texto.
// Si el candidato no parsea, recorta al primer '{' y último '}' y reintenta.
// Devuelve nil cuando no hay JSON utilizable.
func ExtraerJSONDeTexto(texto string) map[string]any {
	if texto == "" {
		return nil
	}

	var candidato string
	if m := reBloqueJSON.FindStringSubmatch(texto); m != nil {
		candidato = m[1]
	} else if m := reObjetoAlFinal.FindStringSubmatch(texto); m != nil {
		candidato = m[1]
	}
	if candidato == "" {
		return nil
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(candidato), &obj); err == nil {
		return obj
	}

	first := strings.Index(candidato, "{")
	last := strings.LastIndex(candidato, "}")
	if first < 0 || last <= first {
		return nil
	}
	if err := json.Unmarshal([]byte(candidato[first:last+1]), &obj); err == nil {
		return obj
	}

	return nil
}

package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtraerJSONDeTextoBloqueCercado(t *testing.T) {
	texto := "Claro, aquí tienes:\n```json\n{\"type\": \"text\", \"message\": \"Hola\"}\n```\nEspero que sirva."
	obj := ExtraerJSONDeTexto(texto)
	require.NotNil(t, obj)
	assert.Equal(t, "text", obj["type"])
	assert.Equal(t, "Hola", obj["message"])
}

func TestExtraerJSONDeTextoObjetoAlFinal(t *testing.T) {
	texto := "Te recomiendo esto {\"type\": \"experiences\", \"items\": [{\"id\": 1}]}"
	obj := ExtraerJSONDeTexto(texto)
	require.NotNil(t, obj)
	assert.Equal(t, "experiences", obj["type"])

	items, ok := obj["items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)
}

func TestExtraerJSONDeTextoObjetoAnidado(t *testing.T) {
	texto := "```json\n{\"type\": \"action\", \"action\": \"proceed_to_reserva\", \"meta\": {\"ok\": true}}\n```"
	obj := ExtraerJSONDeTexto(texto)
	require.NotNil(t, obj)
	assert.Equal(t, "proceed_to_reserva", obj["action"])
}

func TestExtraerJSONDeTextoSinJSON(t *testing.T) {
	assert.Nil(t, ExtraerJSONDeTexto(""))
	assert.Nil(t, ExtraerJSONDeTexto("una respuesta puramente conversacional"))
	assert.Nil(t, ExtraerJSONDeTexto("```json\n{\"type\": \"text\", roto}\n```"))
}

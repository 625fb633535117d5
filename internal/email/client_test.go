package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientPuertoInvalido(t *testing.T) {
	_, err := NewClient("smtp.example.com", "no-es-numero", "user", "pass", "Central", "reservas@example.com")
	assert.Error(t, err)
}

func TestGenerarHTMLConfirmacion(t *testing.T) {
	c, err := NewClient("smtp.example.com", "587", "user", "pass", "Restaurante Central", "reservas@example.com")
	require.NoError(t, err)

	html := c.generarHTMLConfirmacion(ReservaInfo{
		ID:            42,
		ClienteEmail:  "ana@example.com",
		NombreReserva: "Ana Torres",
		Experiencia:   "Mesa del Chef",
		FechaHora:     "02/11/2025 19:30",
		NumComensales: 4,
		Restricciones: "sin gluten",
	})

	assert.Contains(t, html, "#42")
	assert.Contains(t, html, "Ana Torres")
	assert.Contains(t, html, "Mesa del Chef")
	assert.Contains(t, html, "02/11/2025 19:30")
	assert.Contains(t, html, "sin gluten")
	// el pie lleva el nombre del remitente configurado
	assert.Contains(t, html, "Restaurante Central")
}

func TestGenerarHTMLConfirmacionSinRestricciones(t *testing.T) {
	c, err := NewClient("smtp.example.com", "587", "user", "pass", "Central", "reservas@example.com")
	require.NoError(t, err)

	html := c.generarHTMLConfirmacion(ReservaInfo{ID: 7, NombreReserva: "Ana"})
	assert.NotContains(t, html, "Restricciones")
}

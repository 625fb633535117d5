package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNaturalExpresionesRelativas(t *testing.T) {
	dp := &DateParser{}
	// miércoles 1 de enero de 2025, 10:00
	ref := time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)

	casos := []struct {
		texto    string
		esperado string
	}{
		{"mañana a las 3pm", "2025-01-02T15:00"},
		{"hoy 19:00", "2025-01-01T19:00"},
		{"pasado mañana a las 9", "2025-01-03T09:00"},
		{"mañana", "2025-01-02T19:00"},
		{"a las 9", "2025-01-02T09:00"}, // las 9 ya pasaron: rueda a mañana
		{"a las 11", "2025-01-01T11:00"},
		{"mañana a las 12am", "2025-01-02T00:00"},
	}

	for _, c := range casos {
		assert.Equal(t, c.esperado, dp.ParseNatural(c.texto, ref), "texto: %s", c.texto)
	}
}

func TestParseNaturalDiaDeLaSemana(t *testing.T) {
	dp := &DateParser{}
	// lunes 6 de enero de 2025
	ref := time.Date(2025, 1, 6, 10, 0, 0, 0, time.Local)

	assert.Equal(t, "2025-01-07T20:30", dp.ParseNatural("el martes a las 20:30", ref))
	assert.Equal(t, "2025-01-10T19:00", dp.ParseNatural("el viernes", ref))
	// el mismo día nombrado salta a la próxima semana
	assert.Equal(t, "2025-01-13T19:00", dp.ParseNatural("el lunes", ref))
	assert.Equal(t, "2025-01-08T19:00", dp.ParseNatural("miércoles", ref))
}

func TestParseNaturalSinSenal(t *testing.T) {
	dp := &DateParser{}
	ref := time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)

	assert.Empty(t, dp.ParseNatural("quiero reservar", ref))
	assert.Empty(t, dp.ParseNatural("", ref))
}

func TestParseNaturalNoSecuestraFechasExplicitas(t *testing.T) {
	dp := &DateParser{}
	ref := time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)

	// una fecha ISO o DD/MM/YYYY no debe tratarse como hora suelta
	assert.Empty(t, dp.ParseNatural("2025-11-02T19:30", ref))
	assert.Empty(t, dp.ParseNatural("02/11/2025 19:30", ref))
}

func TestParseFechaHoraFormatosEstructurados(t *testing.T) {
	dp := &DateParser{}
	ref := time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)

	casos := []struct {
		texto    string
		esperado string
	}{
		{"2025-11-02T19:30", "2025-11-02T19:30"},
		{"2025-11-02", "2025-11-02T19:00"},
		{"02/11/2025 19:30", "2025-11-02T19:30"},
		{"2/11/2025", "2025-11-02T19:00"},
		{"quiero ir el martes a las 8pm", "2025-01-07T20:00"},
	}

	for _, c := range casos {
		assert.Equal(t, c.esperado, dp.ParseFechaHora(c.texto, ref), "texto: %s", c.texto)
	}

	assert.Empty(t, dp.ParseFechaHora("no hay fecha aquí", ref))
}

func TestNormalizarParaBD(t *testing.T) {
	dp := &DateParser{}

	dt := dp.NormalizarParaBD("2025-11-02T19:30")
	require.NotNil(t, dt)
	assert.Equal(t, time.Date(2025, 11, 2, 19, 30, 0, 0, time.Local), *dt)

	dt = dp.NormalizarParaBD("2025-11-02 19:30")
	require.NotNil(t, dt)
	assert.Equal(t, 19, dt.Hour())

	dt = dp.NormalizarParaBD("02/11/2025")
	require.NotNil(t, dt)
	assert.Equal(t, time.Date(2025, 11, 2, 19, 0, 0, 0, time.Local), *dt)

	assert.Nil(t, dp.NormalizarParaBD("el martes por la noche"))
	assert.Nil(t, dp.NormalizarParaBD(""))
}

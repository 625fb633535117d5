package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Maxito7/central_backend/internal/domain"
)

func TestExtraerExperienciaID(t *testing.T) {
	assert.Equal(t, 1, ExtraerExperienciaID("quiero la experiencia (ID 1)"))
	assert.Equal(t, 3, ExtraerExperienciaID("id: 3 por favor"))
	assert.Equal(t, 12, ExtraerExperienciaID("la experiencia 12 se ve bien"))
	assert.Equal(t, 5, ExtraerExperienciaID("esa (5)"))
	assert.Equal(t, 0, ExtraerExperienciaID("quiero reservar para cenar"))
}

func TestDetectarCampoMencionado(t *testing.T) {
	casos := map[string]string{
		"quiero cambiar la fecha":        domain.CampoFechaHora,
		"seremos más comensales":         domain.CampoNumComensales,
		"ponla a nombre de Ana":          domain.CampoNombreReserva,
		"mi telefono cambió":             domain.CampoTelefono,
		"te paso otro dni":               domain.CampoDNI,
		"soy vegetariano":                domain.CampoRestricciones,
		"prefiero otra experiencia":      domain.CampoExperienciaID,
		"gracias por todo":               "",
	}
	for texto, esperado := range casos {
		assert.Equal(t, esperado, DetectarCampoMencionado(texto), "texto: %s", texto)
	}
}

func TestExtraerValorCampo(t *testing.T) {
	ref := time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)

	assert.Equal(t, "2025-01-02T15:00", ExtraerValorCampo(domain.CampoFechaHora, "mañana a las 3pm", ref))
	assert.Nil(t, ExtraerValorCampo(domain.CampoFechaHora, "cuando se pueda", ref))

	assert.Equal(t, 4, ExtraerValorCampo(domain.CampoNumComensales, "seremos 4 personas", ref))
	assert.Nil(t, ExtraerValorCampo(domain.CampoNumComensales, "varios", ref))

	assert.Equal(t, "987654321", ExtraerValorCampo(domain.CampoTelefono, "mi número es 987-654-321", ref))
	assert.Nil(t, ExtraerValorCampo(domain.CampoTelefono, "12345", ref))

	assert.Equal(t, "María Paz", ExtraerValorCampo(domain.CampoNombreReserva, " María Paz ", ref))
	// un nombre puramente numérico igual se acepta
	assert.Equal(t, "12345", ExtraerValorCampo(domain.CampoNombreReserva, "12345", ref))

	assert.Equal(t, "74235891", ExtraerValorCampo(domain.CampoDNI, "DNI 74235891", ref))
	assert.Nil(t, ExtraerValorCampo(domain.CampoDNI, "123", ref))

	assert.Equal(t, "sin gluten", ExtraerValorCampo(domain.CampoRestricciones, "sin gluten", ref))
	assert.Nil(t, ExtraerValorCampo("otro_campo", "texto", ref))
}

func TestValorPresente(t *testing.T) {
	assert.False(t, ValorPresente(nil))
	assert.False(t, ValorPresente(""))
	assert.False(t, ValorPresente(0))
	assert.False(t, ValorPresente(float64(0)))
	assert.False(t, ValorPresente(false))
	assert.True(t, ValorPresente("texto"))
	assert.True(t, ValorPresente(3))
	assert.True(t, ValorPresente(2.5))
	assert.True(t, ValorPresente(true))
}

func TestCamposFaltantesOrdenCanonico(t *testing.T) {
	merged := map[string]any{
		domain.CampoExperienciaID: float64(2),
		domain.CampoNombreReserva: "Ana",
		domain.CampoTelefono:      "",
	}
	faltantes := CamposFaltantes(merged)
	assert.Equal(t, []string{
		domain.CampoFechaHora,
		domain.CampoNumComensales,
		domain.CampoTelefono,
		domain.CampoRestricciones,
	}, faltantes)

	completo := map[string]any{
		domain.CampoExperienciaID: 1,
		domain.CampoFechaHora:     "2025-11-02T19:30",
		domain.CampoNumComensales: 2,
		domain.CampoNombreReserva: "Ana",
		domain.CampoTelefono:      "987654321",
		domain.CampoRestricciones: "ninguna",
	}
	assert.Empty(t, CamposFaltantes(completo))
}

package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maxito7/central_backend/internal/domain"
)

func nuevoPerfilServiceTest(experiencias []domain.Experiencia) (*PerfilService, *perfilRepoFake) {
	perfiles := &perfilRepoFake{}
	svc := NewPerfilService(perfiles, &experienciaRepoFake{activas: experiencias})
	return svc, perfiles
}

func TestGuardarRespuestaQKeyDesconocida(t *testing.T) {
	svc, _ := nuevoPerfilServiceTest(nil)
	_, err := svc.GuardarRespuesta(nil, strPtr("a1"), "q9", "lo que sea")
	assert.Error(t, err)
}

func TestGuardarRespuestaCreaPerfilYNormalizaQKey(t *testing.T) {
	svc, perfiles := nuevoPerfilServiceTest(nil)

	completo, err := svc.GuardarRespuesta(nil, strPtr("a1"), " Q1 ", "celebración")
	require.NoError(t, err)
	assert.False(t, completo)

	perfil, err := perfiles.GetByAnon("a1")
	require.NoError(t, err)
	require.NotNil(t, perfil)
	require.NotNil(t, perfil.Q1)
	assert.Equal(t, "celebración", *perfil.Q1)
}

func TestGuardarRespuestaUsuarioConCookieAnonima(t *testing.T) {
	svc, perfiles := nuevoPerfilServiceTest(nil)
	uid := 42
	anon := strPtr("a1")

	completo, err := svc.GuardarRespuesta(&uid, anon, "q1", "celebración")
	require.NoError(t, err)
	assert.False(t, completo)

	completo, err = svc.GuardarRespuesta(&uid, anon, "q2", "pareja")
	require.NoError(t, err)
	assert.False(t, completo)

	completo, err = svc.GuardarRespuesta(&uid, anon, "q3", "gourmet")
	require.NoError(t, err)
	assert.True(t, completo)

	// una sola fila, ligada al usuario y sin anon_id
	require.Len(t, perfiles.perfiles, 1)
	perfil := perfiles.perfiles[0]
	assert.Nil(t, perfil.AnonID)
	require.NotNil(t, perfil.UsuarioID)
	assert.Equal(t, 42, *perfil.UsuarioID)
	assert.True(t, perfil.EstadoPerfilCompleto)
	assert.True(t, svc.PerfilCompleto(&uid, anon))
}

func TestResumenPerfil(t *testing.T) {
	svc, perfiles := nuevoPerfilServiceTest(nil)
	perfiles.perfiles = append(perfiles.perfiles, &domain.Perfil{
		PerfilID: 1,
		AnonID:   strPtr("a1"),
		Q1:       strPtr("celebración"),
		Q1Otro:   strPtr("aniversario"),
		Q2:       strPtr("pareja"),
		Q3:       strPtr("gourmet"),
	})

	resumen := svc.ResumenPerfil(nil, strPtr("a1"))
	assert.Equal(t, "Motivo: celebración (aniversario). Compañía: pareja. Preferencias: gourmet", resumen)

	assert.Empty(t, svc.ResumenPerfil(nil, strPtr("desconocido")))
}

func TestRecomendacionesRapidasPriorizanPreferencias(t *testing.T) {
	desc := "menú vegetariano de estación"
	experiencias := []domain.Experiencia{
		{ID: 1, Nombre: "Mesa del Chef", Precio: 350, Activa: true},
		{ID: 2, Nombre: "Huerto", Descripcion: &desc, Precio: 120, Activa: true},
		{ID: 3, Nombre: "Clásica", Precio: 90, Activa: true},
	}
	svc, perfiles := nuevoPerfilServiceTest(experiencias)
	perfiles.perfiles = append(perfiles.perfiles, &domain.Perfil{
		PerfilID: 1,
		AnonID:   strPtr("a1"),
		Q3:       strPtr("vegetariano"),
	})

	recs := svc.RecomendacionesRapidas(nil, strPtr("a1"), 2)
	require.Len(t, recs, 2)
	assert.Equal(t, 2, recs[0].ID)
}

func TestRecomendacionesRapidasSinPerfil(t *testing.T) {
	experiencias := []domain.Experiencia{
		{ID: 1, Nombre: "Mesa del Chef", Precio: 350, Activa: true},
		{ID: 2, Nombre: "Clásica", Precio: 90, Activa: true},
	}
	svc, _ := nuevoPerfilServiceTest(experiencias)

	recs := svc.RecomendacionesRapidas(nil, nil, 3)
	assert.Len(t, recs, 2)
}

func TestRecomendacionesAleatorias(t *testing.T) {
	assert.Nil(t, RecomendacionesAleatorias(nil, 3))

	experiencias := []domain.Experiencia{
		{ID: 1, Nombre: "A"},
		{ID: 2, Nombre: "B"},
		{ID: 3, Nombre: "C"},
	}
	recs := RecomendacionesAleatorias(experiencias, 2)
	assert.Len(t, recs, 2)

	vistos := map[int]bool{}
	for _, r := range recs {
		vistos[r.ID] = true
	}
	assert.Len(t, vistos, 2)
}

package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maxito7/central_backend/internal/domain"
)

type entornoReserva struct {
	eventos  *eventoRepoFake
	reservas *reservaRepoFake
	perfiles *perfilRepoFake
	anon     *anonRepoFake
	svc      *ReservaService
}

func nuevoEntornoReserva() *entornoReserva {
	eventos := nuevoEventoRepoFake()
	reservas := nuevoReservaRepoFake()
	perfiles := &perfilRepoFake{}
	anon := &anonRepoFake{}
	experiencias := &experienciaRepoFake{activas: []domain.Experiencia{
		{ID: 7, Nombre: "Mesa del Chef", Precio: 350, Activa: true},
	}}

	svc := NewReservaService(reservas, eventos, perfiles, experiencias, &usuarioRepoFake{}, anon, nil)
	return &entornoReserva{eventos: eventos, reservas: reservas, perfiles: perfiles, anon: anon, svc: svc}
}

func TestCreateRechazaExperienciaInexistente(t *testing.T) {
	e := nuevoEntornoReserva()

	_, err := e.svc.Create(&CreateReservaRequest{ExperienciaID: 99, NombreReserva: "Ana"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no encontrada")
	assert.Zero(t, e.reservas.crearLlamadas)
}

func TestCreateNormalizaFechaYRegistraEvento(t *testing.T) {
	e := nuevoEntornoReserva()

	id, err := e.svc.Create(&CreateReservaRequest{
		ExperienciaID: 7,
		FechaHora:     "2025-11-02T19:30",
		NombreReserva: "Ana",
	})
	require.NoError(t, err)

	reserva := e.reservas.reservas[id]
	require.NotNil(t, reserva)
	assert.Equal(t, domain.EstadoPendiente, reserva.Estado)
	assert.True(t, reserva.EsTemporal)
	assert.Equal(t, 1, reserva.NumComensales)
	require.NotNil(t, reserva.FechaHora)
	assert.Equal(t, time.Date(2025, 11, 2, 19, 30, 0, 0, time.Local), *reserva.FechaHora)
	assert.Nil(t, reserva.FechaHoraTexto)

	assert.Len(t, e.eventos.porTipo(domain.EventBookingInitiated), 1)
}

func TestCrearProvisionalConservaFechaNoNormalizable(t *testing.T) {
	e := nuevoEntornoReserva()
	merged := map[string]any{
		domain.CampoExperienciaID: float64(7),
		domain.CampoFechaHora:     "lo antes posible",
		domain.CampoNumComensales: float64(2),
		domain.CampoNombreReserva: "Ana",
		domain.CampoTelefono:      "987654321",
		domain.CampoRestricciones: "ninguna",
	}

	resumen, err := e.svc.CrearProvisional(merged, nil, strPtr("a1"), "c1")
	require.NoError(t, err)
	assert.Equal(t, "lo antes posible", resumen.FechaHora)

	reserva := e.reservas.reservas[*resumen.ReservaID]
	require.NotNil(t, reserva)
	assert.Nil(t, reserva.FechaHora)
	require.NotNil(t, reserva.FechaHoraTexto)
	assert.Equal(t, "lo antes posible", *reserva.FechaHoraTexto)
}

func TestCrearProvisionalResuelveUsuarioDesdePerfilVinculado(t *testing.T) {
	e := nuevoEntornoReserva()
	e.perfiles.perfiles = append(e.perfiles.perfiles, &domain.Perfil{
		PerfilID:  1,
		UsuarioID: func() *int { n := 42; return &n }(),
		AnonID:    strPtr("a1"),
	})

	merged := map[string]any{domain.CampoExperienciaID: float64(7)}
	resumen, err := e.svc.CrearProvisional(merged, nil, strPtr("a1"), "c1")
	require.NoError(t, err)

	reserva := e.reservas.reservas[*resumen.ReservaID]
	require.NotNil(t, reserva.UsuarioID)
	assert.Equal(t, 42, *reserva.UsuarioID)
}

func TestConfirmYCancelar(t *testing.T) {
	e := nuevoEntornoReserva()
	e.reservas.reservas[1] = &domain.Reserva{ID: 1, ExperienciaID: 7, Estado: domain.EstadoPendiente, EsTemporal: true}
	e.reservas.reservas[2] = &domain.Reserva{ID: 2, ExperienciaID: 7, Estado: domain.EstadoPendiente, EsTemporal: true}
	e.reservas.siguienteID = 3

	estado, err := e.svc.Confirm(&ConfirmReservaRequest{ReservaID: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.EstadoConfirmada, estado)
	assert.Equal(t, domain.EstadoConfirmada, e.reservas.reservas[1].Estado)
	assert.False(t, e.reservas.reservas[1].EsTemporal)

	estado, err = e.svc.Confirm(&ConfirmReservaRequest{ReservaID: 2, Accion: "cancelar"})
	require.NoError(t, err)
	assert.Equal(t, domain.EstadoCancelada, estado)

	assert.Len(t, e.eventos.porTipo(domain.EventBookingConfirmed), 2)
}

func TestConfirmReservaInexistente(t *testing.T) {
	e := nuevoEntornoReserva()
	_, err := e.svc.Confirm(&ConfirmReservaRequest{ReservaID: 9})
	assert.Error(t, err)
}

func TestMergeProfileTransfiereYMarcaSesion(t *testing.T) {
	e := nuevoEntornoReserva()

	err := e.svc.MergeProfile(&MergeProfileRequest{UsuarioID: 42, AnonID: "a1", TransferEvents: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"a1"}, e.eventos.reasignaciones)
	assert.Equal(t, []string{"a1"}, e.anon.fusionadas)
	assert.Len(t, e.eventos.porTipo(domain.EventProfileMerged), 1)
}

func TestMergeProfileSinTransferirEventos(t *testing.T) {
	e := nuevoEntornoReserva()

	err := e.svc.MergeProfile(&MergeProfileRequest{UsuarioID: 42, AnonID: "a1"})
	require.NoError(t, err)
	assert.Empty(t, e.eventos.reasignaciones)
	assert.Equal(t, []string{"a1"}, e.anon.fusionadas)
}

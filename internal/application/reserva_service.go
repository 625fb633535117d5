package application

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/Maxito7/central_backend/internal/domain"
	"github.com/Maxito7/central_backend/internal/email"
)

// ReservaService crea, confirma y fusiona reservas. El flujo conversacional
// llega aquí a través de CrearProvisional; los endpoints REST directos usan
// Create y Confirm.
type ReservaService struct {
	reservaRepo     domain.ReservaRepository
	eventoRepo      domain.EventoRepository
	perfilRepo      domain.PerfilRepository
	experienciaRepo domain.ExperienciaRepository
	usuarioRepo     domain.UsuarioRepository
	anonRepo        domain.AnonSessionRepository
	emailClient     *email.Client
	dateParser      *DateParser
}

// NewReservaService crea una nueva instancia del servicio de reservas
func NewReservaService(
	reservaRepo domain.ReservaRepository,
	eventoRepo domain.EventoRepository,
	perfilRepo domain.PerfilRepository,
	experienciaRepo domain.ExperienciaRepository,
	usuarioRepo domain.UsuarioRepository,
	anonRepo domain.AnonSessionRepository,
	emailClient *email.Client,
) *ReservaService {
	return &ReservaService{
		reservaRepo:     reservaRepo,
		eventoRepo:      eventoRepo,
		perfilRepo:      perfilRepo,
		experienciaRepo: experienciaRepo,
		usuarioRepo:     usuarioRepo,
		anonRepo:        anonRepo,
		emailClient:     emailClient,
		dateParser:      &DateParser{},
	}
}

func aEntero(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case string:
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

func aCadena(v any) *string {
	if v == nil {
		return nil
	}
	s := fmt.Sprint(v)
	if s == "" {
		return nil
	}
	return &s
}

// CrearProvisional materializa el mapa plegado de parciales como una reserva
// pendiente y temporal. La fecha se normaliza si se puede; si no, el texto
// original se conserva en fecha_hora_texto. Registra booking.initiated.
func (s *ReservaService) CrearProvisional(merged map[string]any, usuarioID *int, anonID *string, conversationID string) (*domain.ReservaResumen, error) {
	fechaRaw := ""
	if v, ok := merged[domain.CampoFechaHora]; ok && v != nil {
		fechaRaw = fmt.Sprint(v)
	}
	fechaDT := s.dateParser.NormalizarParaBD(fechaRaw)

	numCom := aEntero(merged[domain.CampoNumComensales])
	if numCom == 0 {
		numCom = 1
	}
	expID := aEntero(merged[domain.CampoExperienciaID])

	// resolver usuario desde el perfil vinculado a la sesión anónima
	if usuarioID == nil && anonID != nil {
		vinculado, err := s.perfilRepo.UsuarioVinculado(*anonID)
		if err != nil {
			log.Printf("error resolviendo usuario desde perfil para anon %s: %v", *anonID, err)
		} else if vinculado != nil {
			usuarioID = vinculado
		}
	}

	if expID != 0 {
		existe, err := s.experienciaRepo.ExisteActiva(expID)
		if err != nil {
			log.Printf("error verificando experiencia %d: %v", expID, err)
		} else if !existe {
			log.Printf("experiencia %d no encontrada o inactiva al crear reserva provisional", expID)
		}
	}

	var fechaTexto *string
	if fechaDT == nil && fechaRaw != "" {
		fechaTexto = &fechaRaw
	}

	reserva := &domain.Reserva{
		UsuarioID:      usuarioID,
		AnonID:         anonID,
		NombreReserva:  aCadena(merged[domain.CampoNombreReserva]),
		NumComensales:  numCom,
		ExperienciaID:  expID,
		Restricciones:  aCadena(merged[domain.CampoRestricciones]),
		FechaHora:      fechaDT,
		FechaHoraTexto: fechaTexto,
		Estado:         domain.EstadoPendiente,
		EsTemporal:     true,
		DNI:            aCadena(merged[domain.CampoDNI]),
		Telefono:       aCadena(merged[domain.CampoTelefono]),
	}

	reservaID, err := s.reservaRepo.CreateProvisional(reserva)
	if err != nil {
		return nil, fmt.Errorf("error al crear reserva provisional: %w", err)
	}

	s.registrarEventoReserva(domain.EventBookingInitiated, usuarioID, anonID, &conversationID, reservaID)

	var fechaResumen any
	if fechaRaw != "" {
		fechaResumen = fechaRaw
	}

	return &domain.ReservaResumen{
		ReservaID:     &reservaID,
		ExperienciaID: expID,
		FechaHora:     fechaResumen,
		NumComensales: numCom,
		NombreReserva: reserva.NombreReserva,
		Telefono:      reserva.Telefono,
		DNI:           reserva.DNI,
		Restricciones: reserva.Restricciones,
	}, nil
}

// CreateReservaRequest es el payload normalizado de POST /reservas/create.
type CreateReservaRequest struct {
	AnonID        *string `json:"anon_id"`
	UsuarioID     *int    `json:"user_id"`
	ExperienciaID int     `json:"experiencia_id"`
	NumComensales int     `json:"num_comensales"`
	FechaHora     string  `json:"fecha_hora"`
	Restricciones *string `json:"restricciones"`
	NombreReserva string  `json:"nombre_reserva"`
	DNI           *string `json:"dni"`
	Telefono      *string `json:"telefono"`
}

// Create crea una reserva temporal desde el endpoint directo, validando que
// la experiencia exista y esté activa.
func (s *ReservaService) Create(req *CreateReservaRequest) (int, error) {
	existe, err := s.experienciaRepo.ExisteActiva(req.ExperienciaID)
	if err != nil {
		return 0, fmt.Errorf("error al validar experiencia: %w", err)
	}
	if !existe {
		return 0, fmt.Errorf("experiencia %d no encontrada", req.ExperienciaID)
	}

	numCom := req.NumComensales
	if numCom == 0 {
		numCom = 1
	}

	fechaDT := s.dateParser.NormalizarParaBD(req.FechaHora)
	var fechaTexto *string
	if fechaDT == nil && req.FechaHora != "" {
		fechaTexto = &req.FechaHora
	}

	reserva := &domain.Reserva{
		UsuarioID:      req.UsuarioID,
		AnonID:         req.AnonID,
		NombreReserva:  &req.NombreReserva,
		NumComensales:  numCom,
		ExperienciaID:  req.ExperienciaID,
		Restricciones:  req.Restricciones,
		FechaHora:      fechaDT,
		FechaHoraTexto: fechaTexto,
		Estado:         domain.EstadoPendiente,
		EsTemporal:     true,
		DNI:            req.DNI,
		Telefono:       req.Telefono,
	}

	reservaID, err := s.reservaRepo.CreateProvisional(reserva)
	if err != nil {
		return 0, fmt.Errorf("error al crear reserva: %w", err)
	}

	if req.AnonID != nil {
		if err := s.reservaRepo.LinkAnon(reservaID, *req.AnonID); err != nil {
			log.Printf("error vinculando reserva %d a sesión anónima: %v", reservaID, err)
		}
	}

	s.registrarEventoReserva(domain.EventBookingInitiated, req.UsuarioID, req.AnonID, nil, reservaID)

	return reservaID, nil
}

// ConfirmReservaRequest es el payload de POST /reservas/confirm.
type ConfirmReservaRequest struct {
	ReservaID           int    `json:"reserva_id"`
	Accion              string `json:"accion"`
	GuardarPreferencias bool   `json:"guardar_preferencias"`
}

// Confirm pasa la reserva de provisional a confirmada (o cancelada si la
// acción lo pide), registra booking.confirmed y envía el correo de
// confirmación si el usuario tiene email.
func (s *ReservaService) Confirm(req *ConfirmReservaRequest) (string, error) {
	reserva, err := s.reservaRepo.GetByID(req.ReservaID)
	if err != nil {
		return "", err
	}

	estado := domain.EstadoConfirmada
	if req.Accion != "" && req.Accion != "confirmar" {
		estado = domain.EstadoCancelada
	}

	if err := s.reservaRepo.UpdateEstado(reserva.ID, estado, false); err != nil {
		return "", err
	}

	if req.GuardarPreferencias && reserva.UsuarioID != nil && reserva.AnonID != nil {
		if err := s.perfilRepo.MergeToUsuario(*reserva.UsuarioID, *reserva.AnonID); err != nil {
			log.Printf("error guardando preferencias al confirmar reserva %d: %v", reserva.ID, err)
		}
	}

	s.registrarEventoReserva(domain.EventBookingConfirmed, reserva.UsuarioID, reserva.AnonID, nil, reserva.ID)

	if estado == domain.EstadoConfirmada && reserva.UsuarioID != nil && s.emailClient != nil {
		s.enviarConfirmacion(reserva)
	}

	return estado, nil
}

func (s *ReservaService) enviarConfirmacion(reserva *domain.Reserva) {
	correo, err := s.usuarioRepo.GetEmail(*reserva.UsuarioID)
	if err != nil || correo == nil {
		if err != nil {
			log.Printf("error obteniendo email del usuario %d: %v", *reserva.UsuarioID, err)
		}
		return
	}

	nombre := ""
	if reserva.NombreReserva != nil {
		nombre = *reserva.NombreReserva
	}
	fecha := ""
	if reserva.FechaHora != nil {
		fecha = reserva.FechaHora.Format("02/01/2006 15:04")
	} else if reserva.FechaHoraTexto != nil {
		fecha = *reserva.FechaHoraTexto
	}
	restricciones := ""
	if reserva.Restricciones != nil {
		restricciones = *reserva.Restricciones
	}

	experiencia := fmt.Sprintf("Experiencia #%d", reserva.ExperienciaID)
	if activas, err := s.experienciaRepo.GetActivas(); err == nil {
		for _, exp := range activas {
			if exp.ID == reserva.ExperienciaID {
				experiencia = exp.Nombre
				break
			}
		}
	}

	info := email.ReservaInfo{
		ID:            reserva.ID,
		ClienteEmail:  *correo,
		NombreReserva: nombre,
		Experiencia:   experiencia,
		FechaHora:     fecha,
		NumComensales: reserva.NumComensales,
		Restricciones: restricciones,
	}
	if err := s.emailClient.SendReservaConfirmacion(info); err != nil {
		log.Printf("error enviando confirmación de reserva %d: %v", reserva.ID, err)
	}
}

// MergeProfileRequest es el payload de POST /reservas/merge_profile.
type MergeProfileRequest struct {
	UsuarioID      int    `json:"user_id"`
	AnonID         string `json:"anon_id"`
	TransferEvents bool   `json:"transfer_events"`
}

// MergeProfile transfiere el perfil, los eventos y las reservas de una sesión
// anónima al usuario registrado, y marca la sesión como fusionada.
func (s *ReservaService) MergeProfile(req *MergeProfileRequest) error {
	if err := s.perfilRepo.MergeToUsuario(req.UsuarioID, req.AnonID); err != nil {
		return fmt.Errorf("error al fusionar perfil: %w", err)
	}

	if req.TransferEvents {
		if err := s.eventoRepo.ReassignToUsuario(req.UsuarioID, req.AnonID); err != nil {
			return fmt.Errorf("error al reasignar eventos: %w", err)
		}
	}

	if err := s.reservaRepo.ReassignToUsuario(req.UsuarioID, req.AnonID); err != nil {
		return fmt.Errorf("error al reasignar reservas: %w", err)
	}

	if err := s.anonRepo.MarcarMerged(req.AnonID); err != nil {
		return fmt.Errorf("error al marcar sesión fusionada: %w", err)
	}

	evento := &domain.Evento{
		EventType: domain.EventProfileMerged,
		UsuarioID: &req.UsuarioID,
		AnonID:    &req.AnonID,
		SenderID:  "central-backend",
		Payload:   "{}",
	}
	if err := s.eventoRepo.Append(evento); err != nil {
		log.Printf("error registrando profile.merged: %v", err)
	}

	return nil
}

// ExpireProvisionales cancela las reservas temporales cuya fecha ya pasó. Lo
// invoca el scheduler diario.
func (s *ReservaService) ExpireProvisionales(ahora time.Time) (int64, error) {
	return s.reservaRepo.CancelExpiredProvisionales(ahora)
}

func (s *ReservaService) registrarEventoReserva(tipo string, usuarioID *int, anonID *string, conversationID *string, reservaID int) {
	payload, _ := json.Marshal(map[string]any{"reserva_id": reservaID})
	evento := &domain.Evento{
		EventType:      tipo,
		UsuarioID:      usuarioID,
		AnonID:         anonID,
		ConversationID: conversationID,
		SenderID:       "assistant",
		Payload:        string(payload),
	}
	if err := s.eventoRepo.Append(evento); err != nil {
		log.Printf("error registrando %s: %v", tipo, err)
	}
}

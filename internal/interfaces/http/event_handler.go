package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/Maxito7/central_backend/internal/domain"
)

type EventHandler struct {
	eventoRepo domain.EventoRepository
	auth       *Authenticator
}

// NewEventHandler crea una nueva instancia del handler de eventos
func NewEventHandler(eventoRepo domain.EventoRepository, auth *Authenticator) *EventHandler {
	return &EventHandler{
		eventoRepo: eventoRepo,
		auth:       auth,
	}
}

// EventRequest representa un evento externo a registrar en el log
type EventRequest struct {
	EventType      string         `json:"event_type"`
	UsuarioID      *int           `json:"usuario_id"`
	AnonID         *string        `json:"anon_id"`
	ConversationID *string        `json:"conversation_id"`
	SenderID       string         `json:"sender_id"`
	Payload        map[string]any `json:"payload"`
}

// Receive inserta un evento externo. Solo servicios internos con
// x-service-token.
func (h *EventHandler) Receive(c *fiber.Ctx) error {
	if !h.auth.ServiceTokenValido(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "token de servicio requerido",
		})
	}

	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Formato de solicitud inválido",
		})
	}

	if req.EventType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "event_type requerido",
		})
	}

	sender := req.SenderID
	if sender == "" {
		sender = "external"
	}
	payload := "{}"
	if req.Payload != nil {
		if raw, err := json.Marshal(req.Payload); err == nil {
			payload = string(raw)
		}
	}

	evento := &domain.Evento{
		EventType:      req.EventType,
		UsuarioID:      req.UsuarioID,
		AnonID:         req.AnonID,
		ConversationID: req.ConversationID,
		SenderID:       sender,
		Payload:        payload,
	}
	if err := h.eventoRepo.Append(evento); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error registrando el evento",
		})
	}

	return c.JSON(fiber.Map{"accepted": true})
}

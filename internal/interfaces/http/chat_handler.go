package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Maxito7/central_backend/internal/application"
	"github.com/Maxito7/central_backend/internal/domain"
)

type ChatHandler struct {
	service *application.ChatService
	auth    *Authenticator
}

// NewChatHandler crea una nueva instancia del handler de chat
func NewChatHandler(service *application.ChatService, auth *Authenticator) *ChatHandler {
	return &ChatHandler{
		service: service,
		auth:    auth,
	}
}

// ChatStartRequest representa la petición para abrir una conversación
type ChatStartRequest struct {
	ConversationID string  `json:"conversation_id"`
	AnonID         *string `json:"anon_id"`
	UserID         *int    `json:"user_id"`
	Locale         *string `json:"locale"`
}

// ChatMessageRequest representa un turno de conversación
type ChatMessageRequest struct {
	ConversationID   string  `json:"conversation_id"`
	AnonID           *string `json:"anon_id"`
	UserID           *int    `json:"user_id"`
	Message          string  `json:"message"`
	QKey             string  `json:"qkey"`
	QAnswer          *string `json:"qanswer"`
	ReservationField string  `json:"reservation_field"`
	ReservationValue any     `json:"reservation_value"`
}

func (h *ChatHandler) anonDesdePayloadOCookie(c *fiber.Ctx, payloadAnon *string) *string {
	if payloadAnon != nil && *payloadAnon != "" {
		return payloadAnon
	}
	if cookie := c.Cookies("anon_id"); cookie != "" {
		return &cookie
	}
	return nil
}

func fijarCookieAnon(c *fiber.Ctx, anonID string) {
	secure := c.Protocol() == "https"
	sameSite := "Lax"
	// frontend y backend en dominios distintos: requiere None + Secure
	if secure {
		sameSite = "None"
	}
	c.Cookie(&fiber.Cookie{
		Name:     "anon_id",
		Value:    anonID,
		Path:     "/",
		MaxAge:   int((90 * 24 * time.Hour).Seconds()),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}

// Start abre una conversación y garantiza la cookie de sesión anónima
func (h *ChatHandler) Start(c *fiber.Ctx) error {
	var req ChatStartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Formato de solicitud inválido",
		})
	}

	usuarioID := h.auth.ResolverUsuario(c, req.UserID)
	anonID := h.anonDesdePayloadOCookie(c, req.AnonID)

	resp := h.service.Start(&domain.ChatStartRequest{
		ConversationID: req.ConversationID,
		AnonID:         anonID,
		UsuarioID:      usuarioID,
	})

	if resp.AnonID != nil {
		fijarCookieAnon(c, *resp.AnonID)
	}

	return c.JSON(resp)
}

// Message procesa un turno de conversación
func (h *ChatHandler) Message(c *fiber.Ctx) error {
	var req ChatMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Formato de solicitud inválido",
		})
	}

	if req.ConversationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "conversation_id requerido",
		})
	}

	usuarioID := h.auth.ResolverUsuario(c, req.UserID)
	anonID := h.anonDesdePayloadOCookie(c, req.AnonID)

	reply, err := h.service.Message(&domain.ChatMessageRequest{
		ConversationID:   req.ConversationID,
		AnonID:           anonID,
		UsuarioID:        usuarioID,
		Message:          req.Message,
		QKey:             req.QKey,
		QAnswer:          req.QAnswer,
		ReservationField: req.ReservationField,
		ReservationValue: req.ReservationValue,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error procesando el mensaje",
		})
	}

	return c.JSON(reply)
}

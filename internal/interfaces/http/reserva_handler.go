package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Maxito7/central_backend/internal/application"
)

type ReservaHandler struct {
	service *application.ReservaService
	auth    *Authenticator
}

// NewReservaHandler crea una nueva instancia del handler de reservas
func NewReservaHandler(service *application.ReservaService, auth *Authenticator) *ReservaHandler {
	return &ReservaHandler{
		service: service,
		auth:    auth,
	}
}

// Create crea una reserva temporal desde el frontend. Exige alguna identidad:
// sesión anónima, usuario o un token Bearer.
func (h *ReservaHandler) Create(c *fiber.Ctx) error {
	var req application.CreateReservaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Formato de solicitud inválido",
		})
	}

	if req.AnonID == nil && req.UsuarioID == nil && !TieneBearer(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "anon_id o autenticación requerida",
		})
	}

	reservaID, err := h.service.Create(&req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"reserva_id":  reservaID,
		"estado":      "pendiente",
		"es_temporal": true,
	})
}

// Confirm confirma o cancela una reserva provisional
func (h *ReservaHandler) Confirm(c *fiber.Ctx) error {
	var req application.ConfirmReservaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Formato de solicitud inválido",
		})
	}

	estado, err := h.service.Confirm(&req)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"reserva_id": req.ReservaID,
		"estado":     estado,
	})
}

// MergeProfile transfiere el perfil y los datos de una sesión anónima al
// usuario registrado. Solo servicios internos con x-service-token.
func (h *ReservaHandler) MergeProfile(c *fiber.Ctx) error {
	if !h.auth.ServiceTokenValido(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "token de servicio requerido",
		})
	}

	req := application.MergeProfileRequest{TransferEvents: true}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Formato de solicitud inválido",
		})
	}

	if req.UsuarioID == 0 || req.AnonID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id y anon_id son requeridos",
		})
	}

	if err := h.service.MergeProfile(&req); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"merged":  true,
		"user_id": req.UsuarioID,
	})
}

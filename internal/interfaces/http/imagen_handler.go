package http

import (
	"log"

	"github.com/gofiber/fiber/v2"

	services "github.com/Maxito7/central_backend/internal/service"
)

type ImagenHandler struct {
	service *services.ImagenesService
}

func NewImagenHandler(service *services.ImagenesService) *ImagenHandler {
	return &ImagenHandler{
		service: service,
	}
}

// Upload recibe una imagen de experiencia por multipart y devuelve la URL
// pública resultante.
func (h *ImagenHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Falta el archivo en el campo 'file'",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("error abriendo archivo subido: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error al abrir el archivo",
		})
	}
	defer file.Close()

	url, err := h.service.SubirImagen(c.Context(), file, fileHeader)
	if err != nil {
		log.Printf("error subiendo imagen: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error al subir el archivo",
		})
	}

	return c.JSON(fiber.Map{
		"url": url,
	})
}

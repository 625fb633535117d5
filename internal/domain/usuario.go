package domain

import "time"

// Usuario es la vista mínima de la tabla usuarios que necesita el asistente:
// resolver identidades desde claims JWT y obtener el correo para
// confirmaciones.
type Usuario struct {
	ID         int     `json:"id"`
	Email      *string `json:"email,omitempty"`
	ExternalID *string `json:"externalId,omitempty"`
}

type UsuarioRepository interface {
	Existe(id int) (bool, error)
	GetIDByEmail(email string) (*int, error)
	GetIDByExternalID(externalID string) (*int, error)
	GetEmail(id int) (*string, error)
}

// Estados de una sesión anónima.
const (
	AnonSessionActiva = "activo"
	AnonSessionMerged = "merged"
)

// AnonSession identifica a un visitante sin cuenta mediante una cookie de
// larga vida.
type AnonSession struct {
	AnonID   string    `json:"anonId"`
	Estado   string    `json:"estado"`
	CreadoEn time.Time `json:"creadoEn"`
}

type AnonSessionRepository interface {
	// Ensure crea la sesión si no existe todavía.
	Ensure(anonID string) error
	MarcarMerged(anonID string) error
}

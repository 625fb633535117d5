package domain

import "time"

// Perfil guarda las tres respuestas del cuestionario de preferencias, ya sea
// de un usuario registrado o de una sesión anónima.
type Perfil struct {
	PerfilID             int        `json:"perfilId"`
	UsuarioID            *int       `json:"usuarioId,omitempty"`
	AnonID               *string    `json:"anonId,omitempty"`
	Q1                   *string    `json:"q1,omitempty"`
	Q1Otro               *string    `json:"q1Otro,omitempty"`
	Q2                   *string    `json:"q2,omitempty"`
	Q3                   *string    `json:"q3,omitempty"`
	EstadoPerfilCompleto bool       `json:"estadoPerfilCompleto"`
	CreadoEn             time.Time  `json:"creadoEn"`
	ActualizadoEn        *time.Time `json:"actualizadoEn,omitempty"`
}

// Completo indica si el perfil ya tiene las tres respuestas principales.
func (p *Perfil) Completo() bool {
	if p == nil {
		return false
	}
	if p.EstadoPerfilCompleto {
		return true
	}
	return p.Q1 != nil && *p.Q1 != "" && p.Q2 != nil && *p.Q2 != "" && p.Q3 != nil && *p.Q3 != ""
}

// ColumnaPerfil mapea claves de pregunta (qkey) a columnas de perfiles.
var ColumnaPerfil = map[string]string{
	"q1":      "q1",
	"q1_otro": "q1_otro",
	"q2":      "q2",
	"q3":      "q3",
}

type PerfilRepository interface {
	GetByUsuario(usuarioID int) (*Perfil, error)
	GetByAnon(anonID string) (*Perfil, error)
	Create(perfil *Perfil) error
	SetRespuesta(perfilID int, columna string, valor string) error
	MarcarCompleto(perfilID int) error
	// UsuarioVinculado devuelve el usuario asociado al perfil de una sesión
	// anónima, si existe.
	UsuarioVinculado(anonID string) (*int, error)
	MergeToUsuario(usuarioID int, anonID string) error
}

package domain

import "time"

// Estados posibles de una reserva.
const (
	EstadoPendiente  = "pendiente"
	EstadoConfirmada = "confirmada"
	EstadoCancelada  = "cancelada"
)

// Campos lógicos de una reserva que se recolectan durante la conversación.
const (
	CampoExperienciaID = "experiencia_id"
	CampoFechaHora     = "fecha_hora"
	CampoNumComensales = "num_comensales"
	CampoNombreReserva = "nombre_reserva"
	CampoTelefono      = "telefono"
	CampoRestricciones = "restricciones"
	CampoDNI           = "dni"
)

// CamposRequeridos define el orden canónico en que el asistente pide los
// datos. El controlador siempre pregunta por el primer campo ausente de esta
// lista y nunca por uno ya presente.
var CamposRequeridos = []string{
	CampoExperienciaID,
	CampoFechaHora,
	CampoNumComensales,
	CampoNombreReserva,
	CampoTelefono,
	CampoRestricciones,
}

// Reserva es la fila durable en la tabla reservas. FechaHora queda en nil
// cuando el texto original no se pudo normalizar; en ese caso FechaHoraTexto
// conserva lo que escribió el usuario.
type Reserva struct {
	ID             int        `json:"id"`
	UsuarioID      *int       `json:"usuarioId,omitempty"`
	AnonID         *string    `json:"anonId,omitempty"`
	NombreReserva  *string    `json:"nombreReserva,omitempty"`
	NumComensales  int        `json:"numComensales"`
	ExperienciaID  int        `json:"experienciaId"`
	Restricciones  *string    `json:"restricciones,omitempty"`
	FechaHora      *time.Time `json:"fechaHora,omitempty"`
	FechaHoraTexto *string    `json:"fechaHoraTexto,omitempty"`
	Estado         string     `json:"estado"`
	EsTemporal     bool       `json:"esTemporal"`
	DNI            *string    `json:"dni,omitempty"`
	Telefono       *string    `json:"telefono,omitempty"`
	CreadoEn       time.Time  `json:"creadoEn"`
	ActualizadoEn  *time.Time `json:"actualizadoEn,omitempty"`
}

// ColumnaReserva mapea un campo lógico a su columna en la tabla reservas.
// Sirve de whitelist para las actualizaciones campo a campo del modo edición.
var ColumnaReserva = map[string]string{
	CampoExperienciaID: "experiencia_id",
	CampoFechaHora:     "fecha_hora",
	CampoNumComensales: "num_comensales",
	CampoNombreReserva: "nombre_reserva",
	CampoTelefono:      "telefono",
	CampoDNI:           "dni",
	CampoRestricciones: "restricciones",
	// fechas que no se pudieron normalizar se editan sobre el texto crudo
	"fecha_hora_texto": "fecha_hora_texto",
}

// ReservaRepository persiste reservas y sus transiciones de estado.
type ReservaRepository interface {
	CreateProvisional(reserva *Reserva) (int, error)
	GetByID(id int) (*Reserva, error)
	UpdateCampo(id int, columna string, valor any) error
	UpdateEstado(id int, estado string, esTemporal bool) error
	LinkAnon(id int, anonID string) error
	ReassignToUsuario(usuarioID int, anonID string) error
	// CancelExpiredProvisionales cancela reservas temporales pendientes cuya
	// fecha ya pasó. Devuelve cuántas filas cambió.
	CancelExpiredProvisionales(antesDe time.Time) (int64, error)
}

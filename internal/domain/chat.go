package domain

// Tipos de mensaje que el asistente devuelve al frontend. Coinciden con el
// discriminador "type" del bloque JSON que se le pide al LLM.
const (
	MensajeText        = "text"
	MensajeForm        = "form"
	MensajeExperiences = "experiences"
	MensajeAction      = "action"
	MensajeSummary     = "summary"
)

// Acciones conocidas dentro de mensajes type=action.
const (
	ActionProceedToReserva = "proceed_to_reserva"
	ActionCrearProvisional = "create_provisional_reservation"
	ActionEditarReserva    = "edit_reservation"
)

// Mensaje es una unidad de respuesta del asistente. Según Type usa unos
// campos u otros; el resto queda vacío y fuera del JSON.
type Mensaje struct {
	Type        string         `json:"type"`
	Text        string         `json:"text,omitempty"`
	Field       string         `json:"field,omitempty"`
	Label       string         `json:"label,omitempty"`
	Items       []any          `json:"items,omitempty"`
	Action      string         `json:"action,omitempty"`
	Reservation map[string]any `json:"reservation,omitempty"`
}

// TextoMensaje construye un mensaje de texto simple.
func TextoMensaje(texto string) Mensaje {
	return Mensaje{Type: MensajeText, Text: texto}
}

// ChatStartRequest es el payload normalizado de POST /chat/start. El handler
// resuelve identidad (JWT, token de servicio, cookie) antes de llamar al
// servicio; aquí ya no hay variantes de casing ni headers.
type ChatStartRequest struct {
	ConversationID string
	AnonID         *string
	UsuarioID      *int
}

// ChatStartResponse incluye el anon id final para que el handler fije la
// cookie.
type ChatStartResponse struct {
	ConversationID string    `json:"conversation_id"`
	AnonID         *string   `json:"anon_id,omitempty"`
	Messages       []Mensaje `json:"messages"`
}

// ChatMessageRequest es el payload normalizado de POST /chat/message.
type ChatMessageRequest struct {
	ConversationID   string
	AnonID           *string
	UsuarioID        *int
	Message          string
	QKey             string
	QAnswer          *string
	ReservationField string
	ReservationValue any
}

// ChatReply es la respuesta de un turno de conversación.
type ChatReply struct {
	ConversationID string    `json:"conversation_id"`
	Messages       []Mensaje `json:"messages"`
}

// ReservaResumen es el objeto desnormalizado que se muestra al usuario tras
// crear o editar una reserva, sin relectura de la base.
type ReservaResumen struct {
	ReservaID     *int    `json:"reserva_id"`
	ExperienciaID int     `json:"experiencia_id"`
	FechaHora     any     `json:"fecha_hora"`
	NumComensales int     `json:"num_comensales"`
	NombreReserva *string `json:"nombre_reserva"`
	Telefono      *string `json:"telefono"`
	DNI           *string `json:"dni"`
	Restricciones *string `json:"restricciones"`
}

// Map devuelve el resumen como mapa para mensajes type=summary.
func (r *ReservaResumen) Map() map[string]any {
	m := map[string]any{
		"reserva_id":     r.ReservaID,
		"id":             r.ReservaID,
		"experiencia_id": r.ExperienciaID,
		"fecha_hora":     r.FechaHora,
		"num_comensales": r.NumComensales,
		"nombre_reserva": r.NombreReserva,
		"telefono":       r.Telefono,
		"dni":            r.DNI,
		"restricciones":  r.Restricciones,
	}
	return m
}

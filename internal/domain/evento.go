package domain

import (
	"encoding/json"
	"time"
)

// Tipos de evento que registra el asistente en la tabla eventos.
const (
	EventConversationStarted     = "conversation.started"
	EventConversationMessage     = "conversation.message"
	EventReservationPartial      = "reservation.partial"
	EventReservationEditingStart = "reservation.editing.started"
	EventReservationEditingApply = "reservation.editing.applied"
	EventBookingInitiated        = "booking.initiated"
	EventBookingConfirmed        = "booking.confirmed"
	EventProfileQuestionAnswered = "profile.question.answered"
	EventProfileMerged           = "profile.merged"
)

// CampoEditingReservaID es el campo centinela que marca una conversación en
// modo edición. Se guarda como un parcial más, pero se limpia con una
// operación tipada sobre la columna campo (nunca con LIKE sobre el payload).
const CampoEditingReservaID = "__editing_reserva_id"

// Evento es una fila inmutable del log de eventos. Los parciales de reserva
// llevan el nombre del campo en Campo además del payload JSON {campo: valor}.
type Evento struct {
	ID             int64     `json:"id"`
	EventType      string    `json:"eventType"`
	UsuarioID      *int      `json:"usuarioId,omitempty"`
	AnonID         *string   `json:"anonId,omitempty"`
	ConversationID *string   `json:"conversationId,omitempty"`
	SenderID       string    `json:"senderId"`
	Campo          *string   `json:"campo,omitempty"`
	Payload        string    `json:"payload"`
	CreadoEn       time.Time `json:"creadoEn"`
}

// MergePartials pliega los payloads de parciales en orden de inserción con
// last-write-wins. Un payload que no parsea como objeto JSON se omite sin
// interrumpir el fold.
func MergePartials(payloads []string) map[string]any {
	merged := map[string]any{}
	for _, p := range payloads {
		var obj map[string]any
		if err := json.Unmarshal([]byte(p), &obj); err != nil {
			continue
		}
		for k, v := range obj {
			merged[k] = v
		}
	}
	return merged
}

// EventoRepository persiste el log append-only de eventos y expone la vista
// plegada de los parciales de una conversación.
type EventoRepository interface {
	Append(evento *Evento) error
	AppendPartial(conversationID string, anonID *string, campo string, valor any) error
	GetMerged(conversationID string) (map[string]any, error)
	// ClearEditingFlag elimina únicamente los parciales del campo centinela
	// __editing_reserva_id para la conversación dada.
	ClearEditingFlag(conversationID string) error
	ReassignToUsuario(usuarioID int, anonID string) error
}

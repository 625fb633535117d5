package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Maxito7/central_backend/internal/domain"
)

type eventoRepository struct {
	db *sql.DB
}

// NewEventoRepository crea una nueva instancia del repositorio de eventos
func NewEventoRepository(db *sql.DB) domain.EventoRepository {
	return &eventoRepository{db: db}
}

// Append inserta un evento en el log. El log es append-only: nunca se
// actualizan filas existentes, salvo la limpieza tipada del centinela de
// edición.
func (r *eventoRepository) Append(evento *domain.Evento) error {
	query := `
		INSERT INTO eventos (
			event_type,
			usuario_id,
			anon_id,
			conversation_id,
			sender_id,
			campo,
			payload
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, creado_en
	`

	err := r.db.QueryRow(
		query,
		evento.EventType,
		evento.UsuarioID,
		evento.AnonID,
		evento.ConversationID,
		evento.SenderID,
		evento.Campo,
		evento.Payload,
	).Scan(&evento.ID, &evento.CreadoEn)

	if err != nil {
		return fmt.Errorf("error al insertar evento: %w", err)
	}

	return nil
}

// AppendPartial registra un parcial de reserva {campo: valor} para la
// conversación. El nombre del campo viaja también en la columna campo.
func (r *eventoRepository) AppendPartial(conversationID string, anonID *string, campo string, valor any) error {
	payload, err := json.Marshal(map[string]any{campo: valor})
	if err != nil {
		return fmt.Errorf("error al serializar parcial: %w", err)
	}

	evento := &domain.Evento{
		EventType:      domain.EventReservationPartial,
		AnonID:         anonID,
		ConversationID: &conversationID,
		SenderID:       "assistant",
		Campo:          &campo,
		Payload:        string(payload),
	}

	return r.Append(evento)
}

// GetMerged pliega los parciales de una conversación en orden de inserción.
func (r *eventoRepository) GetMerged(conversationID string) (map[string]any, error) {
	query := `
		SELECT payload
		FROM eventos
		WHERE conversation_id = $1 AND event_type = $2
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query, conversationID, domain.EventReservationPartial)
	if err != nil {
		return nil, fmt.Errorf("error al obtener parciales: %w", err)
	}
	defer rows.Close()

	var payloads []string
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("error al escanear parcial: %w", err)
		}
		payloads = append(payloads, payload)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error al recorrer parciales: %w", err)
	}

	return domain.MergePartials(payloads), nil
}

// ClearEditingFlag elimina los parciales del campo centinela de edición. Es la
// única operación que borra filas del log, y filtra por la columna campo.
func (r *eventoRepository) ClearEditingFlag(conversationID string) error {
	query := `
		DELETE FROM eventos
		WHERE conversation_id = $1
		  AND event_type = $2
		  AND campo = $3
	`

	_, err := r.db.Exec(query, conversationID, domain.EventReservationPartial, domain.CampoEditingReservaID)
	if err != nil {
		return fmt.Errorf("error al limpiar modo edición: %w", err)
	}

	return nil
}

// ReassignToUsuario mueve los eventos de una sesión anónima al usuario que
// acaba de autenticarse.
func (r *eventoRepository) ReassignToUsuario(usuarioID int, anonID string) error {
	query := `
		UPDATE eventos
		SET usuario_id = $1
		WHERE anon_id = $2 AND usuario_id IS NULL
	`

	_, err := r.db.Exec(query, usuarioID, anonID)
	if err != nil {
		return fmt.Errorf("error al reasignar eventos: %w", err)
	}

	return nil
}

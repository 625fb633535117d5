package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Maxito7/central_backend/internal/domain"
)

type reservaRepository struct {
	db *sql.DB
}

// NewReservaRepository crea una nueva instancia del repositorio de reservas
func NewReservaRepository(db *sql.DB) domain.ReservaRepository {
	return &reservaRepository{db: db}
}

// CreateProvisional inserta una reserva pendiente y devuelve su ID.
func (r *reservaRepository) CreateProvisional(reserva *domain.Reserva) (int, error) {
	query := `
		INSERT INTO reservas (
			usuario_id,
			anon_id,
			nombre_reserva,
			num_comensales,
			experiencia_id,
			restricciones,
			fecha_hora,
			fecha_hora_texto,
			estado,
			es_temporal,
			dni,
			telefono
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	var id int
	err := r.db.QueryRow(
		query,
		reserva.UsuarioID,
		reserva.AnonID,
		reserva.NombreReserva,
		reserva.NumComensales,
		reserva.ExperienciaID,
		reserva.Restricciones,
		reserva.FechaHora,
		reserva.FechaHoraTexto,
		reserva.Estado,
		reserva.EsTemporal,
		reserva.DNI,
		reserva.Telefono,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("error al crear reserva: %w", err)
	}

	reserva.ID = id
	return id, nil
}

// GetByID obtiene una reserva por su ID.
func (r *reservaRepository) GetByID(id int) (*domain.Reserva, error) {
	query := `
		SELECT
			id,
			usuario_id,
			anon_id,
			nombre_reserva,
			num_comensales,
			experiencia_id,
			restricciones,
			fecha_hora,
			fecha_hora_texto,
			estado,
			es_temporal,
			dni,
			telefono,
			creado_en,
			actualizado_en
		FROM reservas
		WHERE id = $1
	`

	reserva := &domain.Reserva{}
	err := r.db.QueryRow(query, id).Scan(
		&reserva.ID,
		&reserva.UsuarioID,
		&reserva.AnonID,
		&reserva.NombreReserva,
		&reserva.NumComensales,
		&reserva.ExperienciaID,
		&reserva.Restricciones,
		&reserva.FechaHora,
		&reserva.FechaHoraTexto,
		&reserva.Estado,
		&reserva.EsTemporal,
		&reserva.DNI,
		&reserva.Telefono,
		&reserva.CreadoEn,
		&reserva.ActualizadoEn,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("reserva con ID %d no encontrada", id)
		}
		return nil, fmt.Errorf("error al obtener reserva: %w", err)
	}

	return reserva, nil
}

// UpdateCampo actualiza una sola columna de la reserva. La columna debe venir
// de la whitelist domain.ColumnaReserva; nunca se interpola texto del usuario.
func (r *reservaRepository) UpdateCampo(id int, columna string, valor any) error {
	permitida := false
	for _, col := range domain.ColumnaReserva {
		if col == columna {
			permitida = true
			break
		}
	}
	if !permitida {
		return fmt.Errorf("columna %q no permitida", columna)
	}

	query := fmt.Sprintf(`
		UPDATE reservas
		SET %s = $1, actualizado_en = NOW()
		WHERE id = $2
	`, columna)

	result, err := r.db.Exec(query, valor, id)
	if err != nil {
		return fmt.Errorf("error al actualizar reserva: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error al verificar filas afectadas: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("reserva con ID %d no encontrada", id)
	}

	return nil
}

// UpdateEstado actualiza el estado y el carácter temporal de una reserva.
func (r *reservaRepository) UpdateEstado(id int, estado string, esTemporal bool) error {
	query := `
		UPDATE reservas
		SET estado = $1, es_temporal = $2, actualizado_en = NOW()
		WHERE id = $3
	`

	result, err := r.db.Exec(query, estado, esTemporal, id)
	if err != nil {
		return fmt.Errorf("error al actualizar estado de reserva: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error al verificar filas afectadas: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("reserva con ID %d no encontrada", id)
	}

	return nil
}

// LinkAnon asocia una reserva sin dueño a la sesión anónima.
func (r *reservaRepository) LinkAnon(id int, anonID string) error {
	query := `
		UPDATE reservas
		SET anon_id = $1
		WHERE id = $2 AND usuario_id IS NULL AND anon_id IS NULL
	`

	_, err := r.db.Exec(query, anonID, id)
	if err != nil {
		return fmt.Errorf("error al vincular reserva a sesión anónima: %w", err)
	}

	return nil
}

// ReassignToUsuario mueve las reservas de una sesión anónima al usuario.
func (r *reservaRepository) ReassignToUsuario(usuarioID int, anonID string) error {
	query := `
		UPDATE reservas
		SET usuario_id = $1
		WHERE anon_id = $2 AND usuario_id IS NULL
	`

	_, err := r.db.Exec(query, usuarioID, anonID)
	if err != nil {
		return fmt.Errorf("error al reasignar reservas: %w", err)
	}

	return nil
}

// CancelExpiredProvisionales cancela reservas temporales pendientes cuya fecha
// ya pasó.
func (r *reservaRepository) CancelExpiredProvisionales(antesDe time.Time) (int64, error) {
	query := `
		UPDATE reservas
		SET estado = $1, actualizado_en = NOW()
		WHERE es_temporal = TRUE
		  AND estado = $2
		  AND fecha_hora IS NOT NULL
		  AND fecha_hora < $3
	`

	result, err := r.db.Exec(query, domain.EstadoCancelada, domain.EstadoPendiente, antesDe)
	if err != nil {
		return 0, fmt.Errorf("error al cancelar reservas expiradas: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error al verificar filas afectadas: %w", err)
	}

	return rowsAffected, nil
}

package repository

import (
	"database/sql"
	"fmt"

	"github.com/Maxito7/central_backend/internal/domain"
)

type anonSessionRepository struct {
	db *sql.DB
}

// NewAnonSessionRepository crea una nueva instancia del repositorio de sesiones anónimas
func NewAnonSessionRepository(db *sql.DB) domain.AnonSessionRepository {
	return &anonSessionRepository{db: db}
}

// Ensure crea la sesión anónima si no existe todavía.
func (r *anonSessionRepository) Ensure(anonID string) error {
	query := `
		INSERT INTO anon_sessions (anon_id, estado)
		VALUES ($1, $2)
		ON CONFLICT (anon_id) DO NOTHING
	`

	_, err := r.db.Exec(query, anonID, domain.AnonSessionActiva)
	if err != nil {
		return fmt.Errorf("error al registrar sesión anónima: %w", err)
	}

	return nil
}

// MarcarMerged marca la sesión como fusionada con un usuario registrado.
func (r *anonSessionRepository) MarcarMerged(anonID string) error {
	query := `
		UPDATE anon_sessions
		SET estado = $1
		WHERE anon_id = $2
	`

	_, err := r.db.Exec(query, domain.AnonSessionMerged, anonID)
	if err != nil {
		return fmt.Errorf("error al marcar sesión fusionada: %w", err)
	}

	return nil
}

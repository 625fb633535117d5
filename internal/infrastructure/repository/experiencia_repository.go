package repository

import (
	"database/sql"
	"fmt"

	"github.com/Maxito7/central_backend/internal/domain"
)

type experienciaRepository struct {
	db *sql.DB
}

// NewExperienciaRepository crea una nueva instancia del repositorio de experiencias
func NewExperienciaRepository(db *sql.DB) domain.ExperienciaRepository {
	return &experienciaRepository{db: db}
}

// GetActivas obtiene el catálogo de experiencias activas.
func (r *experienciaRepository) GetActivas() ([]domain.Experiencia, error) {
	query := `
		SELECT id, nombre, descripcion, precio, activa
		FROM experiencias
		WHERE activa = TRUE
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error al obtener experiencias: %w", err)
	}
	defer rows.Close()

	var experiencias []domain.Experiencia
	for rows.Next() {
		var exp domain.Experiencia
		err := rows.Scan(&exp.ID, &exp.Nombre, &exp.Descripcion, &exp.Precio, &exp.Activa)
		if err != nil {
			return nil, fmt.Errorf("error al escanear experiencia: %w", err)
		}
		experiencias = append(experiencias, exp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error al recorrer experiencias: %w", err)
	}

	return experiencias, nil
}

// ExisteActiva indica si hay una experiencia activa con ese ID.
func (r *experienciaRepository) ExisteActiva(id int) (bool, error) {
	query := `SELECT 1 FROM experiencias WHERE id = $1 AND activa = TRUE`

	var uno int
	err := r.db.QueryRow(query, id).Scan(&uno)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("error al verificar experiencia: %w", err)
	}

	return true, nil
}

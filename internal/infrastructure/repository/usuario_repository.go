package repository

import (
	"database/sql"
	"fmt"

	"github.com/Maxito7/central_backend/internal/domain"
)

type usuarioRepository struct {
	db *sql.DB
}

// NewUsuarioRepository crea una nueva instancia del repositorio de usuarios
func NewUsuarioRepository(db *sql.DB) domain.UsuarioRepository {
	return &usuarioRepository{db: db}
}

// Existe verifica que el usuario esté en la base de datos.
func (r *usuarioRepository) Existe(id int) (bool, error) {
	var uno int
	err := r.db.QueryRow(`SELECT 1 FROM usuarios WHERE id = $1`, id).Scan(&uno)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("error al verificar usuario: %w", err)
	}
	return true, nil
}

// GetIDByEmail resuelve el ID por correo. Devuelve nil cuando no existe.
func (r *usuarioRepository) GetIDByEmail(email string) (*int, error) {
	var id int
	err := r.db.QueryRow(`SELECT id FROM usuarios WHERE email = $1`, email).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error al buscar usuario por email: %w", err)
	}
	return &id, nil
}

// GetIDByExternalID resuelve el ID por el identificador del proveedor de
// autenticación. Devuelve nil cuando no existe.
func (r *usuarioRepository) GetIDByExternalID(externalID string) (*int, error) {
	var id int
	err := r.db.QueryRow(`SELECT id FROM usuarios WHERE external_id = $1`, externalID).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error al buscar usuario por external_id: %w", err)
	}
	return &id, nil
}

// GetEmail obtiene el correo del usuario, si lo tiene registrado.
func (r *usuarioRepository) GetEmail(id int) (*string, error) {
	var email sql.NullString
	err := r.db.QueryRow(`SELECT email FROM usuarios WHERE id = $1`, id).Scan(&email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("usuario con ID %d no encontrado", id)
		}
		return nil, fmt.Errorf("error al obtener email: %w", err)
	}
	if !email.Valid {
		return nil, nil
	}
	return &email.String, nil
}

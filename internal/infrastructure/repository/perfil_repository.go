package repository

import (
	"database/sql"
	"fmt"

	"github.com/Maxito7/central_backend/internal/domain"
)

type perfilRepository struct {
	db *sql.DB
}

// NewPerfilRepository crea una nueva instancia del repositorio de perfiles
func NewPerfilRepository(db *sql.DB) domain.PerfilRepository {
	return &perfilRepository{db: db}
}

const perfilColumnas = `
	perfil_id,
	usuario_id,
	anon_id,
	q1,
	q1_otro,
	q2,
	q3,
	estado_perfil_completo,
	creado_en,
	actualizado_en
`

func (r *perfilRepository) scanPerfil(row *sql.Row) (*domain.Perfil, error) {
	perfil := &domain.Perfil{}
	err := row.Scan(
		&perfil.PerfilID,
		&perfil.UsuarioID,
		&perfil.AnonID,
		&perfil.Q1,
		&perfil.Q1Otro,
		&perfil.Q2,
		&perfil.Q3,
		&perfil.EstadoPerfilCompleto,
		&perfil.CreadoEn,
		&perfil.ActualizadoEn,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error al obtener perfil: %w", err)
	}
	return perfil, nil
}

// GetByUsuario obtiene el perfil propio de un usuario registrado. Excluye los
// perfiles anónimos ya fusionados que quedaron apuntando al usuario. Devuelve
// nil sin error cuando no existe.
func (r *perfilRepository) GetByUsuario(usuarioID int) (*domain.Perfil, error) {
	query := fmt.Sprintf(`SELECT %s FROM perfiles WHERE usuario_id = $1 AND anon_id IS NULL`, perfilColumnas)
	return r.scanPerfil(r.db.QueryRow(query, usuarioID))
}

// GetByAnon obtiene el perfil de una sesión anónima. Devuelve nil sin error
// cuando no existe.
func (r *perfilRepository) GetByAnon(anonID string) (*domain.Perfil, error) {
	query := fmt.Sprintf(`SELECT %s FROM perfiles WHERE anon_id = $1`, perfilColumnas)
	return r.scanPerfil(r.db.QueryRow(query, anonID))
}

// Create inserta un perfil vacío para el usuario o la sesión anónima.
func (r *perfilRepository) Create(perfil *domain.Perfil) error {
	query := `
		INSERT INTO perfiles (usuario_id, anon_id)
		VALUES ($1, $2)
		RETURNING perfil_id, creado_en
	`

	err := r.db.QueryRow(query, perfil.UsuarioID, perfil.AnonID).
		Scan(&perfil.PerfilID, &perfil.CreadoEn)
	if err != nil {
		return fmt.Errorf("error al crear perfil: %w", err)
	}

	return nil
}

// SetRespuesta guarda la respuesta de una pregunta. La columna debe venir de
// la whitelist domain.ColumnaPerfil.
func (r *perfilRepository) SetRespuesta(perfilID int, columna string, valor string) error {
	permitida := false
	for _, col := range domain.ColumnaPerfil {
		if col == columna {
			permitida = true
			break
		}
	}
	if !permitida {
		return fmt.Errorf("columna %q no permitida", columna)
	}

	query := fmt.Sprintf(`
		UPDATE perfiles
		SET %s = $1, actualizado_en = NOW()
		WHERE perfil_id = $2
	`, columna)

	_, err := r.db.Exec(query, valor, perfilID)
	if err != nil {
		return fmt.Errorf("error al guardar respuesta: %w", err)
	}

	return nil
}

// MarcarCompleto marca el perfil como completo.
func (r *perfilRepository) MarcarCompleto(perfilID int) error {
	query := `
		UPDATE perfiles
		SET estado_perfil_completo = TRUE, actualizado_en = NOW()
		WHERE perfil_id = $1
	`

	_, err := r.db.Exec(query, perfilID)
	if err != nil {
		return fmt.Errorf("error al marcar perfil completo: %w", err)
	}

	return nil
}

// UsuarioVinculado devuelve el usuario asociado al perfil de una sesión
// anónima que ya fue fusionada, si existe.
func (r *perfilRepository) UsuarioVinculado(anonID string) (*int, error) {
	query := `
		SELECT usuario_id
		FROM perfiles
		WHERE anon_id = $1 AND usuario_id IS NOT NULL
	`

	var usuarioID int
	err := r.db.QueryRow(query, anonID).Scan(&usuarioID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error al buscar usuario vinculado: %w", err)
	}

	return &usuarioID, nil
}

// MergeToUsuario traslada las respuestas del perfil anónimo al perfil del
// usuario, sin pisar respuestas que el usuario ya tenga.
func (r *perfilRepository) MergeToUsuario(usuarioID int, anonID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("error al iniciar transacción: %w", err)
	}
	defer tx.Rollback()

	// Asegurar que el usuario tenga fila de perfil.
	_, err = tx.Exec(`
		INSERT INTO perfiles (usuario_id)
		SELECT $1
		WHERE NOT EXISTS (SELECT 1 FROM perfiles WHERE usuario_id = $1)
	`, usuarioID)
	if err != nil {
		return fmt.Errorf("error al asegurar perfil de usuario: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE perfiles destino
		SET q1      = COALESCE(destino.q1, origen.q1),
		    q1_otro = COALESCE(destino.q1_otro, origen.q1_otro),
		    q2      = COALESCE(destino.q2, origen.q2),
		    q3      = COALESCE(destino.q3, origen.q3),
		    estado_perfil_completo = destino.estado_perfil_completo OR origen.estado_perfil_completo,
		    actualizado_en = NOW()
		FROM perfiles origen
		WHERE destino.usuario_id = $1
		  AND origen.anon_id = $2
		  AND origen.usuario_id IS NULL
	`, usuarioID, anonID)
	if err != nil {
		return fmt.Errorf("error al fusionar perfil: %w", err)
	}

	// El perfil anónimo queda apuntando al usuario. GetByUsuario lo ignora
	// (filtra anon_id IS NULL); UsuarioVinculado lo usa para resolver la
	// identidad en visitas posteriores con la misma cookie.
	_, err = tx.Exec(`
		UPDATE perfiles
		SET usuario_id = $1, actualizado_en = NOW()
		WHERE anon_id = $2 AND usuario_id IS NULL
	`, usuarioID, anonID)
	if err != nil {
		return fmt.Errorf("error al vincular perfil anónimo: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error al confirmar transacción: %w", err)
	}

	return nil
}

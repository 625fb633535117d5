package domain

// Experiencia es una entrada del catálogo de experiencias culinarias.
type Experiencia struct {
	ID          int     `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion,omitempty"`
	Precio      float64 `json:"precio"`
	Activa      bool    `json:"activa"`
}

// Recomendacion es la forma compacta que el asistente muestra al sugerir
// experiencias.
type Recomendacion struct {
	ID     int     `json:"id"`
	Nombre string  `json:"nombre"`
	Precio float64 `json:"precio"`
}

type ExperienciaRepository interface {
	GetActivas() ([]Experiencia, error)
	ExisteActiva(id int) (bool, error)
}

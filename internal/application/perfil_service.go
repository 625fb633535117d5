package application

import (
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"

	"github.com/Maxito7/central_backend/internal/domain"
)

// PerfilService administra el cuestionario de preferencias y las
// recomendaciones derivadas del perfil.
type PerfilService struct {
	perfilRepo      domain.PerfilRepository
	experienciaRepo domain.ExperienciaRepository
}

// NewPerfilService crea una nueva instancia del servicio de perfiles
func NewPerfilService(perfilRepo domain.PerfilRepository, experienciaRepo domain.ExperienciaRepository) *PerfilService {
	return &PerfilService{
		perfilRepo:      perfilRepo,
		experienciaRepo: experienciaRepo,
	}
}

func (s *PerfilService) buscarPerfil(usuarioID *int, anonID *string) (*domain.Perfil, error) {
	if usuarioID != nil {
		return s.perfilRepo.GetByUsuario(*usuarioID)
	}
	if anonID != nil {
		return s.perfilRepo.GetByAnon(*anonID)
	}
	return nil, nil
}

// GuardarRespuesta registra la respuesta a una pregunta del cuestionario y
// devuelve si con ella el perfil quedó completo.
func (s *PerfilService) GuardarRespuesta(usuarioID *int, anonID *string, qkey, qanswer string) (bool, error) {
	qk := strings.ToLower(strings.TrimSpace(qkey))
	columna, ok := domain.ColumnaPerfil[qk]
	if !ok {
		return false, fmt.Errorf("pregunta desconocida: %q", qkey)
	}

	perfil, err := s.buscarPerfil(usuarioID, anonID)
	if err != nil {
		return false, err
	}
	if perfil == nil {
		// el perfil de un usuario registrado se crea sin anon_id: una fila con
		// ambos ids es el marcador de fusión y GetByUsuario la excluye
		perfil = &domain.Perfil{UsuarioID: usuarioID}
		if usuarioID == nil {
			perfil.AnonID = anonID
		}
		if err := s.perfilRepo.Create(perfil); err != nil {
			return false, err
		}
	}

	if err := s.perfilRepo.SetRespuesta(perfil.PerfilID, columna, qanswer); err != nil {
		return false, err
	}

	perfil, err = s.buscarPerfil(usuarioID, anonID)
	if err != nil {
		return false, err
	}
	if perfil != nil && perfil.Completo() {
		if err := s.perfilRepo.MarcarCompleto(perfil.PerfilID); err != nil {
			log.Printf("no se pudo marcar perfil completo: %v", err)
		}
		return true, nil
	}

	return false, nil
}

// PerfilCompleto indica si la identidad dada ya completó el cuestionario.
func (s *PerfilService) PerfilCompleto(usuarioID *int, anonID *string) bool {
	perfil, err := s.buscarPerfil(usuarioID, anonID)
	if err != nil {
		log.Printf("error consultando perfil: %v", err)
		return false
	}
	return perfil.Completo()
}

// ResumenPerfil arma el contexto de cliente que se inserta en el prompt del
// LLM: "Motivo: ... . Compañía: ... . Preferencias: ...".
func (s *PerfilService) ResumenPerfil(usuarioID *int, anonID *string) string {
	perfil, err := s.buscarPerfil(usuarioID, anonID)
	if err != nil || perfil == nil {
		return ""
	}

	var partes []string
	if perfil.Q1 != nil && *perfil.Q1 != "" {
		motivo := "Motivo: " + *perfil.Q1
		if perfil.Q1Otro != nil && *perfil.Q1Otro != "" {
			motivo += " (" + *perfil.Q1Otro + ")"
		}
		partes = append(partes, motivo)
	}
	if perfil.Q2 != nil && *perfil.Q2 != "" {
		partes = append(partes, "Compañía: "+*perfil.Q2)
	}
	if perfil.Q3 != nil && *perfil.Q3 != "" {
		partes = append(partes, "Preferencias: "+*perfil.Q3)
	}

	return strings.Join(partes, ". ")
}

// RecomendacionesRapidas puntúa las experiencias activas contra las
// preferencias (Q3) del perfil y devuelve las topk mejores. No depende del
// LLM, por eso sirve también de respaldo cuando éste no responde.
func (s *PerfilService) RecomendacionesRapidas(usuarioID *int, anonID *string, topk int) []domain.Recomendacion {
	var q3 string
	perfil, err := s.buscarPerfil(usuarioID, anonID)
	if err != nil {
		log.Printf("recomendaciones: error leyendo perfil: %v", err)
	} else if perfil != nil && perfil.Q3 != nil {
		q3 = strings.ToLower(*perfil.Q3)
	}

	experiencias, err := s.experienciaRepo.GetActivas()
	if err != nil {
		log.Printf("recomendaciones: error leyendo experiencias: %v", err)
		return nil
	}

	type puntuada struct {
		score float64
		exp   domain.Experiencia
	}

	var scored []puntuada
	for _, exp := range experiencias {
		score := 0.1
		texto := strings.ToLower(exp.Nombre)
		if exp.Descripcion != nil {
			texto += " " + strings.ToLower(*exp.Descripcion)
		}
		if q3 != "" {
			if strings.Contains(q3, "veget") && strings.Contains(texto, "veget") {
				score += 1.0
			}
			if strings.Contains(q3, "gourmet") && (strings.Contains(texto, "gourmet") || strings.Contains(texto, "degust")) {
				score += 1.0
			}
		}
		if extra := 0.1 - exp.Precio/1000.0; extra > 0 {
			score += extra
		}
		scored = append(scored, puntuada{score: score, exp: exp})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	if topk > len(scored) {
		topk = len(scored)
	}
	recs := make([]domain.Recomendacion, 0, topk)
	for _, p := range scored[:topk] {
		recs = append(recs, domain.Recomendacion{ID: p.exp.ID, Nombre: p.exp.Nombre, Precio: p.exp.Precio})
	}
	return recs
}

// RecomendacionesAleatorias elige hasta topk experiencias al azar, para
// cuando el perfil no aporta señal.
func RecomendacionesAleatorias(experiencias []domain.Experiencia, topk int) []domain.Recomendacion {
	if len(experiencias) == 0 {
		return nil
	}
	idx := rand.Perm(len(experiencias))
	if topk > len(idx) {
		topk = len(idx)
	}
	recs := make([]domain.Recomendacion, 0, topk)
	for _, i := range idx[:topk] {
		exp := experiencias[i]
		recs = append(recs, domain.Recomendacion{ID: exp.ID, Nombre: exp.Nombre, Precio: exp.Precio})
	}
	return recs
}

package application

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Maxito7/central_backend/internal/domain"
)

var (
	reNumPequeno  = regexp.MustCompile(`\b([1-9][0-9]?)\b`)
	reSoloDigitos = regexp.MustCompile(`\D`)
	reExpIDParens = regexp.MustCompile(`(?i)\(id[:\s]*([0-9]{1,6})\)`)
	reExpIDSuelto = regexp.MustCompile(`(?i)\bid[:\s]*([0-9]{1,6})\b`)
	reExpPalabra  = regexp.MustCompile(`(?i)experienc\w*\s*[:#]?\s*([0-9]{1,6})`)
	reNumEnParens = regexp.MustCompile(`\(([0-9]{1,6})\)`)
)

// ExtraerExperienciaID busca menciones explícitas de una experiencia en el
// mensaje: "(ID 1)", "id 1", "experiencia 1" o un número corto entre
// paréntesis. Devuelve 0 si no encuentra nada.
func ExtraerExperienciaID(mensaje string) int {
	patrones := []*regexp.Regexp{reExpIDParens, reExpIDSuelto, reExpPalabra, reNumEnParens}
	for _, re := range patrones {
		if m := re.FindStringSubmatch(mensaje); m != nil {
			id, err := strconv.Atoi(m[1])
			if err == nil && id > 0 {
				return id
			}
		}
	}
	return 0
}

// DetectarCampoMencionado devuelve el campo lógico que el usuario menciona
// querer cambiar, o cadena vacía si no identifica ninguno.
func DetectarCampoMencionado(texto string) string {
	if texto == "" {
		return ""
	}
	t := strings.ToLower(texto)

	contieneAlguna := func(claves ...string) bool {
		for _, k := range claves {
			if strings.Contains(t, k) {
				return true
			}
		}
		return false
	}

	switch {
	case contieneAlguna("fecha", "hora", "día"):
		return domain.CampoFechaHora
	case contieneAlguna("personas", "comensales", "cuántos", "cuantos"):
		return domain.CampoNumComensales
	case contieneAlguna("nombre", "a nombre", "titular"):
		return domain.CampoNombreReserva
	case contieneAlguna("tel", "telefono", "móvil", "celular", "número"):
		return domain.CampoTelefono
	case contieneAlguna("dni", "documento", "ruc"):
		return domain.CampoDNI
	case contieneAlguna("restric", "alerg", "alergia", "comida", "veget", "vegano", "vegetariano", "gourmet", "tradicional"):
		return domain.CampoRestricciones
	case contieneAlguna("experienc"):
		return domain.CampoExperienciaID
	}
	return ""
}

// ExtraerValorCampo intenta sacar del texto libre un valor válido para el
// campo indicado. Devuelve nil cuando el texto no sirve para ese campo.
func ExtraerValorCampo(campo, texto string, ref time.Time) any {
	txt := strings.TrimSpace(texto)
	if txt == "" {
		return nil
	}

	switch campo {
	case domain.CampoFechaHora:
		dp := &DateParser{}
		if f := dp.ParseFechaHora(txt, ref); f != "" {
			return f
		}
		return nil

	case domain.CampoNumComensales:
		if m := reNumPequeno.FindStringSubmatch(txt); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil && n >= 1 && n <= 200 {
				return n
			}
		}
		return nil

	case domain.CampoTelefono:
		digitos := reSoloDigitos.ReplaceAllString(txt, "")
		if len(digitos) >= 7 {
			return digitos
		}
		return nil

	case domain.CampoNombreReserva:
		// incluso un texto puramente numérico se acepta como nombre
		return txt

	case domain.CampoDNI:
		digitos := reSoloDigitos.ReplaceAllString(txt, "")
		if len(digitos) >= 6 && len(digitos) <= 12 {
			return digitos
		}
		return nil

	case domain.CampoRestricciones:
		return txt
	}

	return nil
}

// ValorPresente replica la noción de "dato ya recolectado" sobre el mapa
// plegado: ausente, nil, cadena vacía, cero numérico y false cuentan como
// faltante.
func ValorPresente(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	}
	return true
}

// CamposFaltantes devuelve, en orden canónico, los campos requeridos que aún
// no están en el mapa plegado.
func CamposFaltantes(merged map[string]any) []string {
	var faltantes []string
	for _, campo := range domain.CamposRequeridos {
		if !ValorPresente(merged[campo]) {
			faltantes = append(faltantes, campo)
		}
	}
	return faltantes
}

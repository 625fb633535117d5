package application

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FormatoFechaHora es el formato canónico en que se guardan los parciales de
// fecha: ISO sin segundos.
const FormatoFechaHora = "2006-01-02T15:04"

// Índices de día estilo lunes=0 .. domingo=6, que es como se calcula el
// desplazamiento hasta el próximo día nombrado.
var diasSemana = map[string]int{
	"lunes": 0, "martes": 1, "miércoles": 2, "miercoles": 2, "jueves": 3,
	"viernes": 4, "sábado": 5, "sabado": 5, "domingo": 6,
}

var (
	reHoraNatural = regexp.MustCompile(`(?i)(?:a\s+las|a|al)?\s*([0-9]{1,2})(?::([0-9]{2}))?\s*(am|pm|a\.m\.|p\.m\.)?`)
	reFechaISO    = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	reFechaBarras = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)
	reDiaNombrado = regexp.MustCompile(`(?i)\b(lunes|martes|mi[ée]rcoles|jueves|viernes|s[áa]bado|domingo)\b`)
)

// DateParser parsea expresiones de fecha y hora en español.
type DateParser struct{}

// ParseNatural reconoce expresiones como "mañana a las 3pm", "hoy 19:00",
// "pasado mañana a las 9" o "el martes a las 20:30". Devuelve la fecha en
// FormatoFechaHora, o cadena vacía si no reconoce nada.
//
// Si el texto no trae palabra de día pero sí una fecha explícita (ISO o
// DD/MM/YYYY), devuelve vacío para que esa fecha la tomen los parseos
// estructurados y el número del año no se confunda con una hora.
func (dp *DateParser) ParseNatural(text string, ref time.Time) string {
	if text == "" {
		return ""
	}
	t := strings.ToLower(text)

	dayOffset := -1
	switch {
	case strings.Contains(t, "pasado mañana") || strings.Contains(t, "pasadomañana"):
		dayOffset = 2
	case strings.Contains(t, "mañana"):
		dayOffset = 1
	case strings.Contains(t, "hoy"):
		dayOffset = 0
	default:
		if m := reDiaNombrado.FindString(t); m != "" {
			wd, ok := diasSemana[strings.ToLower(m)]
			if ok {
				refWd := (int(ref.Weekday()) + 6) % 7
				delta := (wd - refWd) % 7
				if delta < 0 {
					delta += 7
				}
				// si es hoy, asumimos la próxima ocurrencia
				if delta == 0 {
					delta = 7
				}
				dayOffset = delta
			}
		}
	}

	if dayOffset < 0 && (reFechaISO.MatchString(t) || reFechaBarras.MatchString(t)) {
		return ""
	}

	hour := -1
	minute := 0
	if tm := reHoraNatural.FindStringSubmatch(t); tm != nil {
		h, err := strconv.Atoi(tm[1])
		if err != nil {
			return ""
		}
		hour = h
		if tm[2] != "" {
			minute, _ = strconv.Atoi(tm[2])
		}
		ampm := strings.ReplaceAll(strings.ToLower(tm[3]), ".", "")
		if ampm == "pm" && hour < 12 {
			hour += 12
		} else if ampm == "am" && hour == 12 {
			hour = 0
		}
		if hour == 24 {
			hour = 0
		}
		if hour < 0 || hour > 23 {
			return ""
		}
	}

	if dayOffset < 0 && hour < 0 {
		return ""
	}

	base := ref
	if dayOffset >= 0 {
		base = ref.AddDate(0, 0, dayOffset)
	} else if hour >= 0 {
		// sin día explícito: si la hora ya pasó hoy, asumimos mañana
		candidato := time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, 0, 0, ref.Location())
		if !candidato.After(ref) {
			base = ref.AddDate(0, 0, 1)
		}
	}

	if hour < 0 {
		hour = 19
		minute = 0
	}

	dt := time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, base.Location())
	return dt.Format(FormatoFechaHora)
}

var (
	reISOCompleto = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}T\d{2}:\d{2})`)
	reISOFecha    = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	reBarrasHora  = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})(?:\s+(\d{1,2}:\d{2}))?`)
)

// ParseFechaHora intenta primero lenguaje natural y luego los formatos
// estructurados ISO y DD/MM/YYYY. Sin hora explícita asume las 19:00.
func (dp *DateParser) ParseFechaHora(text string, ref time.Time) string {
	txt := strings.TrimSpace(text)
	if txt == "" {
		return ""
	}

	if nat := dp.ParseNatural(txt, ref); nat != "" {
		return nat
	}

	if m := reISOCompleto.FindStringSubmatch(txt); m != nil {
		return m[1]
	}
	if m := reISOFecha.FindStringSubmatch(txt); m != nil {
		return m[1] + "T19:00"
	}
	if m := reBarrasHora.FindStringSubmatch(txt); m != nil {
		partes := strings.Split(m[1], "/")
		hora := m[2]
		if hora == "" {
			hora = "19:00"
		}
		dd, _ := strconv.Atoi(partes[0])
		mm, _ := strconv.Atoi(partes[1])
		return fmt.Sprintf("%s-%02d-%02dT%s", partes[2], mm, dd, hora)
	}

	return ""
}

// NormalizarParaBD convierte el texto acumulado de fecha a time.Time para la
// columna fecha_hora. Admite ISO con espacio o T y DD/MM/YYYY con hora
// opcional; si nada aplica devuelve nil y el texto crudo se guarda aparte.
func (dp *DateParser) NormalizarParaBD(text string) *time.Time {
	txt := strings.TrimSpace(text)
	if txt == "" {
		return nil
	}

	norm := strings.Replace(txt, " ", "T", 1)
	formatos := []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	for _, f := range formatos {
		if dt, err := time.ParseInLocation(f, norm, time.Local); err == nil {
			return &dt
		}
	}

	if m := reBarrasHora.FindStringSubmatch(txt); m != nil {
		dd, _ := strconv.Atoi(strings.Split(m[1], "/")[0])
		mm, _ := strconv.Atoi(strings.Split(m[1], "/")[1])
		yyyy, _ := strconv.Atoi(strings.Split(m[1], "/")[2])
		hh, mi := 19, 0
		if m[2] != "" {
			partes := strings.Split(m[2], ":")
			hh, _ = strconv.Atoi(partes[0])
			mi, _ = strconv.Atoi(partes[1])
		}
		dt := time.Date(yyyy, time.Month(mm), dd, hh, mi, 0, 0, time.Local)
		return &dt
	}

	return nil
}

package domain

import "testing"

func TestMergePartialsLastWriteWins(t *testing.T) {
	payloads := []string{
		`{"experiencia_id": 3}`,
		`{"num_comensales": 4}`,
		`{"experiencia_id": 7}`,
	}

	merged := MergePartials(payloads)

	if got := merged["experiencia_id"]; got != float64(7) {
		t.Fatalf("experiencia_id = %v, want 7", got)
	}
	if got := merged["num_comensales"]; got != float64(4) {
		t.Fatalf("num_comensales = %v, want 4", got)
	}
}

func TestMergePartialsIdempotente(t *testing.T) {
	payloads := []string{
		`{"telefono": "987654321"}`,
		`{"nombre_reserva": "Lucía"}`,
	}

	primera := MergePartials(payloads)
	segunda := MergePartials(payloads)

	if len(primera) != len(segunda) {
		t.Fatalf("folds difieren en tamaño: %d vs %d", len(primera), len(segunda))
	}
	for k, v := range primera {
		if segunda[k] != v {
			t.Fatalf("fold no idempotente en %q: %v vs %v", k, v, segunda[k])
		}
	}
}

func TestMergePartialsIgnoraPayloadsInvalidos(t *testing.T) {
	payloads := []string{
		`{"fecha_hora": "2025-11-02T19:30"}`,
		`no es json`,
		`[1,2,3]`,
	}

	merged := MergePartials(payloads)

	if len(merged) != 1 {
		t.Fatalf("merged = %v, se esperaba solo fecha_hora", merged)
	}
	if merged["fecha_hora"] != "2025-11-02T19:30" {
		t.Fatalf("fecha_hora = %v", merged["fecha_hora"])
	}
}

func TestMergePartialsVacio(t *testing.T) {
	if merged := MergePartials(nil); len(merged) != 0 {
		t.Fatalf("fold vacío devolvió %v", merged)
	}
}

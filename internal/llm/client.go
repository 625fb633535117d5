// Package llm implementa el puente hacia el proveedor de texto generativo.
// El núcleo conversacional solo conoce la capacidad Complete; la forma de la
// respuesta de cada proveedor queda encapsulada aquí.
package llm

import (
	"context"
	"errors"
	"log"
	"time"
)

// ErrUnavailable señala que el proveedor no respondió a tiempo o falló. El
// controlador lo trata eligiendo una respuesta degradada; nunca llega al
// cliente HTTP como error.
var ErrUnavailable = errors.New("llm: proveedor no disponible")

// Client es la capacidad mínima que necesita el asistente.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleteWithTimeout ejecuta Complete con un límite de tiempo y colapsa
// cualquier fallo (timeout incluido) en ErrUnavailable. No reintenta: un
// intento fallido se resuelve aguas arriba con el fallback determinista.
func CompleteWithTimeout(client Client, prompt string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	text, err := client.Complete(ctx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Printf("llm: timeout tras %.1fs", timeout.Seconds())
		} else {
			log.Printf("llm: error del proveedor: %v", err)
		}
		return "", ErrUnavailable
	}
	return text, nil
}

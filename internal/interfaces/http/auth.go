package http

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Maxito7/central_backend/internal/domain"
)

// Authenticator resuelve la identidad del usuario a partir de las fuentes
// aceptadas, en orden de confianza: JWT del header Authorization, token de
// servicio con x-user-id, y por último el user_id del payload validado
// contra la base de datos.
type Authenticator struct {
	jwtSecret    string
	jwtAlg       string
	serviceToken string
	usuarioRepo  domain.UsuarioRepository
}

// NewAuthenticator crea una nueva instancia del autenticador
func NewAuthenticator(jwtSecret, jwtAlg, serviceToken string, usuarioRepo domain.UsuarioRepository) *Authenticator {
	return &Authenticator{
		jwtSecret:    jwtSecret,
		jwtAlg:       jwtAlg,
		serviceToken: serviceToken,
		usuarioRepo:  usuarioRepo,
	}
}

func (a *Authenticator) parseBearer(authHeader string) jwt.MapClaims {
	if authHeader == "" {
		return nil
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != a.jwtAlg {
			return nil, fmt.Errorf("algoritmo inesperado: %s", t.Method.Alg())
		}
		return []byte(a.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		log.Printf("token JWT inválido: %v", err)
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return claims
}

func claimEntero(claims jwt.MapClaims, keys ...string) (int, string) {
	for _, k := range keys {
		v, ok := claims[k]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case float64:
			return int(val), ""
		case string:
			if n, err := strconv.Atoi(val); err == nil {
				return n, ""
			}
			return 0, val
		}
	}
	return 0, ""
}

// UsuarioDesdeJWT resuelve el usuario del token Bearer. Un claim numérico
// (sub, user_id o uid) se usa directo; uno no numérico se resuelve contra la
// base por email y luego por external_id.
func (a *Authenticator) UsuarioDesdeJWT(c *fiber.Ctx) *int {
	claims := a.parseBearer(c.Get("Authorization"))
	if claims == nil {
		return nil
	}

	id, subTexto := claimEntero(claims, "sub", "user_id", "uid")
	if id != 0 {
		return &id
	}

	if email, ok := claims["email"].(string); ok && email != "" {
		resolved, err := a.usuarioRepo.GetIDByEmail(email)
		if err != nil {
			log.Printf("error resolviendo usuario por email: %v", err)
		} else if resolved != nil {
			return resolved
		}
	}
	if subTexto != "" {
		resolved, err := a.usuarioRepo.GetIDByExternalID(subTexto)
		if err != nil {
			log.Printf("error resolviendo usuario por external_id: %v", err)
		} else if resolved != nil {
			return resolved
		}
	}

	return nil
}

// ServiceTokenValido verifica el header x-service-token.
func (a *Authenticator) ServiceTokenValido(c *fiber.Ctx) bool {
	return a.serviceToken != "" && c.Get("x-service-token") == a.serviceToken
}

// UsuarioDesdeServicio acepta x-user-id solo si el token de servicio es
// válido.
func (a *Authenticator) UsuarioDesdeServicio(c *fiber.Ctx) *int {
	if !a.ServiceTokenValido(c) {
		return nil
	}
	huid := c.Get("x-user-id")
	if huid == "" {
		return nil
	}
	id, err := strconv.Atoi(huid)
	if err != nil {
		log.Printf("header x-user-id inválido: %q", huid)
		return nil
	}
	return &id
}

// ResolverUsuario aplica el orden de confianza completo. El user_id suplido
// en el payload solo se acepta si existe en la base.
func (a *Authenticator) ResolverUsuario(c *fiber.Ctx, suplido *int) *int {
	if id := a.UsuarioDesdeJWT(c); id != nil {
		return id
	}
	if id := a.UsuarioDesdeServicio(c); id != nil {
		return id
	}
	if suplido != nil {
		existe, err := a.usuarioRepo.Existe(*suplido)
		if err != nil {
			log.Printf("error validando user_id suplido: %v", err)
			return nil
		}
		if existe {
			return suplido
		}
		log.Printf("user_id suplido no existe en la base, se ignora: %d", *suplido)
	}
	return nil
}

// TieneBearer indica si la petición trae un header Authorization Bearer,
// válido o no. Se usa para el requisito laxo de identidad en /reservas/create.
func TieneBearer(c *fiber.Ctx) bool {
	parts := strings.Fields(c.Get("Authorization"))
	return len(parts) == 2 && strings.EqualFold(parts[0], "bearer")
}

package application

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Maxito7/central_backend/internal/domain"
	"github.com/Maxito7/central_backend/internal/llm"
)

// CampoEditReserva es el valor de reservation_field que inicia el modo
// edición; reservation_value debe traer el id de la reserva.
const CampoEditReserva = "edit_reserva"

var preguntasCampo = map[string]string{
	domain.CampoExperienciaID: "¿Qué experiencia te interesa? Responde con el ID o el nombre.",
	domain.CampoFechaHora:     "¿Qué fecha y hora prefieres? (formato sugerido: YYYY-MM-DDTHH:MM o DD/MM/YYYY)",
	domain.CampoNumComensales: "¿Cuántos comensales serán?",
	domain.CampoNombreReserva: "¿A nombre de quién va la reserva?",
	domain.CampoTelefono:      "¿Cuál es tu teléfono de contacto?",
	domain.CampoRestricciones: "¿Tienes restricciones alimentarias o preferencias de comida?",
}

var preguntasEdicion = map[string]string{
	domain.CampoFechaHora:     "Ok — ¿qué fecha y hora quieres? (Ej: 2025-11-02T19:30 o 02/11/2025 19:30)",
	domain.CampoNumComensales: "¿Cuántos comensales serán?",
	domain.CampoNombreReserva: "Dime el nuevo nombre para la reserva.",
	domain.CampoTelefono:      "Dime el nuevo teléfono.",
	domain.CampoDNI:           "Dime el nuevo DNI.",
	domain.CampoRestricciones: "Escribe las restricciones o preferencias de comida.",
	domain.CampoExperienciaID: "Dime el ID de la experiencia que quieres seleccionar.",
}

const preguntaGenerica = "¿Puedes darme ese dato?"

var reSoloNumero = regexp.MustCompile(`^\d+$`)

// ChatService implementa el controlador de conversación: cuestionario de
// perfil, recolección de datos de reserva campo a campo, modo edición y
// delegación al LLM cuando ya no falta ningún dato.
type ChatService struct {
	eventoRepo      domain.EventoRepository
	reservaRepo     domain.ReservaRepository
	experienciaRepo domain.ExperienciaRepository
	perfilService   *PerfilService
	reservaService  *ReservaService
	llmClient       llm.Client
	llmTimeout      time.Duration
	dateParser      *DateParser
	ahora           func() time.Time
}

// NewChatService crea una nueva instancia del servicio de chat
func NewChatService(
	eventoRepo domain.EventoRepository,
	reservaRepo domain.ReservaRepository,
	experienciaRepo domain.ExperienciaRepository,
	perfilService *PerfilService,
	reservaService *ReservaService,
	llmClient llm.Client,
	llmTimeout time.Duration,
) *ChatService {
	return &ChatService{
		eventoRepo:      eventoRepo,
		reservaRepo:     reservaRepo,
		experienciaRepo: experienciaRepo,
		perfilService:   perfilService,
		reservaService:  reservaService,
		llmClient:       llmClient,
		llmTimeout:      llmTimeout,
		dateParser:      &DateParser{},
		ahora:           time.Now,
	}
}

func (s *ChatService) registrarEvento(tipo string, usuarioID *int, anonID *string, conversationID, payload string) {
	if payload == "" {
		payload = "{}"
	}
	evento := &domain.Evento{
		EventType:      tipo,
		UsuarioID:      usuarioID,
		AnonID:         anonID,
		ConversationID: &conversationID,
		SenderID:       "assistant",
		Payload:        payload,
	}
	if err := s.eventoRepo.Append(evento); err != nil {
		log.Printf("error registrando evento %s: %v", tipo, err)
	}
}

// Start abre una conversación. Si la identidad ya completó el cuestionario
// recibe recomendaciones de entrada; si no, un saludo neutro. Siempre queda
// garantizada una sesión anónima para visitantes sin cuenta.
func (s *ChatService) Start(req *domain.ChatStartRequest) *domain.ChatStartResponse {
	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	anonID := req.AnonID

	if req.UsuarioID != nil && s.perfilService.PerfilCompleto(req.UsuarioID, nil) {
		s.registrarEvento(domain.EventConversationStarted, req.UsuarioID, anonID, conversationID, "")
		mensajes := []domain.Mensaje{
			domain.TextoMensaje("Bienvenido de nuevo. Veo tus preferencias guardadas — esto me ayudará a recomendarte mejor."),
			domain.TextoMensaje(s.textoRecomendaciones(req.UsuarioID, nil,
				"Te recomiendo estas experiencias:",
				"Responde con el ID para seleccionar una experiencia, o escribe otra cosa para que te ayude.",
				"No encuentro recomendaciones específicas ahora. Dime qué buscas o escribe 'recomiéndame' para que te sugiera opciones.")),
			{Type: domain.MensajeAction, Action: domain.ActionProceedToReserva},
		}
		return &domain.ChatStartResponse{ConversationID: conversationID, AnonID: anonID, Messages: mensajes}
	}

	if anonID != nil && s.perfilService.PerfilCompleto(nil, anonID) {
		s.registrarEvento(domain.EventConversationStarted, nil, anonID, conversationID, "")
		mensajes := []domain.Mensaje{
			domain.TextoMensaje(s.textoRecomendaciones(nil, anonID,
				"¡Hola! Puedo recomendarte estas experiencias:",
				"Responde con el ID para seleccionar una, o escribe otra cosa.",
				"¡Hola! No tengo recomendaciones claras todavía. Dime qué prefieres o escribe 'recomiéndame'.")),
			{Type: domain.MensajeAction, Action: domain.ActionProceedToReserva},
		}
		return &domain.ChatStartResponse{ConversationID: conversationID, AnonID: anonID, Messages: mensajes}
	}

	// perfil incompleto: asegurar sesión anónima
	if anonID == nil {
		nuevo := uuid.NewString()
		anonID = &nuevo
	}
	if err := s.reservaService.anonRepo.Ensure(*anonID); err != nil {
		log.Printf("error asegurando sesión anónima %s: %v", *anonID, err)
	}

	s.registrarEvento(domain.EventConversationStarted, req.UsuarioID, anonID, conversationID, "")

	return &domain.ChatStartResponse{
		ConversationID: conversationID,
		AnonID:         anonID,
		Messages:       []domain.Mensaje{domain.TextoMensaje("¡Hola! ¿En qué puedo ayudarte hoy?")},
	}
}

func (s *ChatService) textoRecomendaciones(usuarioID *int, anonID *string, encabezado, pie, sinRecs string) string {
	recs := s.perfilService.RecomendacionesRapidas(usuarioID, anonID, 3)
	if len(recs) == 0 {
		if experiencias, err := s.experienciaRepo.GetActivas(); err == nil {
			recs = RecomendacionesAleatorias(experiencias, 3)
		}
	}
	if len(recs) == 0 {
		return sinRecs
	}

	lineas := make([]string, 0, len(recs))
	for _, r := range recs {
		lineas = append(lineas, fmt.Sprintf("%d. %s (Precio: %.2f)", r.ID, r.Nombre, r.Precio))
	}
	return encabezado + "\n" + strings.Join(lineas, "\n") + "\n\n" + pie
}

func respuesta(conversationID string, mensajes ...domain.Mensaje) *domain.ChatReply {
	return &domain.ChatReply{ConversationID: conversationID, Messages: mensajes}
}

// Message procesa un turno de conversación. El orden de prioridad es fijo:
// respuesta de cuestionario, campo explícito de reserva, modo edición,
// mención de experiencia, número suelto, extracción para el siguiente campo
// faltante y, solo con la reserva completa, el LLM.
func (s *ChatService) Message(req *domain.ChatMessageRequest) (*domain.ChatReply, error) {
	if req.ConversationID == "" {
		return nil, fmt.Errorf("conversation_id requerido")
	}
	conversationID := req.ConversationID

	// 1) respuestas del cuestionario de perfil
	if req.QKey != "" && req.QAnswer != nil {
		return s.procesarRespuestaPerfil(req), nil
	}

	// 2) campo de reserva enviado explícitamente por el cliente
	if req.ReservationField != "" && req.ReservationValue != nil {
		return s.procesarCampoExplicito(req), nil
	}

	// 3) conversación en modo edición
	merged, err := s.eventoRepo.GetMerged(conversationID)
	if err != nil {
		log.Printf("error plegando parciales: %v", err)
		merged = map[string]any{}
	}
	if ValorPresente(merged[domain.CampoEditingReservaID]) {
		return s.procesarEdicion(req, merged), nil
	}

	if req.Message == "" {
		return respuesta(conversationID, domain.TextoMensaje("No action.")), nil
	}

	return s.procesarMensajeLibre(req, merged), nil
}

func (s *ChatService) procesarRespuestaPerfil(req *domain.ChatMessageRequest) *domain.ChatReply {
	completo, err := s.perfilService.GuardarRespuesta(req.UsuarioID, req.AnonID, req.QKey, *req.QAnswer)
	if err != nil {
		log.Printf("error guardando respuesta de perfil: %v", err)
	}

	s.registrarEvento(domain.EventProfileQuestionAnswered, req.UsuarioID, req.AnonID, req.ConversationID, "")

	if completo {
		return respuesta(req.ConversationID,
			domain.TextoMensaje("Perfecto, ya tengo tus preferencias. Buscando recomendaciones..."),
			domain.Mensaje{Type: domain.MensajeAction, Action: domain.ActionProceedToReserva},
		)
	}
	return respuesta(req.ConversationID, domain.TextoMensaje("Respuesta registrada."))
}

func (s *ChatService) procesarCampoExplicito(req *domain.ChatMessageRequest) *domain.ChatReply {
	conversationID := req.ConversationID

	if req.ReservationField == CampoEditReserva {
		return s.iniciarEdicion(req)
	}

	if err := s.eventoRepo.AppendPartial(conversationID, req.AnonID, req.ReservationField, req.ReservationValue); err != nil {
		log.Printf("error guardando parcial explícito: %v", err)
	}

	merged, err := s.eventoRepo.GetMerged(conversationID)
	if err != nil {
		log.Printf("error plegando parciales: %v", err)
		merged = map[string]any{}
	}

	faltantes := CamposFaltantes(merged)
	if len(faltantes) > 0 {
		return respuesta(conversationID, domain.TextoMensaje(preguntaCampo(faltantes[0])))
	}

	resumen, err := s.reservaService.CrearProvisional(merged, req.UsuarioID, req.AnonID, conversationID)
	if err != nil {
		log.Printf("error creando reserva provisional (campo explícito): %v", err)
		return respuesta(conversationID, domain.TextoMensaje("Error creando la reserva provisional."))
	}
	return s.respuestaResumen(conversationID, "He creado la reserva provisional. Aquí tienes el resumen:", resumen.Map())
}

func (s *ChatService) iniciarEdicion(req *domain.ChatMessageRequest) *domain.ChatReply {
	conversationID := req.ConversationID

	rid := aEntero(req.ReservationValue)
	if rid == 0 {
		return respuesta(conversationID, domain.TextoMensaje("ID de reserva inválido para editar."))
	}

	reserva, err := s.reservaRepo.GetByID(rid)
	if err != nil {
		return respuesta(conversationID, domain.TextoMensaje("No encontré esa reserva para editar."))
	}

	guardar := func(campo string, valor any) {
		if err := s.eventoRepo.AppendPartial(conversationID, req.AnonID, campo, valor); err != nil {
			log.Printf("error precargando parcial %s para edición: %v", campo, err)
		}
	}

	// precargar la reserva como parciales para que el fold refleje su estado
	guardar(domain.CampoEditingReservaID, rid)
	if reserva.ExperienciaID != 0 {
		guardar(domain.CampoExperienciaID, reserva.ExperienciaID)
	}
	if reserva.FechaHora != nil {
		guardar(domain.CampoFechaHora, reserva.FechaHora.Format(FormatoFechaHora))
	} else if reserva.FechaHoraTexto != nil {
		guardar(domain.CampoFechaHora, *reserva.FechaHoraTexto)
	}
	if reserva.NumComensales != 0 {
		guardar(domain.CampoNumComensales, reserva.NumComensales)
	}
	if reserva.NombreReserva != nil {
		guardar(domain.CampoNombreReserva, *reserva.NombreReserva)
	}
	if reserva.Telefono != nil {
		guardar(domain.CampoTelefono, *reserva.Telefono)
	}
	if reserva.DNI != nil {
		guardar(domain.CampoDNI, *reserva.DNI)
	}
	if reserva.Restricciones != nil {
		guardar(domain.CampoRestricciones, *reserva.Restricciones)
	}

	payload, _ := json.Marshal(map[string]any{"reserva_id": rid})
	s.registrarEvento(domain.EventReservationEditingStart, req.UsuarioID, req.AnonID, conversationID, string(payload))

	return respuesta(conversationID, domain.TextoMensaje(
		"Perfecto — vamos a editar tu reserva. ¿Qué dato quieres cambiar? (fecha/hora, comensales, nombre, teléfono, DNI, restricciones o experiencia)"))
}

func (s *ChatService) procesarEdicion(req *domain.ChatMessageRequest, merged map[string]any) *domain.ChatReply {
	conversationID := req.ConversationID

	campo := DetectarCampoMencionado(req.Message)
	if campo == "" {
		return respuesta(conversationID, domain.TextoMensaje(
			"¿Qué dato de la reserva quieres cambiar? (fecha/hora, comensales, nombre, teléfono, DNI, restricciones, experiencia)"))
	}

	valor := ExtraerValorCampo(campo, req.Message, s.ahora())
	if valor == nil {
		pregunta, ok := preguntasEdicion[campo]
		if !ok {
			pregunta = "¿Cuál es el nuevo valor?"
		}
		return respuesta(conversationID, domain.TextoMensaje(pregunta))
	}

	rid := aEntero(merged[domain.CampoEditingReservaID])
	columna, ok := domain.ColumnaReserva[campo]
	if rid == 0 || !ok {
		return respuesta(conversationID, domain.TextoMensaje("No pude identificar qué campo actualizar."))
	}

	valorSQL := valor
	if campo == domain.CampoFechaHora {
		if dt := s.dateParser.NormalizarParaBD(fmt.Sprint(valor)); dt != nil {
			valorSQL = *dt
		} else {
			columna = "fecha_hora_texto"
		}
	}

	if err := s.reservaRepo.UpdateCampo(rid, columna, valorSQL); err != nil {
		log.Printf("error aplicando edición a reserva %d: %v", rid, err)
		return respuesta(conversationID, domain.TextoMensaje("Error aplicando el cambio a la reserva."))
	}

	payload, _ := json.Marshal(map[string]any{"reserva_id": rid, "field": campo, "value": fmt.Sprint(valor)})
	s.registrarEvento(domain.EventReservationEditingApply, req.UsuarioID, req.AnonID, conversationID, string(payload))

	// la edición termina aquí: se limpia el centinela con la operación tipada
	if err := s.eventoRepo.ClearEditingFlag(conversationID); err != nil {
		log.Printf("error limpiando modo edición: %v", err)
	}

	resumen := map[string]any{"reserva_id": rid, "id": rid}
	if reserva, err := s.reservaRepo.GetByID(rid); err == nil {
		r := resumenDeReserva(reserva)
		resumen = r.Map()
	}

	return s.respuestaResumen(conversationID, "He actualizado la reserva. Aquí tienes el resumen actualizado:", resumen)
}

func resumenDeReserva(reserva *domain.Reserva) *domain.ReservaResumen {
	var fecha any
	if reserva.FechaHora != nil {
		fecha = reserva.FechaHora.Format(FormatoFechaHora)
	} else if reserva.FechaHoraTexto != nil {
		fecha = *reserva.FechaHoraTexto
	}
	id := reserva.ID
	return &domain.ReservaResumen{
		ReservaID:     &id,
		ExperienciaID: reserva.ExperienciaID,
		FechaHora:     fecha,
		NumComensales: reserva.NumComensales,
		NombreReserva: reserva.NombreReserva,
		Telefono:      reserva.Telefono,
		DNI:           reserva.DNI,
		Restricciones: reserva.Restricciones,
	}
}

func (s *ChatService) respuestaResumen(conversationID, texto string, resumen map[string]any) *domain.ChatReply {
	return respuesta(conversationID,
		domain.TextoMensaje(texto),
		domain.Mensaje{Type: domain.MensajeSummary, Reservation: resumen},
		domain.Mensaje{Type: domain.MensajeAction, Action: domain.ActionProceedToReserva},
	)
}

func preguntaCampo(campo string) string {
	if q, ok := preguntasCampo[campo]; ok {
		return q
	}
	return preguntaGenerica
}

func (s *ChatService) guardarParcial(conversationID string, anonID *string, campo string, valor any) {
	if err := s.eventoRepo.AppendPartial(conversationID, anonID, campo, valor); err != nil {
		log.Printf("error guardando parcial %s: %v", campo, err)
	}
}

func (s *ChatService) procesarMensajeLibre(req *domain.ChatMessageRequest, merged map[string]any) *domain.ChatReply {
	conversationID := req.ConversationID
	mensaje := req.Message

	// mención explícita de experiencia: "(ID 1)", "id 1", "experiencia 1"
	if expID := ExtraerExperienciaID(mensaje); expID > 0 {
		s.guardarParcial(conversationID, req.AnonID, domain.CampoExperienciaID, expID)
		return respuesta(conversationID, domain.TextoMensaje(
			fmt.Sprintf("He seleccionado la experiencia (ID %d). ¿Qué fecha y hora prefieres? (Ej: 2025-11-02T19:30)", expID)))
	}

	// número suelto: decidir su destino según lo que falte
	if limpio := strings.TrimSpace(mensaje); reSoloNumero.MatchString(limpio) {
		if reply := s.procesarNumeroSuelto(req, merged, limpio); reply != nil {
			return reply
		}
	}

	faltantes := CamposFaltantes(merged)
	if len(faltantes) > 0 {
		siguiente := faltantes[0]
		valor := ExtraerValorCampo(siguiente, mensaje, s.ahora())
		if valor == nil {
			return respuesta(conversationID, domain.TextoMensaje(preguntaCampo(siguiente)))
		}

		s.guardarParcial(conversationID, req.AnonID, siguiente, valor)

		merged, err := s.eventoRepo.GetMerged(conversationID)
		if err != nil {
			log.Printf("error plegando parciales tras guardar %s: %v", siguiente, err)
			merged = map[string]any{}
		}
		faltantes = CamposFaltantes(merged)
		if len(faltantes) > 0 {
			return respuesta(conversationID, domain.TextoMensaje(
				fmt.Sprintf("He guardado '%s'. %s", siguiente, preguntaCampo(faltantes[0]))))
		}

		resumen, err := s.reservaService.CrearProvisional(merged, req.UsuarioID, req.AnonID, conversationID)
		if err != nil {
			log.Printf("error creando reserva provisional (texto libre): %v", err)
			return respuesta(conversationID, domain.TextoMensaje("Error creando la reserva provisional."))
		}
		return s.respuestaResumen(conversationID, "He creado la reserva provisional. Aquí tienes el resumen:", resumen.Map())
	}

	// reserva completa: recién aquí interviene el LLM
	return s.procesarConLLM(req, merged)
}

// procesarNumeroSuelto desambigua un mensaje puramente numérico. Cada caso se
// comprueba contra su propio estado faltante, no contra el orden canónico:
// un id de experiencia activa gana, luego teléfono, luego comensales. Si nada
// aplica devuelve nil y el flujo normal sigue.
func (s *ChatService) procesarNumeroSuelto(req *domain.ChatMessageRequest, merged map[string]any, limpio string) *domain.ChatReply {
	conversationID := req.ConversationID
	val, err := strconv.Atoi(limpio)
	if err != nil {
		return nil
	}

	if !ValorPresente(merged[domain.CampoExperienciaID]) {
		existe, err := s.experienciaRepo.ExisteActiva(val)
		if err != nil {
			log.Printf("error verificando experiencia %d: %v", val, err)
		} else if existe {
			s.guardarParcial(conversationID, req.AnonID, domain.CampoExperienciaID, val)
			return respuesta(conversationID, domain.TextoMensaje(
				fmt.Sprintf("He seleccionado la experiencia (ID %d). ¿Qué fecha y hora prefieres? (Ej: 2025-11-02T19:30)", val)))
		}
	}

	if !ValorPresente(merged[domain.CampoTelefono]) && len(limpio) >= 7 {
		s.guardarParcial(conversationID, req.AnonID, domain.CampoTelefono, limpio)
		return s.confirmarParcialYPreguntar(conversationID, domain.CampoTelefono)
	}

	if !ValorPresente(merged[domain.CampoNumComensales]) && val >= 1 && val <= 200 {
		s.guardarParcial(conversationID, req.AnonID, domain.CampoNumComensales, val)
		return s.confirmarParcialYPreguntar(conversationID, domain.CampoNumComensales)
	}

	return nil
}

func (s *ChatService) confirmarParcialYPreguntar(conversationID, campoGuardado string) *domain.ChatReply {
	merged, err := s.eventoRepo.GetMerged(conversationID)
	if err != nil {
		log.Printf("error plegando parciales tras guardar %s: %v", campoGuardado, err)
		merged = map[string]any{}
	}
	faltantes := CamposFaltantes(merged)
	siguiente := preguntaGenerica
	if len(faltantes) > 0 {
		siguiente = preguntaCampo(faltantes[0])
	}
	return respuesta(conversationID, domain.TextoMensaje(
		fmt.Sprintf("He guardado '%s'. %s", campoGuardado, siguiente)))
}

func (s *ChatService) procesarConLLM(req *domain.ChatMessageRequest, merged map[string]any) *domain.ChatReply {
	conversationID := req.ConversationID

	perfilCtx := s.perfilService.ResumenPerfil(req.UsuarioID, req.AnonID)

	var experiencias []domain.Experiencia
	if activas, err := s.experienciaRepo.GetActivas(); err == nil {
		experiencias = activas
	}

	prompt := construirPromptLLM(perfilCtx, merged, experiencias, req.Message)
	resultado, err := llm.CompleteWithTimeout(s.llmClient, prompt, s.llmTimeout)
	if err != nil {
		// respaldo determinista: recomendaciones rápidas sin LLM
		recs := s.perfilService.RecomendacionesRapidas(req.UsuarioID, req.AnonID, 3)
		if len(recs) > 0 {
			lineas := make([]string, 0, len(recs))
			for _, r := range recs {
				lineas = append(lineas, fmt.Sprintf("- %s (ID: %d)", r.Nombre, r.ID))
			}
			return respuesta(conversationID,
				domain.TextoMensaje("Lo siento, el servicio de generación tardó. Mientras tanto, mira estas recomendaciones rápidas:"),
				domain.TextoMensaje(strings.Join(lineas, "\n")),
			)
		}
		return respuesta(conversationID, domain.TextoMensaje(
			"Perdón, la IA tardó demasiado. ¿Quieres que muestre opciones rápidas mientras tanto?"))
	}

	payload, _ := json.Marshal(map[string]any{"message": req.Message})
	s.registrarEvento(domain.EventConversationMessage, req.UsuarioID, req.AnonID, conversationID, string(payload))

	parsed := ExtraerJSONDeTexto(resultado)
	if parsed == nil {
		log.Printf("respuesta del LLM sin JSON estructurado; devolviendo texto crudo")
		if resultado == "" {
			resultado = "Lo siento, no pude generar respuesta estructurada."
		}
		return respuesta(conversationID, domain.TextoMensaje(resultado))
	}

	return s.despacharRespuestaLLM(req, merged, parsed, resultado, experiencias)
}

func (s *ChatService) despacharRespuestaLLM(req *domain.ChatMessageRequest, merged map[string]any, parsed map[string]any, crudo string, experiencias []domain.Experiencia) *domain.ChatReply {
	conversationID := req.ConversationID
	tipo, _ := parsed["type"].(string)
	switch tipo {
	case domain.MensajeText:
		texto, _ := parsed["text"].(string)
		return respuesta(conversationID, domain.TextoMensaje(texto))

	case domain.MensajeForm:
		campo, _ := parsed["field"].(string)
		label, _ := parsed["label"].(string)
		texto, _ := parsed["text"].(string)
		return respuesta(conversationID, domain.Mensaje{Type: domain.MensajeForm, Field: campo, Label: label, Text: texto})

	case domain.MensajeExperiences:
		items, _ := parsed["items"].([]any)
		if len(items) == 0 {
			items = make([]any, 0, len(experiencias))
			for _, exp := range experiencias {
				items = append(items, map[string]any{"id": exp.ID, "nombre": exp.Nombre, "precio": exp.Precio})
			}
		}
		return respuesta(conversationID, domain.Mensaje{Type: domain.MensajeExperiences, Items: items})

	case domain.MensajeAction:
		accion, _ := parsed["action"].(string)
		switch accion {
		case domain.ActionCrearProvisional:
			resumen, err := s.reservaService.CrearProvisional(merged, req.UsuarioID, req.AnonID, conversationID)
			if err != nil {
				log.Printf("error creando reserva provisional (acción LLM): %v", err)
				return respuesta(conversationID, domain.TextoMensaje("Error creando la reserva provisional."))
			}
			return s.respuestaResumen(conversationID, "He creado la reserva provisional. Aquí tienes el resumen:", resumen.Map())
		case domain.ActionEditarReserva:
			payload, _ := parsed["payload"].(map[string]any)
			return s.aplicarEdicionDirigida(req, payload)
		}
		return respuesta(conversationID, domain.Mensaje{Type: domain.MensajeAction, Action: accion})

	case domain.MensajeSummary:
		reservation, _ := parsed["reservation"].(map[string]any)
		if reservation == nil {
			reservation = map[string]any{}
		}
		return respuesta(conversationID, domain.Mensaje{Type: domain.MensajeSummary, Reservation: reservation})
	}

	if texto, ok := parsed["text"].(string); ok && texto != "" {
		return respuesta(conversationID, domain.TextoMensaje(texto))
	}
	return respuesta(conversationID, domain.TextoMensaje(crudo))
}

// aplicarEdicionDirigida ejecuta una directiva edit_reservation del LLM. Solo
// el dueño de la reserva (mismo usuario o misma sesión anónima) puede
// aplicarla; cualquier payload incompleto se responde sin tocar la base.
func (s *ChatService) aplicarEdicionDirigida(req *domain.ChatMessageRequest, payload map[string]any) *domain.ChatReply {
	conversationID := req.ConversationID

	rid := aEntero(payload["reserva_id"])
	campo, _ := payload["field"].(string)
	valor := payload["value"]
	columna, ok := domain.ColumnaReserva[campo]
	if rid == 0 || !ok || valor == nil {
		return respuesta(conversationID, domain.TextoMensaje("No pude aplicar la edición sugerida."))
	}

	reserva, err := s.reservaRepo.GetByID(rid)
	if err != nil {
		return respuesta(conversationID, domain.TextoMensaje("No encontré esa reserva para editar."))
	}

	autorizado := (req.UsuarioID != nil && reserva.UsuarioID != nil && *req.UsuarioID == *reserva.UsuarioID) ||
		(req.AnonID != nil && reserva.AnonID != nil && *req.AnonID == *reserva.AnonID)
	if !autorizado {
		return respuesta(conversationID, domain.TextoMensaje("No puedes editar esa reserva."))
	}

	valorSQL := valor
	if campo == domain.CampoFechaHora {
		if dt := s.dateParser.NormalizarParaBD(fmt.Sprint(valor)); dt != nil {
			valorSQL = *dt
		} else {
			columna = "fecha_hora_texto"
		}
	}

	if err := s.reservaRepo.UpdateCampo(rid, columna, valorSQL); err != nil {
		log.Printf("error aplicando edición dirigida a reserva %d: %v", rid, err)
		return respuesta(conversationID, domain.TextoMensaje("Error aplicando el cambio a la reserva."))
	}

	detalle, _ := json.Marshal(map[string]any{"reserva_id": rid, "field": campo, "value": fmt.Sprint(valor)})
	s.registrarEvento(domain.EventReservationEditingApply, req.UsuarioID, req.AnonID, conversationID, string(detalle))

	resumen := map[string]any{"reserva_id": rid, "id": rid}
	if actual, err := s.reservaRepo.GetByID(rid); err == nil {
		resumen = resumenDeReserva(actual).Map()
	}
	return s.respuestaResumen(conversationID, "He actualizado la reserva. Aquí tienes el resumen actualizado:", resumen)
}

func construirPromptLLM(perfilCtx string, merged map[string]any, experiencias []domain.Experiencia, mensaje string) string {
	system := "Eres 'Amigo Central', el asistente virtual del restaurante Central. " +
		"Tu misión es ayudar a los clientes a explorar nuestras experiencias culinarias y a realizar reservas de una manera cálida, amigable y eficiente. " +
		"Habla siempre en español, con un tono cercano pero profesional. Guía al usuario paso a paso en el proceso de reserva." +
		"\nIMPORTANTE: Tu respuesta SIEMPRE debe incluir un bloque de código JSON al final, dentro de ```json ... ```."

	instrucciones := "Instrucciones de conversación y JSON:\n" +
		"- Sé conversacional y amigable, no robótico.\n" +
		"- Si faltan datos para la reserva, pide el siguiente dato en este orden: experiencia -> fecha/hora -> número de personas -> nombre -> teléfono -> restricciones.\n" +
		"- Para pedir un dato, responde con una pregunta amigable y un JSON como: ```json {\"type\":\"form\",\"field\":\"fecha_hora\",\"label\":\"¿Para qué fecha y hora sería tu reserva?\"} ```\n" +
		"- Si el usuario pide recomendaciones, responde con sugerencias y un JSON como: ```json {\"type\":\"experiences\",\"items\":[{\"id\":1,\"nombre\":\"Experiencia A\"}]} ```\n" +
		"- Una vez que tengas todos los datos, muestra un resumen y el JSON: ```json {\"type\":\"summary\",\"reservation\":{...}} ```\n" +
		"- Para respuestas de texto simples, usa: ```json {\"type\":\"text\",\"text\":\"Tu respuesta aquí.\"} ```"

	contexto := ""
	if perfilCtx != "" {
		contexto = "Contexto cliente: " + perfilCtx + "\n"
	}
	if len(merged) > 0 {
		pares := make([]string, 0, len(merged))
		for k, v := range merged {
			pares = append(pares, fmt.Sprintf("%s=%v", k, v))
		}
		contexto += "Parciales de reserva actuales: " + strings.Join(pares, ", ") + "\n"
	}
	if len(experiencias) > 0 {
		lineas := make([]string, 0, len(experiencias))
		for _, e := range experiencias {
			linea := fmt.Sprintf("%d. %s", e.ID, e.Nombre)
			if e.Precio != 0 {
				linea += fmt.Sprintf(" (%.2f)", e.Precio)
			}
			lineas = append(lineas, linea)
		}
		contexto += "Experiencias activas (id - nombre):\n" + strings.Join(lineas, "\n") + "\n"
	}

	return strings.Join([]string{system, instrucciones, contexto, "Usuario: " + mensaje + "\nAsistente:"}, "\n\n")
}

package email

import (
	"crypto/tls"
	"fmt"
	"log"
	"strconv"

	"github.com/wneessen/go-mail"
)

// Client representa el cliente de correo electrónico
type Client struct {
	host      string
	port      int
	user      string
	password  string
	fromName  string
	fromEmail string
}

// NewClient crea una nueva instancia del cliente de email
func NewClient(host, portStr, user, password, fromName, fromEmail string) (*Client, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("puerto SMTP inválido: %w", err)
	}

	return &Client{
		host:      host,
		port:      port,
		user:      user,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}, nil
}

// SendEmail envía un correo electrónico
func (c *Client) SendEmail(to, subject, htmlBody string) error {
	m := mail.NewMsg()

	if err := m.From(fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail)); err != nil {
		return fmt.Errorf("error al configurar remitente: %w", err)
	}

	if err := m.To(to); err != nil {
		return fmt.Errorf("error al configurar destinatario: %w", err)
	}

	m.Subject(subject)
	m.SetBodyString(mail.TypeTextHTML, htmlBody)

	log.Printf("SMTP: connecting to %s:%d as user=%s", c.host, c.port, c.user)

	client, err := mail.NewClient(c.host,
		mail.WithPort(c.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.user),
		mail.WithPassword(c.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTLSConfig(&tls.Config{
			ServerName: c.host,
		}),
	)
	if err != nil {
		return fmt.Errorf("error al crear cliente SMTP (host=%s port=%d user=%s): %w", c.host, c.port, c.user, err)
	}

	if err := client.DialAndSend(m); err != nil {
		// Añadir contexto útil al error sin exponer credenciales
		return fmt.Errorf("error al enviar correo (host=%s port=%d user=%s): %w", c.host, c.port, c.user, err)
	}

	return nil
}

// ReservaInfo contiene la información de la reserva para el email
type ReservaInfo struct {
	ID            int
	ClienteEmail  string
	NombreReserva string
	Experiencia   string
	FechaHora     string
	NumComensales int
	Restricciones string
}

// SendReservaConfirmacion envía un correo de confirmación de reserva
func (c *Client) SendReservaConfirmacion(reserva ReservaInfo) error {
	subject := fmt.Sprintf("Confirmación de Reserva #%d - %s", reserva.ID, c.fromName)
	htmlBody := c.generarHTMLConfirmacion(reserva)

	return c.SendEmail(reserva.ClienteEmail, subject, htmlBody)
}

// generarHTMLConfirmacion genera el HTML del correo de confirmación
func (c *Client) generarHTMLConfirmacion(reserva ReservaInfo) string {
	restriccionesHTML := ""
	if reserva.Restricciones != "" {
		restriccionesHTML = fmt.Sprintf(`
									<tr>
										<td style="padding: 8px 0;"><strong>Restricciones:</strong></td>
										<td style="padding: 8px 0; text-align: right;">%s</td>
									</tr>`, reserva.Restricciones)
	}

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="es">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Confirmación de Reserva</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f4f4f4;">
	<table width="100%%" cellpadding="0" cellspacing="0" style="background-color: #f4f4f4; padding: 20px;">
		<tr>
			<td align="center">
				<table width="600" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
					<tr>
						<td style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); padding: 40px 20px; text-align: center;">
							<h1 style="color: #ffffff; margin: 0; font-size: 28px;">¡Reserva Confirmada!</h1>
							<p style="color: #ffffff; margin: 10px 0 0 0; font-size: 16px;">Gracias por reservar con nosotros</p>
						</td>
					</tr>

					<tr>
						<td style="padding: 40px 30px;">
							<div style="background-color: #f8f9fa; border-left: 4px solid #667eea; padding: 20px; margin-bottom: 30px;">
								<h2 style="margin: 0 0 15px 0; color: #333; font-size: 20px;">Detalles de la Reserva</h2>
								<table width="100%%" cellpadding="0" cellspacing="0">
									<tr>
										<td style="padding: 8px 0;"><strong>ID de Reserva:</strong></td>
										<td style="padding: 8px 0; text-align: right;">#%d</td>
									</tr>
									<tr>
										<td style="padding: 8px 0;"><strong>A nombre de:</strong></td>
										<td style="padding: 8px 0; text-align: right;">%s</td>
									</tr>
									<tr>
										<td style="padding: 8px 0;"><strong>Experiencia:</strong></td>
										<td style="padding: 8px 0; text-align: right;">%s</td>
									</tr>
									<tr>
										<td style="padding: 8px 0;"><strong>Fecha y Hora:</strong></td>
										<td style="padding: 8px 0; text-align: right;">%s</td>
									</tr>
									<tr>
										<td style="padding: 8px 0;"><strong>Comensales:</strong></td>
										<td style="padding: 8px 0; text-align: right;">%d</td>
									</tr>%s
								</table>
							</div>

							<p style="color: #666; font-size: 14px; line-height: 1.6;">
								Te esperamos en Central. Si necesitas modificar o cancelar tu reserva,
								responde a este correo o escríbenos por el chat del sitio.
							</p>
						</td>
					</tr>

					<tr>
						<td style="background-color: #333; padding: 20px; text-align: center;">
							<p style="color: #ffffff; margin: 0; font-size: 12px;">%s</p>
						</td>
					</tr>
				</table>
			</td>
		</tr>
	</table>
</body>
</html>`,
		reserva.ID,
		reserva.NombreReserva,
		reserva.Experiencia,
		reserva.FechaHora,
		reserva.NumComensales,
		restriccionesHTML,
		c.fromName,
	)

	return html
}

// Package notify emails receipts to customers. Delivery is fire-and-forget
// from the checkout's point of view: a failure is surfaced as a warning and
// never rolls back the order.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	gomail "gopkg.in/gomail.v2"

	"github.com/SamuelCev/KicksBackend-sub000/internal/domain"
	"github.com/SamuelCev/KicksBackend-sub000/internal/receipt"
)

type SMTPDispatcher struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPDispatcher(host string, port int, username, password, from string) *SMTPDispatcher {
	return &SMTPDispatcher{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send emails the order confirmation to the customer, attaching the rendered
// receipt when one is available. At-least-once semantics: a retry may deliver
// a duplicate email, which is acceptable.
func (d *SMTPDispatcher) Send(ctx context.Context, recipient string, order *domain.Order, handle *receipt.DocumentHandle) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send receipt email: %w", err)
	}

	body, err := RenderEmailBody(order)
	if err != nil {
		return err
	}

	message := gomail.NewMessage()
	message.SetHeader("From", d.from)
	message.SetHeader("To", recipient)
	message.SetHeader("Subject", fmt.Sprintf("Confirmación de tu orden #%d", order.ID))
	message.SetBody("text/html", body)
	if handle != nil {
		message.Attach(handle.Path)
	}

	if err := d.dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("send receipt email: %w", err)
	}
	return nil
}

// RenderEmailBody fills the confirmation template from the order snapshot.
func RenderEmailBody(order *domain.Order) (string, error) {
	tmpl, err := template.New("orderEmail").Parse(orderEmailTemplate)
	if err != nil {
		return "", fmt.Errorf("parse email template: %w", err)
	}

	data := struct {
		Order *domain.Order
		Total string
	}{
		Order: order,
		Total: order.Total.StringFixed(2),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute email template: %w", err)
	}

	return buf.String(), nil
}

const orderEmailTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Confirmación de orden</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #1a1a2e; color: white; padding: 20px; text-align: center; }
        .content { padding: 30px; background-color: #f9f9f9; }
        .total { font-size: 18px; font-weight: bold; }
        .footer { padding: 20px; text-align: center; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>¡Gracias por tu compra, {{.Order.ShippingName}}!</h1>
        </div>
        <div class="content">
            <p>Tu orden <strong>#{{.Order.ID}}</strong> fue registrada correctamente.</p>
            <p>Método de pago: {{.Order.PaymentMethod}}</p>
            <p>Dirección de envío: {{.Order.ShippingAddress}}, {{.Order.City}}, {{.Order.Country}} ({{.Order.PostalCode}})</p>
            <p class="total">Total: ${{.Total}}</p>
            <p>Adjuntamos tu recibo en PDF. Te avisaremos cuando tu pedido sea enviado.</p>
        </div>
        <div class="footer">
            <p>Kicks — tienda de calzado en línea</p>
        </div>
    </div>
</body>
</html>
`

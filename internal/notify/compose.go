// Package notify renders the client and administrator emails for a scored
// audit submission.
package notify

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/joelkehle/codice-audit/internal/recommend"
	"github.com/joelkehle/codice-audit/internal/survey"
)

// Email is a rendered message without addressing. Text is the plain-text
// part: the same markdown layout with user fields shown verbatim.
type Email struct {
	Subject string
	Text    string
	HTML    string
}

type Notification struct {
	Client Email
	Admin  Email
}

// Compose renders both emails for one submission. ref is an opaque
// submission reference shown to the administrator.
func Compose(sub survey.Submission, rec recommend.Recommendation, catalog *survey.Catalog, ref string) (Notification, error) {
	clientHTML, err := renderHTML(clientMarkdown(sub, rec, escapeMarkdown))
	if err != nil {
		return Notification{}, fmt.Errorf("render client email: %w", err)
	}
	adminHTML, err := renderHTML(adminMarkdown(sub, rec, catalog, ref, escapeMarkdown))
	if err != nil {
		return Notification{}, fmt.Errorf("render admin email: %w", err)
	}
	return Notification{
		Client: Email{
			Subject: fmt.Sprintf("✅ ¡Tu Auditoría Digital CÓDICE ha sido completada, %s!", singleLine(sub.Name)),
			Text:    clientMarkdown(sub, rec, plainField),
			HTML:    clientHTML,
		},
		Admin: Email{
			Subject: fmt.Sprintf("🚨 NUEVA AUDITORÍA CÓDICE: %s (%s)", singleLine(sub.Name), rec.Name),
			Text:    adminMarkdown(sub, rec, catalog, ref, plainField),
			HTML:    adminHTML,
		},
	}, nil
}

// clientMarkdown lays out the client email; field formats each user value.
func clientMarkdown(sub survey.Submission, rec recommend.Recommendation, field func(string) string) string {
	var b strings.Builder
	b.WriteString("## Diagnóstico de Presencia Digital\n\n")
	b.WriteString("Hola " + field(sub.Name) + ",\n\n")
	b.WriteString("Hemos procesado tu auditoría y aquí está un resumen de la recomendación de plan basada en tus respuestas:\n\n")
	b.WriteString("> ### 🎯 Recomendación: " + rec.Name + " (" + rec.MonthlyCost + ")\n\n")
	b.WriteString("**Justificación:** " + rec.Justification + "\n\n")
	b.WriteString("Un asesor se pondrá en contacto contigo en las próximas 24 horas a través de " +
		field(sub.Contact) + " o este email para profundizar en tu diagnóstico.\n\n")
	b.WriteString("Gracias por confiar en CÓDICE.\n\n")
	b.WriteString("---\n\n")
	b.WriteString("_Este es un mensaje automatizado. Por favor, no respondas a este correo._\n")
	return b.String()
}

func adminMarkdown(sub survey.Submission, rec recommend.Recommendation, catalog *survey.Catalog, ref string, field func(string) string) string {
	var b strings.Builder
	b.WriteString("## Nueva Solicitud de Auditoría Recibida\n\n")
	if ref != "" {
		b.WriteString("**Referencia:** " + field(ref) + "\n\n")
	}
	b.WriteString("**De:** " + field(sub.Name) + "\n\n")
	b.WriteString("**Contacto:** " + field(sub.Contact) + "\n\n")
	b.WriteString("**Email:** " + field(sub.Email) + "\n\n")
	b.WriteString("**Edad de la Empresa (años):** " + strconv.Itoa(sub.CompanyAgeYears) + "\n\n")
	b.WriteString("---\n\n")
	b.WriteString("### Recomendación Calculada: " + rec.Name + "\n\n")
	b.WriteString("**Justificación del Plan:** " + rec.Justification + "\n\n")
	b.WriteString("---\n\n")
	b.WriteString("#### Respuestas Detalladas del Cliente:\n\n")
	b.WriteString(answerBlock(sub, catalog, field))
	b.WriteString("Favor de contactar para iniciar la venta.\n")
	return b.String()
}

const emailCSS = `body{font-family:Arial,Helvetica,sans-serif;color:#222;line-height:1.5;max-width:640px;margin:0 auto;padding:16px;}` +
	`blockquote{border:1px solid #007bff;padding:15px;border-radius:5px;background-color:#e6f7ff;margin:16px 0;}` +
	`blockquote h3{margin:0;}` +
	`hr{border:0;border-top:1px solid #eee;margin:10px 0;}` +
	`em{color:#777;font-size:0.85em;}`

func renderHTML(markdown string) (string, error) {
	var content bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>CÓDICE</title>" +
		"<style>" + emailCSS + "</style></head><body>" +
		content.String() +
		"</body></html>", nil
}

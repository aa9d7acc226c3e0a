package mail

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/zapvendas/internal/entity"
)

var handoffTemplate = template.Must(template.New("handoff").Parse(`Hi team,

A customer on WhatsApp asked to talk to a person{{if .StoreName}} at {{.StoreName}}{{end}}.

Customer: {{if .CustomerName}}{{.CustomerName}}{{else}}(name unknown){{end}}
Phone:    +{{.PhoneNumber}}
City:     {{if .City}}{{.City}}{{else}}(unknown){{end}}
Lead ID:  {{.LeadID}}
When:     {{.RequestedAt}}

Last message:
"{{.Message}}"

The bot will stay quiet on this conversation until the lead is released in the dashboard.
`))

// dialer is satisfied by *gomail.Dialer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from, to, storeName string) *EmailSender {
	return &EmailSender{
		Host:      host,
		Port:      port,
		User:      user,
		Password:  password,
		From:      from,
		To:        to,
		StoreName: storeName,
	}
}

// NotifyHandoff emails the configured recipient about a handoff request.
func (s *EmailSender) NotifyHandoff(ctx context.Context, event entity.LeadEvent) error {
	return s.send(ctx, gomail.NewDialer(s.Host, s.Port, s.User, s.Password), event)
}

func (s *EmailSender) send(ctx context.Context, d dialer, event entity.LeadEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := s.buildHandoffMessage(event)
	if err != nil {
		return err
	}
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send handoff email: %w", err)
	}
	return nil
}

func (s *EmailSender) buildHandoffMessage(event entity.LeadEvent) (*gomail.Message, error) {
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	data := HandoffEmailData{
		StoreName:    s.StoreName,
		CustomerName: event.CustomerName,
		PhoneNumber:  event.PhoneNumber,
		City:         event.City,
		Message:      event.Message,
		LeadID:       event.LeadID,
		RequestedAt:  occurred.Format(time.RFC1123),
	}

	var body bytes.Buffer
	if err := handoffTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("render handoff email: %w", err)
	}

	who := event.CustomerName
	if who == "" {
		who = "+" + event.PhoneNumber
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("🙋 %s wants to talk to a person", who))
	m.SetBody("text/plain", body.String())
	return m, nil
}

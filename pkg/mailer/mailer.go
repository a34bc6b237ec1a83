// Package mailer sends transactional email over SMTP.
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/rs/zerolog"
)

// Config carries SMTP connection settings. Auth is skipped when User is
// empty, which is what local relays expect.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	FromName string
	FromAddr string
}

// Message is one outbound email. Body is pre-rendered HTML.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends messages through a single SMTP endpoint.
type Mailer struct {
	cfg    Config
	logger zerolog.Logger
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New constructs a Mailer.
func New(cfg Config, logger zerolog.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		logger: logger.With().Str("component", "mailer").Logger(),
		send:   smtp.SendMail,
	}
}

// Send delivers one message. Callers treat failures as best-effort and only
// log them.
func (m *Mailer) Send(msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("message has no recipient")
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s <%s>\r\n", m.cfg.FromName, m.cfg.FromAddr)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(msg.Body)

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := m.send(addr, auth, m.cfg.FromAddr, []string{msg.To}, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.logger.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("mail sent")
	return nil
}

var bodyTemplate = template.Must(template.New("body").Parse(`<html><body>
<p>{{.Greeting}},</p>
<p>{{.Line}}</p>
{{if .Remark}}<p>Remark: {{.Remark}}</p>{{end}}
<p>Submission #{{.SubmissionID}} &middot; deadline {{.Deadline}}</p>
</body></html>`))

// BodyData fills the standard notification body template.
type BodyData struct {
	Greeting     string
	Line         string
	Remark       string
	SubmissionID uint
	Deadline     string
}

// RenderBody renders the shared notification body. Inputs must already be
// sanitized; the template escapes on top of that.
func RenderBody(data BodyData) (string, error) {
	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render mail body: %w", err)
	}
	return buf.String(), nil
}

// Package mail delivers transactional email over SMTP. No third-party mail
// client is involved; the message volume is one template and the stdlib
// covers it.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"go.uber.org/zap"

	"github.com/jooshwells/nanta-mobile/internal/infra/config"
	appLogger "github.com/jooshwells/nanta-mobile/internal/infra/logger"
)

//go:embed verification_email.html.tmpl
var templatesFS embed.FS

// Sender delivers verification email over SMTP.
type Sender struct {
	cfg      config.MailSettings
	baseURL  string
	ttl      time.Duration
	logger   *zap.Logger
	template *template.Template
	send     func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewSender constructs an SMTP sender. baseURL is the public origin used to
// build verification links; ttl is the verification token lifetime shown in
// the message body.
func NewSender(cfg config.MailSettings, baseURL string, ttl time.Duration, logger *zap.Logger) (*Sender, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("mail: smtp host and from address are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := template.ParseFS(templatesFS, "verification_email.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("mail: parse template: %w", err)
	}

	return &Sender{
		cfg:      cfg,
		baseURL:  baseURL,
		ttl:      ttl,
		logger:   logger,
		template: tmpl,
		send:     smtp.SendMail,
	}, nil
}

// SendVerification renders and delivers the verification email. The token
// rides in the link path; the recipient address is the only destination.
func (s *Sender) SendVerification(ctx context.Context, to, firstName, lastName, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if to == "" || token == "" {
		return fmt.Errorf("mail: recipient and token are required")
	}

	var body bytes.Buffer
	err := s.template.Execute(&body, struct {
		FirstName string
		LastName  string
		VerifyURL string
		ExpiresIn string
	}{
		FirstName: firstName,
		LastName:  lastName,
		VerifyURL: fmt.Sprintf("%s/api/auth/user/verify-email/%s", s.baseURL, token),
		ExpiresIn: formatTTL(s.ttl),
	})
	if err != nil {
		return fmt.Errorf("mail: render template: %w", err)
	}

	msg := s.buildMessage(to, "Verification Email", body.Bytes())

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := s.send(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}

	s.logger.Info("verification email sent",
		zap.String("to", appLogger.MaskEmail(to)),
	)
	return nil
}

func (s *Sender) buildMessage(to, subject string, htmlBody []byte) []byte {
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.cfg.FromName, s.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(htmlBody)
	return msg.Bytes()
}

func formatTTL(ttl time.Duration) string {
	if ttl <= 0 {
		return "12 hours"
	}
	hours := int(ttl.Hours())
	if hours <= 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}

// Package mailer delivers outbound email over SMTP, or writes it to the log
// when no relay is configured.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/uninorte/feria-gamer/internal/config"
)

// Message is a single plain-text email
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends messages
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns the mailer selected by cfg.Driver
func New(cfg config.MailConfig) (Mailer, error) {
	switch cfg.Driver {
	case "", "log":
		return &LogMailer{From: cfg.From, Logger: slog.Default()}, nil
	case "smtp":
		if err := validateSMTP(cfg); err != nil {
			return nil, err
		}
		return &SMTPMailer{
			Addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Host:     cfg.Host,
			Username: cfg.Username,
			Password: cfg.Password,
			From:     cfg.From,
		}, nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.Driver)
	}
}

func validateSMTP(cfg config.MailConfig) error {
	if cfg.Host == "" || cfg.Port == 0 || cfg.From == "" {
		return errors.New("smtp mail driver requires mail.host, mail.port and mail.from")
	}
	return nil
}

// SMTPMailer sends through an SMTP relay with PLAIN auth when credentials
// are set.
type SMTPMailer struct {
	Addr     string
	Host     string
	Username string
	Password string
	From     string

	// sendMail is swapped in tests
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// Send delivers msg. net/smtp has no context support, so ctx is only checked
// before dialing.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}

	send := m.sendMail
	if send == nil {
		send = smtp.SendMail
	}
	if err := send(m.Addr, auth, m.From, []string{msg.To}, Compose(m.From, msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}

	slog.Info("Email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// Compose renders msg as an RFC 5322 message with UTF-8 headers
func Compose(from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.BEncoding.Encode("UTF-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// LogMailer writes messages to the log instead of sending them
type LogMailer struct {
	From   string
	Logger *slog.Logger
}

// Send logs msg
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.Logger.Info("Email (log driver)",
		"from", m.From,
		"to", msg.To,
		"subject", msg.Subject)
	// The body carries invitation tokens.
	m.Logger.Debug("Email body (log driver)", "to", msg.To, "body", msg.Body)
	return nil
}

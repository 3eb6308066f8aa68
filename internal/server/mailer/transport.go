// Package mailer delivers composed notifications over SMTP (or to the log in
// development) and archives delivered copies to S3.
package mailer

import (
	"context"
	"fmt"
	netmail "net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/shipagency/internal/logging"
	"github.com/dmitrijs2005/shipagency/internal/notify"
	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"
)

// Transport delivers a composed message and returns its Message-ID.
type Transport interface {
	Send(ctx context.Context, msg notify.Message) (string, error)
}

// SMTPConfig holds the outbound server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// Secure selects implicit TLS (usually port 465); otherwise STARTTLS is
	// used opportunistically.
	Secure  bool
	From    string
	Timeout time.Duration
}

// mailSender is the part of *gomail.Client we use.
type mailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// SMTPTransport sends mail through go-mail. One connection per message.
type SMTPTransport struct {
	from   string
	domain string
	client mailSender
}

func NewSMTPTransport(cfg SMTPConfig) (*SMTPTransport, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTimeout(cfg.Timeout),
	}
	if cfg.Timeout <= 0 {
		opts[1] = gomail.WithTimeout(30 * time.Second)
	}
	if cfg.Secure {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	c, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &SMTPTransport{from: cfg.From, domain: senderDomain(cfg.From), client: c}, nil
}

func (t *SMTPTransport) Send(ctx context.Context, msg notify.Message) (string, error) {
	m, id, err := buildMsg(t.from, t.domain, msg)
	if err != nil {
		return "", err
	}

	if err := t.client.DialAndSendWithContext(ctx, m); err != nil {
		return "", err
	}

	return id, nil
}

func buildMsg(from, domain string, msg notify.Message) (*gomail.Msg, string, error) {
	m := gomail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, "", fmt.Errorf("from address: %w", err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, "", fmt.Errorf("to address: %w", err)
	}
	if len(msg.Cc) > 0 {
		if err := m.Cc(msg.Cc...); err != nil {
			return nil, "", fmt.Errorf("cc address: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	m.SetDate()

	id := newMessageID(domain)
	m.SetMessageIDWithValue(id)

	return m, "<" + id + ">", nil
}

func newMessageID(domain string) string {
	return uuid.NewString() + "@" + domain
}

func senderDomain(from string) string {
	if a, err := netmail.ParseAddress(from); err == nil {
		from = a.Address
	}
	if i := strings.LastIndex(from, "@"); i >= 0 && i < len(from)-1 {
		return from[i+1:]
	}
	return "localhost"
}

// LogTransport writes messages to the log instead of sending them. It is
// used when no SMTP host is configured.
type LogTransport struct {
	domain string
	logger logging.Logger
}

func NewLogTransport(from string, l logging.Logger) *LogTransport {
	return &LogTransport{domain: senderDomain(from), logger: l.With("module", "mail")}
}

func (t *LogTransport) Send(ctx context.Context, msg notify.Message) (string, error) {
	id := "<" + newMessageID(t.domain) + ">"
	t.logger.Info(ctx, "email not sent (no SMTP host configured)",
		"message_id", id,
		"to", strings.Join(msg.To, ","),
		"cc", strings.Join(msg.Cc, ","),
		"subject", msg.Subject,
	)
	t.logger.Debug(ctx, "email body", "message_id", id, "body", msg.Body)
	return id, nil
}

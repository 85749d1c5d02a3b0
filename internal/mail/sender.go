package mail

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// SMTPConfig holds the delivery transport settings.
type SMTPConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	FromName  string
	FromEmail string
}

// Sender delivers email jobs over SMTP with a fixed retry policy:
// up to MaxAttempts tries per job with RetryDelay between them.
// Delivery failure after the final attempt drops the job with an
// error log.
type Sender struct {
	cfg SMTPConfig
}

const (
	// MaxAttempts is the total number of delivery tries per job.
	MaxAttempts = 3
	// RetryDelay is the fixed backoff between attempts.
	RetryDelay = 60 * time.Second
)

func NewSender(cfg SMTPConfig) *Sender {
	return &Sender{cfg: cfg}
}

// Send delivers a single job once. The worker loop layers retries on
// top of this.
func (s *Sender) Send(job Job) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}

	msg := s.buildMessage(job)

	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{job.To}, msg); err != nil {
		return fmt.Errorf("mail.Sender.Send: %w", err)
	}

	return nil
}

// SendWithRetry tries Send up to MaxAttempts times with a fixed delay.
// sleep is injectable for tests.
func (s *Sender) SendWithRetry(job Job, sleep func(time.Duration)) error {
	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		lastErr = s.Send(job)
		if lastErr == nil {
			log.Info().Str("to", job.To).Str("subject", job.Subject).Int("attempt", attempt).Msg("email sent")
			return nil
		}
		log.Warn().Err(lastErr).Str("to", job.To).Int("attempt", attempt).Msg("email delivery failed")
		if attempt < MaxAttempts {
			sleep(RetryDelay)
		}
	}

	return fmt.Errorf("mail.Sender.SendWithRetry: giving up after %d attempts: %w", MaxAttempts, lastErr)
}

func (s *Sender) buildMessage(job Job) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.cfg.FromName, s.cfg.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", job.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", job.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(job.HTML)
	return []byte(b.String())
}

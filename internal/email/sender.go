package email

import (
	"fmt"
	"log"
	"time"

	"gopkg.in/gomail.v2"
)

// Config holds SMTP settings for outbound mail.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Sender delivers transactional mail over SMTP with retries.
type Sender struct {
	cfg Config
}

// NewSender creates a new Sender
func NewSender(cfg Config) *Sender {
	return &Sender{cfg: cfg}
}

// Send delivers one message, retrying with exponential backoff.
func (s *Sender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	dialer := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	for attempt := 0; attempt < 3; attempt++ {
		if err := dialer.DialAndSend(m); err != nil {
			delay := time.Duration(1<<attempt) * time.Second
			log.Printf("email: send to %s failed (attempt %d): %v, retrying in %v", to, attempt+1, err, delay)
			time.Sleep(delay)
			continue
		}
		return nil
	}
	return fmt.Errorf("failed to send email to %s after 3 attempts", to)
}

// SendVerificationApproved mails a user that their verified badge was granted.
func (s *Sender) SendVerificationApproved(to, name string) error {
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>Good news: your verification request was approved. The verified badge now shows on your profile.</p>
<p>UniConnect Hub</p>`, name)
	return s.Send(to, "Your profile is now verified", body)
}

// SendVerificationRejected mails a user that their application was declined.
func (s *Sender) SendVerificationRejected(to, name, notes string) error {
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your verification request was reviewed and declined.</p>`, name)
	if notes != "" {
		body += fmt.Sprintf("<p>Reviewer notes: %s</p>", notes)
	}
	body += "<p>You can reach out to support if you believe this is a mistake.</p><p>UniConnect Hub</p>"
	return s.Send(to, "Update on your verification request", body)
}

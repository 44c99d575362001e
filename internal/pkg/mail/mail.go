package mail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"github.com/nitaidalal/blog-core/internal/config"
)

// Message is a single email to send.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender sends emails via the Resend API or SMTP. When mail is disabled in
// config every Send is a silent no-op so subscribe/contact flows still
// succeed in development.
type Sender struct {
	cfg config.MailConfig
}

func New(cfg config.MailConfig) *Sender {
	return &Sender{cfg: cfg}
}

// Enabled reports whether outbound mail is configured.
func (s *Sender) Enabled() bool { return s.cfg.MailEnabled() }

// Send dispatches an email. Prefers Resend when a key is configured,
// otherwise falls back to SMTP.
func (s *Sender) Send(msg Message) error {
	if !s.cfg.MailEnabled() {
		return nil
	}
	if strings.TrimSpace(s.cfg.ResendKey) != "" {
		return s.sendResend(msg)
	}
	return s.sendSMTP(msg)
}

func (s *Sender) sendSMTP(msg Message) error {
	host := s.cfg.SMTP.Host
	port := s.cfg.SMTP.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	from := s.cfg.From
	if from == "" {
		from = s.cfg.SMTP.User
	}

	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString(fmt.Sprintf("From: %s\r\n", from))
	body.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	if s.cfg.ReplyTo != "" {
		body.WriteString(fmt.Sprintf("Reply-To: %s\r\n", s.cfg.ReplyTo))
	}
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)

	auth := smtp.PlainAuth("", s.cfg.SMTP.User, s.cfg.SMTP.Pass, host)
	return smtp.SendMail(addr, auth, from, msg.To, body.Bytes())
}

func (s *Sender) sendResend(msg Message) error {
	payload, _ := json.Marshal(map[string]interface{}{
		"from":    s.cfg.From,
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
	})

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.ResendKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("resend error %d: %s", resp.StatusCode, errResp.Message)
	}
	return nil
}

// SendWelcome sends the subscription confirmation email with an
// unsubscribe link.
func (s *Sender) SendWelcome(to string, data WelcomeData) error {
	if strings.TrimSpace(data.SiteName) == "" {
		data.SiteName = s.cfg.SiteName
	}
	html, err := renderTemplate(welcomeTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Welcome to the %s newsletter!", data.SiteName),
		HTML:    html,
	})
}

// SendNewPost sends a new-post notification to one subscriber.
func (s *Sender) SendNewPost(to string, data NewPostData) error {
	if strings.TrimSpace(data.SiteName) == "" {
		data.SiteName = s.cfg.SiteName
	}
	html, err := renderTemplate(newPostTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] New post: %s", data.SiteName, data.Title),
		HTML:    html,
	})
}

// SendContactNotify forwards a contact form submission to the site owner.
func (s *Sender) SendContactNotify(to string, data ContactNotifyData) error {
	if strings.TrimSpace(data.SiteName) == "" {
		data.SiteName = s.cfg.SiteName
	}
	html, err := renderTemplate(contactNotifyTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] New contact message from %s", data.SiteName, data.Name),
		HTML:    html,
	})
}

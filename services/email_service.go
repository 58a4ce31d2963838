package services

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
)

//go:embed templates/emails/*.html
var emailTemplates embed.FS

// CredentialsMailer delivers generated manager passwords.
type CredentialsMailer interface {
	SendManagerCredentials(to, managerName, teamName, password string) error
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// LoginURL is linked from outgoing emails when set.
	LoginURL string
}

func (c MailConfig) Enabled() bool {
	return c.Host != "" && c.Port > 0 && c.From != ""
}

type EmailService struct {
	cfg       MailConfig
	templates *template.Template
	send      func(to []string, subject, body string) error
}

func NewEmailService(cfg MailConfig) (*EmailService, error) {
	t, err := template.ParseFS(emailTemplates, "templates/emails/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	s := &EmailService{cfg: cfg, templates: t}
	s.send = s.SendEmail
	return s, nil
}

func (s *EmailService) SendEmail(to []string, subject string, body string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.From + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	tlsconfig := &tls.Config{ServerName: s.cfg.Host}

	var client *smtp.Client
	if s.cfg.Port == 465 {
		// implicit TLS
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("failed to open TLS connection: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.Host)
		if err != nil {
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
	} else {
		// STARTTLS, usually 587
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("STARTTLS failed: %w", err)
		}
	}
	defer client.Quit()

	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("RCPT TO failed: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA failed: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close DATA: %w", err)
	}
	return nil
}

func (s *EmailService) GenerateEmailBody(templateName string, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", templateName, err)
	}
	return body.String(), nil
}

func (s *EmailService) SendManagerCredentials(to, managerName, teamName, password string) error {
	subject := fmt.Sprintf("Your manager account for %s", teamName)
	data := struct {
		ManagerName string
		TeamName    string
		Email       string
		Password    string
		LoginURL    string
	}{
		ManagerName: managerName,
		TeamName:    teamName,
		Email:       to,
		Password:    password,
		LoginURL:    s.cfg.LoginURL,
	}

	htmlBody, err := s.GenerateEmailBody("manager_credentials.html", data)
	if err != nil {
		return err
	}
	return s.send([]string{to}, subject, htmlBody)
}

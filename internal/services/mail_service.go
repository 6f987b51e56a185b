package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/swapify/swapify-backend/internal/config"
)

type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}

var resetTemplate = template.Must(template.New("reset").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #e0e0e0; border-radius: 5px;">
  <h2 style="color: #4338ca; text-align: center;">Password Reset Request</h2>
  <p>Hello,</p>
  <p>We received a request to reset the password of your Swapify account. Use the button below to choose a new one:</p>
  <p style="text-align: center;">
    <a href="{{.Link}}" style="display: inline-block; background-color: #4338ca; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; font-weight: bold;">Reset Password</a>
  </p>
  <p>If you did not ask for this you can ignore this email. The link expires in 1 hour.</p>
  <p>Thank you,<br>The Swapify Team</p>
  <p style="margin-top: 20px; font-size: 12px; color: #666; text-align: center;">This is an automated message, please do not reply.</p>
</div>`))

// SMTPMailer sends mail over implicit TLS on port 465 and STARTTLS otherwise.
type SMTPMailer struct {
	host     string
	port     int
	user     string
	pass     string
	from     string
	fromName string
	timeout  time.Duration
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	from := cfg.MailFrom
	if from == "" {
		from = cfg.EmailUser
	}
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.EmailUser,
		pass:     cfg.EmailPass,
		from:     from,
		fromName: "Swapify Team",
		timeout:  cfg.HTTPTimeout,
	}
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	var body bytes.Buffer
	if err := resetTemplate.Execute(&body, map[string]string{"Link": link}); err != nil {
		return fmt.Errorf("render reset mail: %w", err)
	}
	return m.send(ctx, to, "Reset Your Swapify Password", body.String())
}

func buildMessage(fromHeader, to, subject, html string) []byte {
	return []byte(strings.Join([]string{
		"From: " + fromHeader,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		html,
	}, "\r\n"))
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, html string) error {
	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))
	dialer := &net.Dialer{Timeout: m.timeout}

	var (
		conn net.Conn
		err  error
	)
	if m.port == 465 {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: m.host})
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}
	deadline := time.Now().Add(m.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer func() { _ = c.Quit() }()

	if m.port != 465 {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}
	if m.user != "" {
		if err := c.Auth(smtp.PlainAuth("", m.user, m.pass, m.host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := c.Mail(m.from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	msg := buildMessage(fmt.Sprintf("%s <%s>", m.fromName, m.from), to, subject, html)
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

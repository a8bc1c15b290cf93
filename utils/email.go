package utils

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html/template"
	"log"
	"mime"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

// SMTPConfig holds the transport settings for outgoing mail.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SendResult is the outcome of one delivery attempt. Response carries the
// server diagnostic (or transport error text) when Success is false.
type SendResult struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Err      error  `json:"-"`
}

// Mailer delivers a single HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) SendResult
}

type SMTPMailer struct {
	cfg         SMTPConfig
	dialTimeout time.Duration
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.Port == 0 {
		cfg.Port = 465
	}
	return &SMTPMailer{cfg: cfg, dialTimeout: 10 * time.Second}
}

func (m *SMTPMailer) sender() string {
	if m.cfg.From != "" {
		return m.cfg.From
	}
	return m.cfg.Username
}

// Send never returns an error; callers inspect the result.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, html string) SendResult {
	to = strings.TrimSpace(to)
	if to == "" {
		err := errors.New("recipient is required")
		return SendResult{Response: err.Error(), Err: err}
	}

	msg := BuildMessage(m.sender(), to, subject, html)
	if err := m.deliver(ctx, to, msg); err != nil {
		log.Printf("[MAIL] [ERROR] sending %q to %s failed: %v", subject, to, err)
		return SendResult{Response: smtpDiagnostic(err), Err: err}
	}

	log.Printf("[MAIL] sent %q to %s", subject, to)
	return SendResult{Success: true, Response: "250 accepted by " + m.cfg.Host}
}

func (m *SMTPMailer) deliver(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	dialer := &net.Dialer{Timeout: m.dialTimeout}
	implicitTLS := m.cfg.Port == 465

	var (
		conn net.Conn
		err  error
	)
	if implicitTLS {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: m.cfg.Host}}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if !implicitTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}
	if m.cfg.Username != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
			if err := client.Auth(auth); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}

	if err := client.Mail(m.sender()); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

// BuildMessage renders an RFC 5322 message with an HTML body.
func BuildMessage(from, to, subject, html string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: NunesAuto <%s>\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	b.WriteString("\r\n")
	return b.Bytes()
}

func smtpDiagnostic(err error) string {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return fmt.Sprintf("%d %s", protoErr.Code, protoErr.Msg)
	}
	return err.Error()
}

// OrderConfirmationHTML renders the body of the checkout confirmation email.
func OrderConfirmationHTML(name, reference string, total float64) string {
	if name == "" {
		name = "customer"
	}
	return fmt.Sprintf(`<h2>Thank you for your order, %s!</h2>
<p>Your order <strong>%s</strong> has been received.</p>
<p>Total (incl. VAT): <strong>R %.2f</strong></p>
<p>NunesAuto</p>`, template.HTMLEscapeString(name), template.HTMLEscapeString(reference), total)
}

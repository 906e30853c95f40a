package services

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/collabity/collabity-api/config"
)

// Mailer delivers report emails; the SMTP implementation below is swapped
// out in tests.
type Mailer interface {
	SendReport(toEmail, recipientName string, pdf []byte) error
}

// EmailService sends emails via SMTP with STARTTLS
type EmailService struct {
	host        string
	port        int
	username    string
	password    string
	from        string
	dialTimeout time.Duration
}

// NewEmailService creates a new email service instance
func NewEmailService(env *config.EnviornmentVariable) *EmailService {
	host := env.SMTP_HOST
	if host == "" {
		host = "smtp.gmail.com"
	}

	from := env.SMTP_FROM
	if from == "" {
		from = "reports@collabity.com"
	}

	return &EmailService{
		host:        host,
		port:        env.SMTP_PORT,
		username:    env.SMTP_USER,
		password:    env.SMTP_PASS,
		from:        from,
		dialTimeout: 10 * time.Second,
	}
}

// IsConfigured checks if SMTP is properly configured
func (e *EmailService) IsConfigured() bool {
	return e.username != "" && e.password != ""
}

// SendReport emails the daily faculty report with the PDF attached
func (e *EmailService) SendReport(toEmail, recipientName string, pdf []byte) error {
	if !e.IsConfigured() {
		return fmt.Errorf("SMTP not configured")
	}

	filename := fmt.Sprintf("report_%s.pdf", strings.ReplaceAll(recipientName, " ", "_"))
	body := "Attached is your daily faculty report."
	message := e.buildMessage(toEmail, "Your Daily Faculty Report", body, filename, pdf)

	return e.send(toEmail, message)
}

// buildMessage assembles a multipart MIME message with one PDF attachment
func (e *EmailService) buildMessage(to, subject, textBody, filename string, attachment []byte) []byte {
	const boundary = "collabity-report-boundary"

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: Collabity Reports <%s>\r\n", e.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%q\r\n", boundary)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	msg.WriteString(textBody)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: application/pdf\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&msg, "Content-Disposition: attachment; filename=%q\r\n\r\n", filename)

	encoded := base64.StdEncoding.EncodeToString(attachment)
	// RFC 2045 line length limit
	for len(encoded) > 76 {
		msg.WriteString(encoded[:76])
		msg.WriteString("\r\n")
		encoded = encoded[76:]
	}
	msg.WriteString(encoded)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s--\r\n", boundary)
	return msg.Bytes()
}

// send delivers a prepared message over SMTP with STARTTLS
func (e *EmailService) send(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", e.host, e.port)

	netConn, err := net.DialTimeout("tcp", addr, e.dialTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}

	conn, err := smtp.NewClient(netConn, e.host)
	if err != nil {
		netConn.Close()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer conn.Close()

	tlsConfig := &tls.Config{
		ServerName: e.host,
	}
	if err := conn.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", e.username, e.password, e.host)
	if err := conn.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := conn.Mail(e.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write(message); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	conn.Quit()

	log.Printf("Report email sent successfully to: %s", to)
	return nil
}

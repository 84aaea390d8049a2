package email

import (
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"os"
	"strings"
	"sync"
	"time"

	apperrors "github.com/mm-booking-services/common/errors"
)

// Config holds SMTP mail configuration
type Config struct {
	SMTPHost string
	SMTPPort string
	Username string
	Password string
	From     string
	FromName string
}

// maxMessagesPerConn bounds how many messages a single SMTP
// connection carries before the service redials.
const maxMessagesPerConn = 5

// DefaultConfig returns email config from environment variables
func DefaultConfig() *Config {
	return &Config{
		SMTPHost: getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort: getEnv("SMTP_PORT", "587"),
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "noreply@musicmattersbookings.com"),
		FromName: getEnv("SMTP_FROM_NAME", "Music Matters Bookings"),
	}
}

// Attachment is a file carried inline with a message.
type Attachment struct {
	Filename string
	Content  []byte
	MIMEType string
}

// Message is a fully addressed outbound email.
type Message struct {
	To          []string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Service sends email over a single pooled SMTP connection. At most
// one message is in flight at a time, and the connection is recycled
// after maxMessagesPerConn sends.
type Service struct {
	config  *Config
	devMode bool

	mu         sync.Mutex
	client     *smtp.Client
	sentOnConn int
}

// NewService creates a new email service
func NewService() *Service {
	config := DefaultConfig()
	devMode := config.Username == "" || config.Password == ""

	return &Service{
		config:  config,
		devMode: devMode,
	}
}

// NewServiceWithConfig creates an email service with custom config
func NewServiceWithConfig(config *Config) *Service {
	devMode := config.Username == "" || config.Password == ""
	return &Service{
		config:  config,
		devMode: devMode,
	}
}

// Send delivers a single message, dialing a connection if none is
// open.
func (s *Service) Send(msg Message) error {
	if len(msg.To) == 0 {
		return apperrors.New(apperrors.ErrCodeEmailDelivery, "message has no recipients")
	}

	if s.devMode {
		fmt.Printf("[DEV MODE] Email to %s: %s\n", strings.Join(msg.To, ", "), msg.Subject)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureClient(); err != nil {
		return apperrors.EmailError(err).WithDetails("failed to connect to mail server")
	}

	if err := s.transmit(msg); err != nil {
		// A half-failed connection is not reusable.
		s.closeClientLocked()
		return apperrors.EmailError(err)
	}

	s.sentOnConn++
	if s.sentOnConn >= maxMessagesPerConn {
		s.closeClientLocked()
	}
	return nil
}

// Close shuts down any open SMTP connection.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeClientLocked()
}

func (s *Service) ensureClient() error {
	if s.client != nil {
		// Probe the idle connection before reusing it.
		if err := s.client.Noop(); err == nil {
			return nil
		}
		s.closeClientLocked()
	}

	addr := s.config.SMTPHost + ":" + s.config.SMTPPort
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{ServerName: s.config.SMTPHost}
		if err := client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return err
		}
	}

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPHost)
	if err := client.Auth(auth); err != nil {
		client.Close()
		return err
	}

	s.client = client
	s.sentOnConn = 0
	return nil
}

func (s *Service) transmit(msg Message) error {
	if err := s.client.Mail(s.config.From); err != nil {
		return err
	}
	for _, rcpt := range msg.To {
		if err := s.client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := s.client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(s.buildMIME(msg)); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (s *Service) closeClientLocked() {
	if s.client != nil {
		s.client.Quit()
		s.client = nil
	}
	s.sentOnConn = 0
}

// buildMIME assembles a multipart message with a plain-text body and
// optional attachments.
func (s *Service) buildMIME(msg Message) []byte {
	boundary := fmt.Sprintf("boundary-%d", time.Now().UnixNano())

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%s\r\n", boundary))
	sb.WriteString("\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(msg.Body)
	sb.WriteString("\r\n")

	for _, att := range msg.Attachments {
		mimeType := att.MIMEType
		if mimeType == "" {
			mimeType = "application/pdf"
		}
		sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		sb.WriteString(fmt.Sprintf("Content-Type: %s; name=\"%s\"\r\n", mimeType, att.Filename))
		sb.WriteString("Content-Transfer-Encoding: base64\r\n")
		sb.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=\"%s\"\r\n", att.Filename))
		sb.WriteString("\r\n")

		encoded := base64.StdEncoding.EncodeToString(att.Content)
		// Wrap base64 at 76 characters per RFC 2045.
		for i := 0; i < len(encoded); i += 76 {
			end := i + 76
			if end > len(encoded) {
				end = len(encoded)
			}
			sb.WriteString(encoded[i:end])
			sb.WriteString("\r\n")
		}
	}

	sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return []byte(sb.String())
}

// ConfirmationData carries the fields for an artist confirmation email.
type ConfirmationData struct {
	ClientEmail string
	StageName   string
	VenueName   string
	EventDate   string // MM/DD/YYYY
	StartTime   string // h:mm AM/PM
	PDF         []byte
	Filename    string
}

// InvoiceData carries the fields for a venue invoice email.
type InvoiceData struct {
	VenueEmails []string
	VenueName   string
	StageName   string
	EventDate   string
	PDF         []byte
	Filename    string
}

// MonthlyData carries the fields for a booking list or calendar email.
type MonthlyData struct {
	VenueEmails []string
	VenueName   string
	MonthName   string // e.g. "March 2026"
	PDF         []byte
	Filename    string
}

// SendArtistConfirmation emails a performance confirmation to the artist.
func (s *Service) SendArtistConfirmation(data ConfirmationData) error {
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"Attached is the confirmation for your performance at %s on %s at %s.\r\n"+
			"Please look it over and reach out if anything needs to change.\r\n\r\n"+
			"Thank you,\r\nMusic Matters Bookings",
		data.StageName, data.VenueName, data.EventDate, data.StartTime)

	return s.Send(Message{
		To:      []string{data.ClientEmail},
		Subject: fmt.Sprintf("%s - Artist Confirmation", data.VenueName),
		Body:    body,
		Attachments: []Attachment{
			{Filename: data.Filename, Content: data.PDF},
		},
	})
}

// SendInvoice emails a performance invoice to the venue contacts.
func (s *Service) SendInvoice(data InvoiceData) error {
	body := fmt.Sprintf(
		"Hello,\r\n\r\n"+
			"Attached is the invoice for %s's performance at %s on %s.\r\n\r\n"+
			"Thank you,\r\nMusic Matters Bookings",
		data.StageName, data.VenueName, data.EventDate)

	return s.Send(Message{
		To:      data.VenueEmails,
		Subject: fmt.Sprintf("%s - Invoice - %s", data.StageName, data.EventDate),
		Body:    body,
		Attachments: []Attachment{
			{Filename: data.Filename, Content: data.PDF},
		},
	})
}

// SendBookingList emails the monthly booking list to the venue contacts.
func (s *Service) SendBookingList(data MonthlyData) error {
	body := fmt.Sprintf(
		"Hello,\r\n\r\n"+
			"Attached is the booking list for %s at %s.\r\n\r\n"+
			"Thank you,\r\nMusic Matters Bookings",
		data.MonthName, data.VenueName)

	return s.Send(Message{
		To:      data.VenueEmails,
		Subject: fmt.Sprintf("%s - Booking List - %s", data.VenueName, data.MonthName),
		Body:    body,
		Attachments: []Attachment{
			{Filename: data.Filename, Content: data.PDF},
		},
	})
}

// SendCalendar emails the monthly booking calendar to the venue contacts.
func (s *Service) SendCalendar(data MonthlyData) error {
	body := fmt.Sprintf(
		"Hello,\r\n\r\n"+
			"Attached is the booking calendar for %s at %s.\r\n\r\n"+
			"Thank you,\r\nMusic Matters Bookings",
		data.MonthName, data.VenueName)

	return s.Send(Message{
		To:      data.VenueEmails,
		Subject: fmt.Sprintf("%s - Booking Calendar - %s", data.VenueName, data.MonthName),
		Body:    body,
		Attachments: []Attachment{
			{Filename: data.Filename, Content: data.PDF},
		},
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package services

import (
	"fmt"
	"os"
	"strconv"

	"github.com/restobook/restobook/models"
	"github.com/restobook/restobook/utils"
	"gopkg.in/gomail.v2"
)

// Mailer sends reservation emails over SMTP. Sending is async and
// best-effort: a mail failure must never break the booking flow.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	enabled  bool
}

// NewMailerFromEnv builds a mailer from SMTP_* environment variables. With
// no SMTP_HOST configured the mailer is disabled and every send is a no-op.
func NewMailerFromEnv() *Mailer {
	host := os.Getenv("SMTP_HOST")
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return &Mailer{
		host:     host,
		port:     port,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     os.Getenv("SMTP_FROM"),
		enabled:  host != "",
	}
}

// SendReservationConfirmed emails the registered booker that an admin has
// confirmed their reservation.
func (m *Mailer) SendReservationConfirmed(toEmail string, r *models.Reservation) {
	if m == nil || !m.enabled || toEmail == "" {
		return
	}

	body := fmt.Sprintf(
		"<p>Your reservation for %d guests on %s has been confirmed.</p><p>Table %s is reserved for you.</p>",
		r.PartySize,
		r.ReservationDate.Format("Jan 02, 2006 at 15:04"),
		r.Table.TableNumber,
	)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", fmt.Sprintf("Reservation #%d confirmed", r.ID))
	msg.SetBody("text/html", body)

	go func() {
		dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)
		if err := dialer.DialAndSend(msg); err != nil {
			utils.ErrorLogger.Printf("Failed to send confirmation email to %s: %v", toEmail, err)
		}
	}()
}

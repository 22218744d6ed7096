package mailer

import (
	"github.com/diagnosis/clinic-bookings/pkg/logger"
)

// DevMailer logs mail instead of sending it.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	logger.Info("[DEV MAIL]",
		"to", toEmail,
		"name", toName,
		"subject", subject,
		"text", text,
	)
	return "dev", nil
}

func (d *DevMailer) SendBookingConfirmation(email, patient, treatment, date, slot string) error {
	logger.Info("[DEV MAIL] Booking Confirmation",
		"to", email,
		"patient", patient,
		"treatment", treatment,
		"date", date,
		"slot", slot,
	)
	return nil
}

var _ Service = (*DevMailer)(nil)

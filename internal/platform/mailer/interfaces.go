package mailer

type Service interface {
	Send(toEmail, toName, subject, text, html string) (string, error)
	SendBookingConfirmation(email, patient, treatment, date, slot string) error
}

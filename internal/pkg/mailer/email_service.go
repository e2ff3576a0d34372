package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendAppointmentRequested(toEmail, listingTitle string, visitAt time.Time) error
	SendAppointmentStatus(toEmail, listingTitle, status string, visitAt time.Time) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendAppointmentRequested(toEmail, listingTitle string, visitAt time.Time) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "New Viewing Request")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>New Viewing Request</h2>
			<p>Someone requested a viewing for your listing:</p>
			<p><strong>%s</strong></p>
			<p>Requested time: %s</p>
			<p>Log in to confirm or decline the appointment.</p>
		</div>
	`, listingTitle, visitAt.Format("Mon, 02 Jan 2006 15:04"))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send viewing request to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Viewing request sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendAppointmentStatus(toEmail, listingTitle, status string, visitAt time.Time) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Viewing %s", status))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Viewing %s</h2>
			<p>Your viewing for <strong>%s</strong> at %s is now <strong>%s</strong>.</p>
		</div>
	`, status, listingTitle, visitAt.Format("Mon, 02 Jan 2006 15:04"), status)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send viewing status to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Viewing status sent to %s\n", toEmail)
	return nil
}

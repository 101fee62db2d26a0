package email

import (
	"context"
	"fmt"

	"github.com/akimenko/airtech/config"
	"github.com/akimenko/airtech/internal/kafka"
	"gopkg.in/gomail.v2"
)

const (
	confirmationSubject = "Ticket Details for Trip: %s to %s"
	confirmationBody    = "Thank you for choosing to fly with us. Here are the details for your flight: " +
		"Departure Time: %s, Departure City: %s, Departure Date: %s, " +
		"Arrival Time: %s, Arrival City: %s, Arrival Date: %s"
	reminderSubject = "Reminder for your flight to %s leaving tomorrow"
	reminderBody    = "Your flight to %s leaves tomorrow at %s. Here are the details: " +
		"Departure Time: %s, Departure City: %s, Departure Date: %s, " +
		"Arrival Time: %s, Arrival City: %s, Arrival Date: %s"
)

type Sender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSender(cfg config.SMTPConfig) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send composes and delivers the message for a ticket event. Called from the
// worker only; delivery failures never reach the request path.
func (s *Sender) Send(ctx context.Context, event kafka.TicketEvent) error {
	var subject, body string
	switch event.Type {
	case kafka.EventFlightReminder:
		subject = fmt.Sprintf(reminderSubject, event.ArrivalCity)
		body = fmt.Sprintf(reminderBody,
			event.ArrivalCity, event.DepartureTime,
			event.DepartureTime, event.DepartureCity, event.DepartureDate,
			event.ArrivalTime, event.ArrivalCity, event.ArrivalDate)
	default:
		subject = fmt.Sprintf(confirmationSubject, event.DepartureCity, event.ArrivalCity)
		body = fmt.Sprintf(confirmationBody,
			event.DepartureTime, event.DepartureCity, event.DepartureDate,
			event.ArrivalTime, event.ArrivalCity, event.ArrivalDate)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", event.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", event.Email, err)
	}
	return nil
}

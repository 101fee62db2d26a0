package tickets

import (
	"context"
	"errors"
	"time"

	"github.com/akimenko/airtech/internal/domain"
	"github.com/akimenko/airtech/internal/kafka"
	"github.com/akimenko/airtech/internal/repository"
	"github.com/akimenko/airtech/pkg/apperrors"
	"github.com/akimenko/airtech/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TicketUseCase is the ledger: tickets are accounting records, so creation
// performs no seat-capacity check and concurrent purchases against the same
// flight are not serialized.
type TicketUseCase interface {
	Create(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error)
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	Update(ctx context.Context, id int64, input UpdateTicketInput) (*domain.Ticket, error)
	Delete(ctx context.Context, id int64) error
	CountReservations(ctx context.Context, flightNumber string, day int) (int, error)
	RemindDepartures(ctx context.Context, date time.Time) (int, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateTicketInput struct {
	FlightID int64               `json:"flight_details"`
	OwnerID  int64               `json:"owner"`
	Status   domain.TicketStatus `json:"ticket_status"`
}

type UpdateTicketInput struct {
	FlightID int64               `json:"flight_details"`
	OwnerID  int64               `json:"owner"`
	Status   domain.TicketStatus `json:"ticket_status"`
}

type TicketService struct {
	tickets            repository.TicketRepository
	flights            repository.FlightRepository
	users              repository.UserRepository
	producer           Producer
	notificationsTopic string
}

func NewTicketService(
	tickets repository.TicketRepository,
	flights repository.FlightRepository,
	users repository.UserRepository,
	producer Producer,
	notificationsTopic string,
) *TicketService {
	return &TicketService{
		tickets:            tickets,
		flights:            flights,
		users:              users,
		producer:           producer,
		notificationsTopic: notificationsTopic,
	}
}

// Create validates the references, persists the ticket and enqueues one
// confirmation event. The event carries a snapshot of the flight taken now:
// the worker must not re-read the flight, or a schedule update could race
// the email. A failed publish is logged and never rolls the ticket back.
func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error) {
	if !input.Status.Valid() {
		return nil, apperrors.ErrInvalidTicketStatus
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	owner, err := s.users.GetByID(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Reference: uuid.NewString(),
		FlightID:  flight.ID,
		OwnerID:   owner.ID,
		Status:    input.Status,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	event := snapshotEvent(kafka.EventTicketConfirmation, ticket.Reference, flight, owner.Email)
	if err := s.publish(ctx, event); err != nil {
		logger.WithComponent("tickets").Warn("publish ticket confirmation failed",
			zap.String("reference", ticket.Reference), zap.Error(err))
	}
	return ticket, nil
}

func (s *TicketService) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

func (s *TicketService) List(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.List(ctx)
}

func (s *TicketService) Update(ctx context.Context, id int64, input UpdateTicketInput) (*domain.Ticket, error) {
	if !input.Status.Valid() {
		return nil, apperrors.ErrInvalidTicketStatus
	}

	current, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current.FlightID = input.FlightID
	current.OwnerID = input.OwnerID
	current.Status = input.Status
	if err := s.tickets.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *TicketService) Delete(ctx context.Context, id int64) error {
	return s.tickets.Delete(ctx, id)
}

// CountReservations counts tickets for the flight whose creation timestamp
// falls on the given day of month. The match is on the day component only,
// as the reservations endpoint has always behaved.
func (s *TicketService) CountReservations(ctx context.Context, flightNumber string, day int) (int, error) {
	if flightNumber == "" {
		return 0, errors.New("flight number is required")
	}
	if day < 1 || day > 31 {
		return 0, errors.New("day must be between 1 and 31")
	}
	return s.tickets.CountByFlightNumberAndDay(ctx, flightNumber, day)
}

// RemindDepartures publishes a reminder event for every ticket on a flight
// departing on the given date. Returns the number of events published.
func (s *TicketService) RemindDepartures(ctx context.Context, date time.Time) (int, error) {
	departing, err := s.tickets.ListDepartingOn(ctx, date)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, d := range departing {
		event := snapshotEvent(kafka.EventFlightReminder, d.Ticket.Reference, &d.Flight, d.Email)
		if err := s.publish(ctx, event); err != nil {
			logger.WithComponent("tickets").Warn("publish flight reminder failed",
				zap.String("reference", d.Ticket.Reference), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *TicketService) publish(ctx context.Context, event kafka.TicketEvent) error {
	if s.producer == nil || s.notificationsTopic == "" {
		return nil
	}
	return s.producer.Publish(ctx, s.notificationsTopic, event.Reference, event)
}

func snapshotEvent(eventType, reference string, flight *domain.Flight, email string) kafka.TicketEvent {
	return kafka.TicketEvent{
		Type:          eventType,
		Reference:     reference,
		FlightNumber:  flight.FlightNumber,
		DepartureCity: flight.DepartureCity,
		DepartureDate: flight.DepartureDate.Format("2006-01-02"),
		DepartureTime: flight.DepartureTime,
		ArrivalCity:   flight.ArrivalCity,
		ArrivalDate:   flight.ArrivalDate.Format("2006-01-02"),
		ArrivalTime:   flight.ArrivalTime,
		Email:         email,
	}
}

var _ TicketUseCase = (*TicketService)(nil)

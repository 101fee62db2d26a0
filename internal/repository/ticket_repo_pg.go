package repository

import (
	"context"
	"errors"
	"time"

	"github.com/akimenko/airtech/internal/domain"
	"github.com/akimenko/airtech/pkg/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DepartingTicket pairs a ticket with the flight snapshot and owner email
// needed to compose a reminder message.
type DepartingTicket struct {
	Ticket domain.Ticket
	Flight domain.Flight
	Email  string
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id int64) error
	CountByFlightNumberAndDay(ctx context.Context, flightNumber string, day int) (int, error)
	ListDepartingOn(ctx context.Context, date time.Time) ([]DepartingTicket, error)
}

type PGTicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) TicketRepository {
	return &PGTicketRepository{db: db}
}

const ticketColumns = `id, reference, flight_id, owner_id, status, created_at, updated_at`

func scanTicket(row pgx.Row, t *domain.Ticket) error {
	return row.Scan(&t.ID, &t.Reference, &t.FlightID, &t.OwnerID, &t.Status, &t.CreatedAt, &t.UpdatedAt)
}

func (r *PGTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	return r.db.QueryRow(ctx, `INSERT INTO tickets (reference, flight_id, owner_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		ticket.Reference, ticket.FlightID, ticket.OwnerID, ticket.Status).
		Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *PGTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	row := r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id)
	var t domain.Ticket
	if err := scanTicket(row, &t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PGTicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		var t domain.Ticket
		if err := scanTicket(rows, &t); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// Update rewrites the mutable fields only. The reference and created_at are
// fixed at insert time.
func (r *PGTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	err := r.db.QueryRow(ctx, `UPDATE tickets SET flight_id=$1, owner_id=$2, status=$3, updated_at=now()
		WHERE id=$4
		RETURNING reference, created_at, updated_at`,
		ticket.FlightID, ticket.OwnerID, ticket.Status, ticket.ID).
		Scan(&ticket.Reference, &ticket.CreatedAt, &ticket.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrTicketNotFound
	}
	return err
}

func (r *PGTicketRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperrors.ErrTicketNotFound
	}
	return nil
}

// CountByFlightNumberAndDay matches the creation day-of-month literally:
// tickets created on the same day number in a different month are counted
// too. Callers rely on same-month usage.
func (r *PGTicketRepository) CountByFlightNumberAndDay(ctx context.Context, flightNumber string, day int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM tickets t
		JOIN flights f ON f.id = t.flight_id
		WHERE f.flight_number = $1 AND EXTRACT(DAY FROM t.created_at) = $2`,
		flightNumber, day).Scan(&count)
	return count, err
}

func (r *PGTicketRepository) ListDepartingOn(ctx context.Context, date time.Time) ([]DepartingTicket, error) {
	rows, err := r.db.Query(ctx, `SELECT t.id, t.reference, t.flight_id, t.owner_id, t.status, t.created_at, t.updated_at,
			f.id, f.flight_number, f.departure_city, f.departure_date, f.departure_time, f.arrival_city, f.arrival_date, f.arrival_time, f.gate, f.price_cents, f.status, f.created_at, f.updated_at,
			u.email
		FROM tickets t
		JOIN flights f ON f.id = t.flight_id
		JOIN users u ON u.id = t.owner_id
		WHERE f.departure_date = $1
		ORDER BY t.id`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departing := make([]DepartingTicket, 0)
	for rows.Next() {
		var d DepartingTicket
		if err := rows.Scan(
			&d.Ticket.ID, &d.Ticket.Reference, &d.Ticket.FlightID, &d.Ticket.OwnerID, &d.Ticket.Status, &d.Ticket.CreatedAt, &d.Ticket.UpdatedAt,
			&d.Flight.ID, &d.Flight.FlightNumber, &d.Flight.DepartureCity, &d.Flight.DepartureDate, &d.Flight.DepartureTime, &d.Flight.ArrivalCity, &d.Flight.ArrivalDate, &d.Flight.ArrivalTime, &d.Flight.Gate, &d.Flight.PriceCents, &d.Flight.Status, &d.Flight.CreatedAt, &d.Flight.UpdatedAt,
			&d.Email,
		); err != nil {
			return nil, err
		}
		departing = append(departing, d)
	}
	return departing, rows.Err()
}

var _ TicketRepository = (*PGTicketRepository)(nil)

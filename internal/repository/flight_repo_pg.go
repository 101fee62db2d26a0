package repository

import (
	"context"
	"errors"

	"github.com/akimenko/airtech/internal/domain"
	"github.com/akimenko/airtech/pkg/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	Create(ctx context.Context, flight *domain.Flight) error
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id int64) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, departure_city, departure_date, departure_time, arrival_city, arrival_date, arrival_time, gate, price_cents, status, created_at, updated_at`

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.ID, &f.FlightNumber, &f.DepartureCity, &f.DepartureDate, &f.DepartureTime, &f.ArrivalCity, &f.ArrivalDate, &f.ArrivalTime, &f.Gate, &f.PriceCents, &f.Status, &f.CreatedAt, &f.UpdatedAt)
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	err := r.db.QueryRow(ctx, `INSERT INTO flights (flight_number, departure_city, departure_date, departure_time, arrival_city, arrival_date, arrival_time, gate, price_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		flight.FlightNumber, flight.DepartureCity, flight.DepartureDate, flight.DepartureTime,
		flight.ArrivalCity, flight.ArrivalDate, flight.ArrivalTime, flight.Gate, flight.PriceCents, flight.Status).
		Scan(&flight.ID, &flight.CreatedAt, &flight.UpdatedAt)
	if isUniqueViolation(err, "flights_flight_number_key") {
		return apperrors.ErrFlightNumberTaken
	}
	return err
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	err := r.db.QueryRow(ctx, `UPDATE flights SET flight_number=$1, departure_city=$2, departure_date=$3, departure_time=$4, arrival_city=$5, arrival_date=$6, arrival_time=$7, gate=$8, price_cents=$9, status=$10, updated_at=now()
		WHERE id=$11
		RETURNING created_at, updated_at`,
		flight.FlightNumber, flight.DepartureCity, flight.DepartureDate, flight.DepartureTime,
		flight.ArrivalCity, flight.ArrivalDate, flight.ArrivalTime, flight.Gate, flight.PriceCents, flight.Status, flight.ID).
		Scan(&flight.CreatedAt, &flight.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrFlightNotFound
	}
	if isUniqueViolation(err, "flights_flight_number_key") {
		return apperrors.ErrFlightNumberTaken
	}
	return err
}

// Delete removes the flight and its tickets in one transaction. The schema
// carries ON DELETE CASCADE as well; deleting tickets explicitly keeps the
// cascade visible to callers that run against a plain test database.
func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM tickets WHERE flight_id=$1`, id); err != nil {
		return err
	}
	res, err := tx.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperrors.ErrFlightNotFound
	}
	return tx.Commit(ctx)
}

var _ FlightRepository = (*PGFlightRepository)(nil)

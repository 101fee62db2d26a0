package flights

import (
	"context"
	"errors"
	"time"

	"github.com/akimenko/airtech/internal/domain"
	"github.com/akimenko/airtech/internal/repository"
	"github.com/akimenko/airtech/pkg/apperrors"
)

type FlightUseCase interface {
	Create(ctx context.Context, input FlightInput) (*domain.Flight, error)
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Update(ctx context.Context, id int64, input FlightInput) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
	Status(ctx context.Context, id int64) (domain.FlightStatus, error)
}

// Cache holds the flight list between writes. Any write invalidates it.
type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type FlightInput struct {
	FlightNumber  string
	DepartureCity string
	DepartureDate time.Time
	DepartureTime string
	ArrivalCity   string
	ArrivalDate   time.Time
	ArrivalTime   string
	Gate          string
	PriceCents    int64
	Status        domain.FlightStatus
}

type FlightService struct {
	repo  repository.FlightRepository
	cache Cache
}

func NewFlightService(repo repository.FlightRepository, cache Cache) *FlightService {
	return &FlightService{repo: repo, cache: cache}
}

func (s *FlightService) Create(ctx context.Context, input FlightInput) (*domain.Flight, error) {
	flight, err := flightFromInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return flight, nil
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Update(ctx context.Context, id int64, input FlightInput) (*domain.Flight, error) {
	flight, err := flightFromInput(input)
	if err != nil {
		return nil, err
	}
	flight.ID = id
	if err := s.repo.Update(ctx, flight); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return flight, nil
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) Status(ctx context.Context, id int64) (domain.FlightStatus, error) {
	flight, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return flight.Status, nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
}

func flightFromInput(input FlightInput) (*domain.Flight, error) {
	if input.FlightNumber == "" {
		return nil, errors.New("flight number is required")
	}
	if input.DepartureCity == "" || input.ArrivalCity == "" {
		return nil, errors.New("departure and arrival city are required")
	}

	status := input.Status
	if status == "" {
		status = domain.FlightStatusOnTime
	}
	if !status.Valid() {
		return nil, apperrors.ErrInvalidFlightStatus
	}

	return &domain.Flight{
		FlightNumber:  input.FlightNumber,
		DepartureCity: input.DepartureCity,
		DepartureDate: input.DepartureDate,
		DepartureTime: input.DepartureTime,
		ArrivalCity:   input.ArrivalCity,
		ArrivalDate:   input.ArrivalDate,
		ArrivalTime:   input.ArrivalTime,
		Gate:          input.Gate,
		PriceCents:    input.PriceCents,
		Status:        status,
	}, nil
}

var _ FlightUseCase = (*FlightService)(nil)

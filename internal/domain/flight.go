package domain

import "time"

type FlightStatus string

const (
	FlightStatusBoarding FlightStatus = "BO"
	FlightStatusDelayed  FlightStatus = "DY"
	FlightStatusGoToGate FlightStatus = "GTG"
	FlightStatusOnTime   FlightStatus = "OT"
)

func (s FlightStatus) Valid() bool {
	switch s {
	case FlightStatusBoarding, FlightStatusDelayed, FlightStatusGoToGate, FlightStatusOnTime:
		return true
	}
	return false
}

type Flight struct {
	ID            int64
	FlightNumber  string
	DepartureCity string
	DepartureDate time.Time
	DepartureTime string
	ArrivalCity   string
	ArrivalDate   time.Time
	ArrivalTime   string
	Gate          string
	PriceCents    int64
	Status        FlightStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

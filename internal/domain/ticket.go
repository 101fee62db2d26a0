package domain

import "time"

type TicketStatus string

const (
	TicketStatusPurchased TicketStatus = "PD"
	TicketStatusReserved  TicketStatus = "RD"
)

func (s TicketStatus) Valid() bool {
	return s == TicketStatusPurchased || s == TicketStatusReserved
}

// Ticket is an accounting record linking a user to a flight. It is not a
// seat lock: nothing prevents more tickets than the plane has seats.
type Ticket struct {
	ID        int64
	Reference string
	FlightID  int64
	OwnerID   int64
	Status    TicketStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

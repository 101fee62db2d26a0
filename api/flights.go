package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/akimenko/airtech/internal/domain"
	"github.com/akimenko/airtech/internal/service/flights"
	"github.com/akimenko/airtech/internal/service/tickets"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
	ledger  tickets.TicketUseCase
}

type flightRequest struct {
	FlightNumber  string `json:"flight_number"`
	DepartureCity string `json:"departure_city"`
	DepartureDate string `json:"departure_date"`
	DepartureTime string `json:"departure_time"`
	ArrivalCity   string `json:"arrival_city"`
	ArrivalDate   string `json:"arrival_date"`
	ArrivalTime   string `json:"arrival_time"`
	Gate          string `json:"gate"`
	PriceCents    int64  `json:"price_cents"`
	Status        string `json:"status"`
}

type flightResponse struct {
	ID            int64  `json:"id"`
	FlightNumber  string `json:"flight_number"`
	DepartureCity string `json:"departure_city"`
	DepartureDate string `json:"departure_date"`
	DepartureTime string `json:"departure_time"`
	ArrivalCity   string `json:"arrival_city"`
	ArrivalDate   string `json:"arrival_date"`
	ArrivalTime   string `json:"arrival_time"`
	Gate          string `json:"gate"`
	PriceCents    int64  `json:"price_cents"`
	Status        string `json:"status"`
}

type reservationsRequest struct {
	FlightNumber string `json:"flight_number"`
	Date         string `json:"date"`
}

func NewFlightHandler(service flights.FlightUseCase, ledger tickets.TicketUseCase) *FlightHandler {
	return &FlightHandler{service: service, ledger: ledger}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.POST("/", h.create)
	router.POST("/reservations/", h.reservations)
	router.GET("/:id/", h.get)
	router.PUT("/:id/", h.update)
	router.DELETE("/:id/", h.delete)
	router.GET("/:id/status/", h.status)
}

func (h *FlightHandler) list(c *gin.Context) {
	flights, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]flightResponse, 0, len(flights))
	for i := range flights {
		resp = append(resp, toFlightResponse(&flights[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightHandler) create(c *gin.Context) {
	input, ok := bindFlightInput(c)
	if !ok {
		return
	}

	flight, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toFlightResponse(flight))
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}

	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(flight))
}

func (h *FlightHandler) update(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}
	input, ok := bindFlightInput(c)
	if !ok {
		return
	}

	flight, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(flight))
}

func (h *FlightHandler) delete(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FlightHandler) status(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}

	status, err := h.service.Status(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// reservations answers "how many tickets were taken on this flight on that
// day". The date supplies the day-of-month only; see the ledger contract.
func (h *FlightHandler) reservations(c *gin.Context) {
	var req reservationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	count, err := h.ledger.CountReservations(c.Request.Context(), req.FlightNumber, date.Day())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": count})
}

func flightID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func bindFlightInput(c *gin.Context) (flights.FlightInput, bool) {
	var req flightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return flights.FlightInput{}, false
	}

	departureDate, err := time.Parse(dateLayout, req.DepartureDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid departure_date"})
		return flights.FlightInput{}, false
	}
	arrivalDate, err := time.Parse(dateLayout, req.ArrivalDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid arrival_date"})
		return flights.FlightInput{}, false
	}

	return flights.FlightInput{
		FlightNumber:  req.FlightNumber,
		DepartureCity: req.DepartureCity,
		DepartureDate: departureDate,
		DepartureTime: req.DepartureTime,
		ArrivalCity:   req.ArrivalCity,
		ArrivalDate:   arrivalDate,
		ArrivalTime:   req.ArrivalTime,
		Gate:          req.Gate,
		PriceCents:    req.PriceCents,
		Status:        domain.FlightStatus(req.Status),
	}, true
}

func toFlightResponse(f *domain.Flight) flightResponse {
	return flightResponse{
		ID:            f.ID,
		FlightNumber:  f.FlightNumber,
		DepartureCity: f.DepartureCity,
		DepartureDate: f.DepartureDate.Format(dateLayout),
		DepartureTime: f.DepartureTime,
		ArrivalCity:   f.ArrivalCity,
		ArrivalDate:   f.ArrivalDate.Format(dateLayout),
		ArrivalTime:   f.ArrivalTime,
		Gate:          f.Gate,
		PriceCents:    f.PriceCents,
		Status:        string(f.Status),
	}
}

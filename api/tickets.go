package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/akimenko/airtech/internal/domain"
	"github.com/akimenko/airtech/internal/service/tickets"
	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	service tickets.TicketUseCase
}

type ticketRequest struct {
	FlightID int64  `json:"flight_details"`
	OwnerID  int64  `json:"owner"`
	Status   string `json:"ticket_status"`
}

type ticketResponse struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`
	FlightID  int64  `json:"flight_details"`
	OwnerID   int64  `json:"owner"`
	Status    string `json:"ticket_status"`
	CreatedAt string `json:"created_at"`
}

func NewTicketHandler(service tickets.TicketUseCase) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.POST("/", h.create)
	router.GET("/:id/", h.get)
	router.PUT("/:id/", h.update)
	router.DELETE("/:id/", h.delete)
}

func (h *TicketHandler) list(c *gin.Context) {
	tickets, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]ticketResponse, 0, len(tickets))
	for i := range tickets {
		resp = append(resp, toTicketResponse(&tickets[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TicketHandler) create(c *gin.Context) {
	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.service.Create(c.Request.Context(), tickets.CreateTicketInput{
		FlightID: req.FlightID,
		OwnerID:  req.OwnerID,
		Status:   domain.TicketStatus(req.Status),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTicketResponse(ticket))
}

func (h *TicketHandler) get(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	ticket, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(ticket))
}

func (h *TicketHandler) update(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.service.Update(c.Request.Context(), id, tickets.UpdateTicketInput{
		FlightID: req.FlightID,
		OwnerID:  req.OwnerID,
		Status:   domain.TicketStatus(req.Status),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(ticket))
}

func (h *TicketHandler) delete(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func ticketID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func toTicketResponse(t *domain.Ticket) ticketResponse {
	return ticketResponse{
		ID:        t.ID,
		Reference: t.Reference,
		FlightID:  t.FlightID,
		OwnerID:   t.OwnerID,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}

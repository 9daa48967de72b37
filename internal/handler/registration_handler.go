package handler

import (
	"net/http"

	"campus-events/internal/middleware"
	"campus-events/internal/model"
	"campus-events/internal/service"

	"github.com/gin-gonic/gin"
)

type RegistrationHandler struct {
	service service.RegistrationService
}

func NewRegistrationHandler(service service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

func (h *RegistrationHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("events/:uuid/registrations", h.Register)
		router.GET("events/:uuid/attendees", h.Attendees)
		router.GET("events/:uuid/attendees/export", h.ExportAttendees)
	}
}

func (h *RegistrationHandler) Register(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	reg, err := h.service.Register(c, middleware.CurrentUser(c), eventID)
	if err != nil {
		handleError(c, err, "Register")
		return
	}
	c.JSON(http.StatusCreated, reg.ToResponse())
}

// AttendeesResponse 主辦方查看的報名名單
type AttendeesResponse struct {
	Event     *model.Event          `json:"event"`
	Attendees []*model.Registration `json:"attendees"`
}

func (h *RegistrationHandler) Attendees(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	event, regs, err := h.service.Attendees(c, middleware.CurrentUser(c), eventID)
	if err != nil {
		handleError(c, err, "Attendees")
		return
	}
	c.JSON(http.StatusOK, AttendeesResponse{Event: event, Attendees: regs})
}

func (h *RegistrationHandler) ExportAttendees(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	filename, body, err := h.service.ExportAttendees(c, middleware.CurrentUser(c), eventID)
	if err != nil {
		handleError(c, err, "ExportAttendees")
		return
	}
	sendCSV(c, filename, body)
}

package handler

import (
	"net/http"

	"campus-events/internal/middleware"
	"campus-events/internal/service"
	apperrors "campus-events/pkg/app_errors"

	"github.com/gin-gonic/gin"
)

// MeHandler 目前登入使用者的相關資料
type MeHandler struct {
	events        service.EventService
	registrations service.RegistrationService
	preferences   service.PreferenceService
}

func NewMeHandler(events service.EventService, registrations service.RegistrationService, preferences service.PreferenceService) *MeHandler {
	return &MeHandler{
		events:        events,
		registrations: registrations,
		preferences:   preferences,
	}
}

func (h *MeHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1/me")
	{
		router.GET("", h.Me)
		router.GET("events", h.MyEvents)
		router.GET("registrations", h.MyRegistrations)
		router.GET("tickets", h.MyTickets)
		router.GET("tickets/export", h.ExportTickets)
		router.GET("interests", h.Interests)
		router.PUT("interests", h.SetInterests)
		router.POST("interests/toggle", h.ToggleInterest)
	}
}

// SetInterestsRequest 整批替換興趣標籤
type SetInterestsRequest struct {
	Tags []string `json:"tags"`
}

// ToggleInterestRequest 切換單一標籤
type ToggleInterestRequest struct {
	Tag string `json:"tag" binding:"required"`
}

func (h *MeHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		handleError(c, apperrors.ErrAuthRequired, "Me")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *MeHandler) MyEvents(c *gin.Context) {
	events, err := h.events.ListMine(c, middleware.CurrentUser(c))
	if err != nil {
		handleError(c, err, "MyEvents")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *MeHandler) MyRegistrations(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		handleError(c, apperrors.ErrAuthRequired, "MyRegistrations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"event_ids": h.registrations.RegisteredEventIDs(c, user)})
}

func (h *MeHandler) MyTickets(c *gin.Context) {
	tickets, err := h.registrations.Tickets(c, middleware.CurrentUser(c))
	if err != nil {
		handleError(c, err, "MyTickets")
		return
	}
	c.JSON(http.StatusOK, tickets)
}

func (h *MeHandler) ExportTickets(c *gin.Context) {
	filename, body, err := h.registrations.ExportTickets(c, middleware.CurrentUser(c))
	if err != nil {
		handleError(c, err, "ExportTickets")
		return
	}
	sendCSV(c, filename, body)
}

func (h *MeHandler) Interests(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		handleError(c, apperrors.ErrAuthRequired, "Interests")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": h.preferences.Interests(c, user)})
}

func (h *MeHandler) SetInterests(c *gin.Context) {
	var req SetInterestsRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	tags, err := h.preferences.Set(c, middleware.CurrentUser(c), req.Tags)
	if err != nil {
		handleError(c, err, "SetInterests")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (h *MeHandler) ToggleInterest(c *gin.Context) {
	var req ToggleInterestRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	tags, err := h.preferences.Toggle(c, middleware.CurrentUser(c), req.Tag)
	if err != nil {
		handleError(c, err, "ToggleInterest")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

package handler

import (
	"io"
	"net/http"

	"campus-events/internal/discovery"
	"campus-events/internal/middleware"
	"campus-events/internal/model"
	"campus-events/internal/service"
	"campus-events/internal/session"
	apperrors "campus-events/pkg/app_errors"

	"github.com/gin-gonic/gin"
)

// SessionFactory 每條即時連線建立自己的 session
type SessionFactory func() *session.Controller

type EventHandler struct {
	events      service.EventService
	preferences service.PreferenceService
	sessions    SessionFactory
}

func NewEventHandler(events service.EventService, preferences service.PreferenceService, sessions SessionFactory) *EventHandler {
	return &EventHandler{
		events:      events,
		preferences: preferences,
		sessions:    sessions,
	}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("tags", h.Tags)
		router.GET("events", h.List)
		router.GET("events/live", h.Live)
		router.GET("events/:uuid", h.Get)
		router.POST("events", h.Create)
		router.DELETE("events/:uuid", h.Delete)
	}
}

// DiscoverQuery 探索頁查詢參數，tags 為逗號分隔
type DiscoverQuery struct {
	Tags   string `form:"tags"`
	Search string `form:"q"`
	All    bool   `form:"all"`
}

// selection 沒有帶 tags 參數時使用使用者的興趣標籤
func (h *EventHandler) selection(c *gin.Context, user *model.User) (session.Selection, error) {
	var q DiscoverQuery
	if err := BindQuery(c, &q); err != nil {
		return session.Selection{}, err
	}
	sel := session.Selection{Search: q.Search, All: q.All}
	if _, ok := c.GetQuery("tags"); ok {
		sel.Tags = model.ParseTags(q.Tags)
	} else {
		sel.Tags = h.preferences.Interests(c, user)
	}
	return sel, nil
}

func (h *EventHandler) Tags(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tags": model.DefaultTags})
}

func (h *EventHandler) List(c *gin.Context) {
	sel, err := h.selection(c, middleware.CurrentUser(c))
	if err != nil {
		return
	}

	criteria := discovery.Criteria{Tags: sel.Tags, Search: sel.Search}
	if sel.All {
		criteria.Tags = nil
	}

	events, err := h.events.Discover(c, criteria)
	if err != nil {
		handleError(c, err, "List")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) Get(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	event, err := h.events.Get(c, eventID)
	if err != nil {
		handleError(c, err, "Get")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Create(c *gin.Context) {
	var draft model.EventDraft
	if err := BindJson(c, &draft); err != nil {
		return
	}
	created, err := h.events.Create(c, middleware.CurrentUser(c), draft)
	if err != nil {
		handleError(c, err, "Create")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *EventHandler) Delete(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	if err := h.events.Delete(c, middleware.CurrentUser(c), eventID); err != nil {
		handleError(c, err, "Delete")
		return
	}
	c.Status(http.StatusNoContent)
}

// Live 以 SSE 推送探索結果，活動有變更時送出新的快照
func (h *EventHandler) Live(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		handleError(c, apperrors.ErrAuthRequired, "Live")
		return
	}
	sel, err := h.selection(c, user)
	if err != nil {
		return
	}

	ctx := c.Request.Context()
	ctrl := h.sessions()
	ctrl.SignIn(ctx, user)
	ctrl.Select(sel)

	updates := make(chan struct{}, 1)
	notify := func(session.State) {
		select {
		case updates <- struct{}{}:
		default:
		}
	}
	if err := ctrl.Start(ctx, notify); err != nil {
		handleError(c, err, "Live")
		return
	}
	defer ctrl.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-updates:
			c.SSEvent("snapshot", ctrl.View())
			return true
		}
	})
}

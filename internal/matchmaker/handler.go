package matchmaker

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func response(t *Ticket) JoinResponse {
	return JoinResponse{
		Queued:     t.Queued(),
		TicketID:   t.ID,
		Pool:       t.Pool,
		TableSize:  t.TableSize,
		Assignment: t.Assignment,
	}
}

func status(err error) int {
	switch {
	case errors.Is(err, ErrTicketNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnknownPool), errors.Is(err, ErrInvalidTableSize), errors.Is(err, ErrNameRequired):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// POST /api/match/join  body: {name, pool, table_size}
func (h *Handler) Join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.Join(c.Request.Context(), req)
	if err != nil {
		c.JSON(status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, response(t))
}

// GET /api/match/:ticket
func (h *Handler) Status(c *gin.Context) {
	t, err := h.svc.Status(c.Request.Context(), c.Param("ticket"))
	if err != nil {
		c.JSON(status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, response(t))
}

// POST /api/match/cancel body: {ticket_id}
func (h *Handler) Cancel(c *gin.Context) {
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), req.TicketID); err != nil {
		c.JSON(status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/match/pools
func (h *Handler) Pools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pools": h.svc.Pools()})
}

// Register 挂载到 /api/match
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/match")
	g.GET("/pools", h.Pools)
	g.POST("/join", h.Join)
	g.POST("/cancel", h.Cancel)
	g.GET("/:ticket", h.Status)
}

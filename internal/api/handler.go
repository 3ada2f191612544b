package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"HoldemServer/internal/auth"
	"HoldemServer/internal/game/engine"
	"HoldemServer/internal/game/manager"
	"HoldemServer/internal/game/table"
	"HoldemServer/internal/middleware"
)

type Handler struct {
	mgr    *manager.GameManager
	tokens *auth.Issuer
}

func NewHandler(mgr *manager.GameManager, tokens *auth.Issuer) *Handler {
	return &Handler{mgr: mgr, tokens: tokens}
}

type CreateGameRequest struct {
	Name          string `json:"name"`
	MaxPlayers    int    `json:"max_players" binding:"required"`
	StartingChips int64  `json:"starting_chips" binding:"required"`
	SmallBlind    int64  `json:"small_blind" binding:"required"`
	BigBlind      int64  `json:"big_blind" binding:"required"`
}

type JoinGameRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	PlayerKind  string `json:"player_kind"`
}

type ActionRequest struct {
	AuthToken string       `json:"auth_token"`
	Action    table.Action `json:"action"`
}

// statusOf 把错误映射成 HTTP 状态码
func statusOf(err error) int {
	switch {
	case errors.Is(err, manager.ErrSessionNotFound), errors.Is(err, manager.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenExpired), errors.Is(err, auth.ErrSessionMismatch):
		return http.StatusUnauthorized
	case errors.Is(err, manager.ErrInvalidSettings), errors.Is(err, manager.ErrInvalidName),
		errors.Is(err, manager.ErrAlreadyStarted), errors.Is(err, manager.ErrSessionFull),
		errors.Is(err, manager.ErrAlreadySeated), errors.Is(err, manager.ErrNotEnoughPlayers),
		errors.Is(err, manager.ErrNotStarted), errors.Is(err, manager.ErrFinished):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// rejected 是引擎或对局状态拒绝了这一步：回 200 + success:false
func rejected(err error) bool {
	for _, target := range []error{
		engine.ErrHandOver, engine.ErrNoSuchSeat, engine.ErrNotYourTurn, engine.ErrNotActive,
		engine.ErrCannotCheck, engine.ErrRaiseTooSmall, engine.ErrRaiseExceedsStack, engine.ErrUnknownAction,
		manager.ErrNotStarted, manager.ErrFinished,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// POST /api/games
func (h *Handler) CreateGame(c *gin.Context) {
	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.mgr.Create(manager.Settings{
		Name:          req.Name,
		MaxPlayers:    req.MaxPlayers,
		StartingChips: req.StartingChips,
		SmallBlind:    req.SmallBlind,
		BigBlind:      req.BigBlind,
	})
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	// 名字以管理器里存下的为准（空名会被补成默认值）
	v, err := h.mgr.View(id, "")
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": id, "name": v.Name})
}

// GET /api/games
func (h *Handler) ListGames(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"games": h.mgr.List()})
}

// POST /api/games/:id/join
func (h *Handler) JoinGame(c *gin.Context) {
	var req JoinGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.mgr.Join(c.Request.Context(), c.Param("id"), req.DisplayName, manager.ParsePlayerKind(req.PlayerKind))
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/games/:id/start
func (h *Handler) StartGame(c *gin.Context) {
	if err := h.mgr.Start(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/games/:id/action  body: {auth_token, action:{type, amount}}
func (h *Handler) SubmitAction(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	tok := req.AuthToken
	if tok == "" {
		tok = middleware.BearerToken(c)
	}
	if tok == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing token"})
		return
	}

	err := h.mgr.Submit(c.Request.Context(), c.Param("id"), tok, req.Action)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case rejected(err):
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
	default:
		c.JSON(statusOf(err), gin.H{"success": false, "error": err.Error()})
	}
}

// GET /api/games/:id/state  令牌可选；没有令牌就是旁观者
func (h *Handler) GetState(c *gin.Context) {
	id := c.Param("id")
	viewer := ""
	if tok := middleware.BearerToken(c); tok != "" {
		claims, err := h.tokens.Verify(tok, id)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		viewer = claims.PlayerID()
	}
	v, err := h.mgr.View(id, viewer)
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, v)
}

// GET /api/games/:id/history?limit=n
func (h *Handler) GetHistory(c *gin.Context) {
	limit := 20
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, 200)
	}
	recs, err := h.mgr.History(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"hands": recs})
}

func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/games")
	g.POST("", h.CreateGame)
	g.GET("", h.ListGames)
	g.POST("/:id/join", h.JoinGame)
	g.POST("/:id/start", h.StartGame)
	g.POST("/:id/action", h.SubmitAction)
	g.GET("/:id/state", h.GetState)
	g.GET("/:id/history", h.GetHistory)
}

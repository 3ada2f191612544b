package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"HoldemServer/internal/auth"
	"HoldemServer/internal/game/manager"
	"HoldemServer/internal/matchmaker"
	"HoldemServer/internal/middleware"
	"HoldemServer/internal/websocket"
)

// Deps 组装路由需要的组件；Hub 或 Match 为 nil 时不挂对应路由
type Deps struct {
	Manager *manager.GameManager
	Tokens  *auth.Issuer
	Hub     *websocket.Hub
	Match   *matchmaker.Service
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	NewHandler(d.Manager, d.Tokens).Register(api)
	if d.Match != nil {
		matchmaker.NewHandler(d.Match).Register(api)
	}

	if d.Hub != nil {
		ws := r.Group("/", middleware.JwtAuthMiddleware(d.Tokens))
		ws.GET("/ws", websocket.ServeWS(d.Hub))
	}
	return r
}

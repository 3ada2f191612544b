package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"HoldemServer/config"
	"HoldemServer/internal/api"
	"HoldemServer/internal/auth"
	"HoldemServer/internal/game/manager"
	"HoldemServer/internal/history"
	"HoldemServer/internal/matchmaker"
	"HoldemServer/internal/storage"
	"HoldemServer/internal/utils"
	"HoldemServer/internal/websocket"
)

func main() {
	config.Load()
	cfg := config.C
	utils.Init(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//-------------------------------------------------------
	// 1. 存储：按需连接 Redis / Postgres
	//-------------------------------------------------------
	needRedis := cfg.History.Backend == "redis" || cfg.Match.Backend == "redis"
	if needRedis {
		if err := storage.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			utils.Log.Fatal("Redis init failed", "addr", cfg.Redis.Addr, "err", err)
		}
	}
	if cfg.History.Backend == "postgres" {
		if err := storage.InitPostgres(cfg.Database.DSN); err != nil {
			utils.Log.Fatal("Postgres init failed", "err", err)
		}
		if err := history.EnsureSchema(ctx, storage.DB); err != nil {
			utils.Log.Fatal("history schema failed", "err", err)
		}
	}
	defer storage.Close()

	var hist history.Repo
	switch cfg.History.Backend {
	case "redis":
		hist = history.NewRedisRepo(storage.Rdb, cfg.History.Keep, cfg.History.TTL)
	case "postgres":
		hist = history.NewPostgresRepo(storage.DB)
	default:
		hist = history.NewMemoryRepo(cfg.History.Keep)
	}

	//-------------------------------------------------------
	// 2. Hub（必须最先启动）
	//-------------------------------------------------------
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Close()

	//-------------------------------------------------------
	// 3. GameManager + 超时清扫
	//-------------------------------------------------------
	tokens := auth.NewIssuer([]byte(cfg.JWT.Secret), cfg.JWT.TTL)
	gameMgr := manager.NewGameManager(hub, hist, tokens, manager.Options{
		TurnTimeout: cfg.Game.TurnTimeout,
		MaxStrikes:  cfg.Game.MaxStrikes,
		LogTail:     cfg.Game.LogTail,
		LogLimit:    cfg.Game.LogLimit,
	})
	hub.OnIncoming = gameMgr.HandlePlayerMessage
	go gameMgr.RunSweeper(ctx, cfg.Server.SweepInterval)

	//-------------------------------------------------------
	// 4. 快速开局 Matchmaker
	//-------------------------------------------------------
	var mmRepo matchmaker.Repo = matchmaker.NewMemoryRepo()
	if cfg.Match.Backend == "redis" {
		mmRepo = matchmaker.NewRedisRepo(storage.Rdb)
	}
	pools := make(map[string]matchmaker.Stakes, len(cfg.Match.Pools))
	for name, p := range cfg.Match.Pools {
		pools[name] = matchmaker.Stakes{StartingChips: p.StartingChips, SmallBlind: p.SmallBlind, BigBlind: p.BigBlind}
	}
	svc := matchmaker.NewService(mmRepo, cfg.Match.TicketTTL, pools)
	// 💡 成桌回调：直接开一桌
	svc.OnRoomReady = gameMgr.SeatRoom

	//-------------------------------------------------------
	// 5. HTTP + WebSocket
	//-------------------------------------------------------
	r := api.NewRouter(api.Deps{Manager: gameMgr, Tokens: tokens, Hub: hub, Match: svc})
	srv := &http.Server{Addr: cfg.Server.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		utils.Log.Info("Server running", "addr", cfg.Server.Port,
			"history", cfg.History.Backend, "match", cfg.Match.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Log.Fatal("server failed", "err", err)
		}
	}()

	<-ctx.Done()
	utils.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Log.Error("shutdown", "err", err)
	}
}

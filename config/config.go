package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Pool struct {
	StartingChips int64 `mapstructure:"starting_chips"`
	SmallBlind    int64 `mapstructure:"small_blind"`
	BigBlind      int64 `mapstructure:"big_blind"`
}

type Config struct {
	Server struct {
		Port          string
		SweepInterval time.Duration `mapstructure:"sweep_interval"`
	}
	Log struct {
		Level string
	}
	Database struct {
		DSN string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	JWT struct {
		Secret string
		TTL    time.Duration
	}
	Game struct {
		TurnTimeout time.Duration `mapstructure:"turn_timeout"`
		MaxStrikes  int           `mapstructure:"max_strikes"`
		LogTail     int           `mapstructure:"log_tail"`
		LogLimit    int           `mapstructure:"log_limit"`
	}
	// History.Backend: memory | redis | postgres
	History struct {
		Backend string
		Keep    int
		TTL     time.Duration
	}
	// Match.Backend: memory | redis
	Match struct {
		Backend   string
		TicketTTL time.Duration `mapstructure:"ticket_ttl"`
		Pools     map[string]Pool
	}
}

var C Config

func defaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.sweep_interval", time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("database.dsn", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.ttl", time.Hour)
	v.SetDefault("game.turn_timeout", 30*time.Second)
	v.SetDefault("game.max_strikes", 3)
	v.SetDefault("game.log_tail", 50)
	v.SetDefault("game.log_limit", 500)
	v.SetDefault("history.backend", "memory")
	v.SetDefault("history.keep", 200)
	v.SetDefault("history.ttl", 24*time.Hour)
	v.SetDefault("match.backend", "memory")
	v.SetDefault("match.ticket_ttl", 10*time.Minute)
	v.SetDefault("match.pools", map[string]any{
		"default": map[string]any{"starting_chips": 1000, "small_blind": 10, "big_blind": 20},
	})
}

// Read 读取配置文件；path 为空或文件不存在时只用默认值和环境变量（HOLDEM_JWT_SECRET 之类）
func Read(path string) (Config, error) {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix("HOLDEM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if c.JWT.Secret == "" {
		return Config{}, fmt.Errorf("jwt.secret is required (or HOLDEM_JWT_SECRET)")
	}
	return c, nil
}

func Load() {
	c, err := Read("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	C = c
}

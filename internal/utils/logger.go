package utils

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Log 全局日志，包初始化时即可用；Init 只调整级别和输出
var Log = New(os.Stderr)

// New builds a charm logger with the project level styles.
func New(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	l.SetStyles(styles())
	return l
}

// Init sets the level from config ("debug", "info", "warn", "error").
func Init(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		Log.Warn("unknown log level, keeping info", "level", level)
		lvl = log.InfoLevel
	}
	Log.SetLevel(lvl)
}

func styles() *log.Styles {
	s := log.DefaultStyles()
	s.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG🔍").
		Padding(0, 1, 0, 1).
		Foreground(lipgloss.Color("#808080FF"))

	s.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO🌟").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("#90EE9080")).
		Foreground(lipgloss.Color("#006400FF")).Bold(true)

	s.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN🃏").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("#FFA500FF")).
		Foreground(lipgloss.Color("#000000FF")).Bold(true)

	s.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR🔥").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("#FF0000FF")).
		Foreground(lipgloss.Color("#00FFFF00")).Bold(true)

	s.Levels[log.FatalLevel] = lipgloss.NewStyle().
		SetString("FATAL⚡️").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("#000000FF")).
		Foreground(lipgloss.Color("#00FFFF00")).Bold(true)

	// 牌桌事件用的键名高亮
	s.Keys["session"] = lipgloss.NewStyle().Foreground(lipgloss.Color("#00BFFF"))
	s.Keys["player"] = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	return s
}

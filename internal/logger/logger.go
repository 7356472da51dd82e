package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Service string
	Env     string
	Level   string
	// Console 本機開發時輸出可讀格式
	Console bool
}

// New 建立 JSON logger, extra 例如 KafkaWriter 會同時收到每一筆 log
func New(cfg Config, extra ...io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stdout
	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	if len(extra) > 0 {
		writers := append([]io.Writer{out}, extra...)
		out = zerolog.MultiLevelWriter(writers...)
	}

	return zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", cfg.Service).
		Str("env", cfg.Env).
		Logger()
}

// ParseLevel 無法辨識時使用 info
func ParseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// SetGlobal 讓使用 github.com/rs/zerolog/log 的套件共用同一個 logger
func SetGlobal(l zerolog.Logger) {
	log.Logger = l
}

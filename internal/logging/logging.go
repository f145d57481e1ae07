package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pixel-poker/internal/config"
)

var (
	mu     sync.RWMutex
	writer io.Writer = os.Stdout
	file   *rotatingWriter
)

// Init configures the global zerolog logger. When cfg.File is set, output
// goes to stdout and to a rotating file.
func Init(cfg config.LogConfig) error {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var out io.Writer = os.Stdout
	var fw *rotatingWriter
	if cfg.File != "" {
		w, err := newRotatingWriter(cfg.File, cfg.MaxMB)
		if err != nil {
			return err
		}
		fw = w
		out = io.MultiWriter(os.Stdout, w)
	}

	var console io.Writer = out
	if cfg.Pretty {
		console = zerolog.ConsoleWriter{Out: out}
	}

	zerolog.SetGlobalLevel(level)
	ctx := zerolog.New(console).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	logger := ctx.Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger

	mu.Lock()
	if file != nil {
		_ = file.Close()
	}
	writer = out
	file = fw
	mu.Unlock()
	return nil
}

// Writer is the raw sink behind the global logger, for handlers that format
// their own records.
func Writer() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return writer
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	writer = os.Stdout
	return err
}

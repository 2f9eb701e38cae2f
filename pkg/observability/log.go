package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event at debug level on a charmbracelet logger.
// Failures are reported at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnCompileStart(_ context.Context, diagram string) {
	h.logger.Debug("compile", "diagram", diagram)
}

func (h *LogHooks) OnCompileComplete(_ context.Context, diagram string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("compile failed", "diagram", diagram, "err", err)
		return
	}
	h.logger.Debug("compiled", "diagram", diagram, "bytes", size, "duration", d.Round(time.Microsecond))
}

func (h *LogHooks) OnRenderStart(_ context.Context, diagram, format, engine string) {
	h.logger.Debug("render", "diagram", diagram, "format", format, "engine", engine)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, diagram, format, engine string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "diagram", diagram, "format", format, "engine", engine, "err", err)
		return
	}
	h.logger.Debug("rendered", "diagram", diagram, "format", format, "bytes", size, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)

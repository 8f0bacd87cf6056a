package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every hook event to a charmbracelet logger at debug
// level, errors at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks backed by logger; nil means log.Default().
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnAcquireStart(_ context.Context, source string) {
	h.logger.Debug("acquire", "source", source)
}

func (h *LogHooks) OnAcquireComplete(_ context.Context, source string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("acquire failed", "source", source, "duration", d, "err", err)
		return
	}
	h.logger.Debug("acquired", "source", source, "bytes", size, "duration", d)
}

func (h *LogHooks) OnSegment(_ context.Context, remover string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("segmentation failed", "remover", remover, "duration", d, "err", err)
		return
	}
	h.logger.Debug("segmented", "remover", remover, "duration", d)
}

func (h *LogHooks) OnCompositeStart(_ context.Context, w, ht int) {
	h.logger.Debug("composite", "width", w, "height", ht)
}

func (h *LogHooks) OnCompositeComplete(_ context.Context, applied, skipped []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("composite failed", "duration", d, "err", err)
		return
	}
	h.logger.Debug("composited", "applied", applied, "skipped", skipped, "duration", d)
}

func (h *LogHooks) OnFallback(_ context.Context, from, to string, err error) {
	h.logger.Warn("producer fallback", "from", from, "to", to, "err", err)
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

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)

package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/open-egypt/pricing-api/internal/models"
	"github.com/open-egypt/pricing-api/internal/repository"
	"github.com/rs/zerolog"
)

const logBatchSize = 100

// RequestLogWorker batches public API request logs and inserts them in the
// background so logging never blocks a request.
type RequestLogWorker struct {
	repo    *repository.RequestLogRepository
	logger  zerolog.Logger
	entries chan models.RequestLog
	stop    chan struct{}
}

func NewRequestLogWorker(repo *repository.RequestLogRepository, logger zerolog.Logger, bufferSize int) *RequestLogWorker {
	w := &RequestLogWorker{
		repo:    repo,
		logger:  logger,
		entries: make(chan models.RequestLog, bufferSize),
		stop:    make(chan struct{}),
	}

	go w.run()

	return w
}

func (w *RequestLogWorker) run() {
	batch := make([]models.RequestLog, 0, logBatchSize)
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := w.repo.CreateBatch(ctx, batch); err != nil {
			w.logger.Warn().Err(err).Int("count", len(batch)).Msg("request log batch insert failed")
		}
		cancel()
		batch = make([]models.RequestLog, 0, logBatchSize)
	}

	for {
		select {
		case entry := <-w.entries:
			batch = append(batch, entry)
			if len(batch) >= logBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-w.stop:
			flush()
			return
		}
	}
}

// Stop flushes pending entries and stops the worker.
func (w *RequestLogWorker) Stop() {
	close(w.stop)
}

// Middleware records each request after it completes. A full buffer drops
// the entry rather than blocking.
func (w *RequestLogWorker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		entry := models.RequestLog{
			Timestamp:      start,
			Method:         c.Request.Method,
			Path:           c.Request.URL.Path,
			StatusCode:     c.Writer.Status(),
			ResponseTimeMs: int(time.Since(start).Milliseconds()),
			IPAddress:      c.ClientIP(),
			UserAgent:      c.Request.UserAgent(),
		}

		if v, exists := c.Get(CtxAPIKeyID); exists {
			if id, ok := v.(uuid.UUID); ok {
				entry.APIKeyID = &id
			}
		}
		if v, exists := c.Get(CtxPartnerID); exists {
			if id, ok := v.(uuid.UUID); ok {
				entry.PartnerID = &id
			}
		}

		select {
		case w.entries <- entry:
		default:
			w.logger.Warn().Msg("request log buffer full, dropping entry")
		}
	}
}

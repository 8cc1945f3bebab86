package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"questboard-indexer/indexer"
	"questboard-indexer/models"
	"questboard-indexer/store"
)

// StatusProvider reports indexer progress.
type StatusProvider interface {
	Status() indexer.Status
}

type StatsHandler struct {
	reader
	indexer StatusProvider
}

func NewStatsHandler(s store.Reader, status StatusProvider, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		reader:  reader{store: s, logger: logger},
		indexer: status,
	}
}

// GetStats returns the platform totals, all zero before the first event.
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats := models.NewPlatformStats()
	if err := h.store.Get(c, models.KindPlatformStats, models.PlatformStatsID, stats); err != nil && !errors.Is(err, store.ErrNotFound) {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *StatsHandler) GetIndexerStatus(c *gin.Context) {
	cursor, ok, err := h.store.Cursor(c, indexer.CursorName)
	if err != nil {
		h.internalError(c, err)
		return
	}
	resp := gin.H{"stored_cursor": nil}
	if ok {
		resp["stored_cursor"] = cursor
	}
	if h.indexer != nil {
		resp["indexer"] = h.indexer.Status()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StatsHandler) GetRoleEvents(c *gin.Context) {
	h.listAudit(c, "role_events", models.KindRoleEvent)
}

func (h *StatsHandler) GetPauseEvents(c *gin.Context) {
	h.listAudit(c, "pause_events", models.KindPauseEvent)
}

func (h *StatsHandler) listAudit(c *gin.Context, key string, kind models.Kind) {
	var filters []store.Filter
	if contract := c.Query("contract"); contract != "" {
		filters = append(filters, store.Filter{Field: "contract", Value: contract})
	}
	filters = filterByValue(c, filters, "eventType", "event_type")
	h.list(c, key, kind, filters)
}

func (h *StatsHandler) Health(c *gin.Context) {
	if err := h.store.Ping(c); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "Database connection failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

package handlers

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"questboard-indexer/models"
	"questboard-indexer/store"
)

const (
	defaultLimit = 20
	maxLimit     = store.MaxPageLimit
)

// parsePage reads the 1-based page and limit query parameters.
func parsePage(c *gin.Context) (store.Page, int, int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
		return store.Page{}, 0, 0, false
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 || limit > maxLimit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return store.Page{}, 0, 0, false
	}
	return store.Page{Limit: limit, Offset: (page - 1) * limit}, page, limit, true
}

// parseNumericID accepts an on-chain id either as a decimal or as 0x-prefixed hex.
func parseNumericID(c *gin.Context, param string) (models.ID, bool) {
	raw := c.Param(param)
	v, ok := new(big.Int).SetString(raw, 0)
	if !ok || v.Sign() < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param})
		return "", false
	}
	return models.IDFromBigInt(v), true
}

func parseAddress(c *gin.Context, raw string) (common.Address, bool) {
	if !common.IsHexAddress(raw) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address"})
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

// filterByAddress adds an address filter when the query parameter is set.
func filterByAddress(c *gin.Context, filters []store.Filter, param, field string) ([]store.Filter, bool) {
	raw := strings.TrimSpace(c.Query(param))
	if raw == "" {
		return filters, true
	}
	addr, ok := parseAddress(c, raw)
	if !ok {
		return nil, false
	}
	return append(filters, store.Filter{Field: field, Value: string(models.IDFromAddress(addr))}), true
}

// filterByValue adds an exact-match filter, upper-casing enum values.
func filterByValue(c *gin.Context, filters []store.Filter, param, field string) []store.Filter {
	if raw := strings.TrimSpace(c.Query(param)); raw != "" {
		return append(filters, store.Filter{Field: field, Value: strings.ToUpper(raw)})
	}
	return filters
}

func filterByBool(c *gin.Context, filters []store.Filter, param, field string) ([]store.Filter, bool) {
	raw := strings.TrimSpace(c.Query(param))
	if raw == "" {
		return filters, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param})
		return nil, false
	}
	return append(filters, store.Filter{Field: field, Value: strconv.FormatBool(v)}), true
}

type reader struct {
	store  store.Reader
	logger *zap.Logger
}

// getEntity writes the entity as the response, or 404 when it does not exist.
func (r *reader) getEntity(c *gin.Context, kind models.Kind, id models.ID) {
	var doc json.RawMessage
	if err := r.store.Get(c, kind, id, &doc); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": string(kind) + " not found"})
			return
		}
		r.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// list writes one page of kind matching filters under key.
func (r *reader) list(c *gin.Context, key string, kind models.Kind, filters []store.Filter) {
	page, pageNum, limit, ok := parsePage(c)
	if !ok {
		return
	}
	docs, err := r.store.List(c, kind, filters, page)
	if err != nil {
		r.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		key:     docs,
		"page":  pageNum,
		"limit": limit,
	})
}

func (r *reader) internalError(c *gin.Context, err error) {
	r.logger.Error("request failed",
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
}

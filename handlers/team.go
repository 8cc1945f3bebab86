package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"questboard-indexer/models"
	"questboard-indexer/store"
)

type TeamHandler struct {
	reader
}

func NewTeamHandler(s store.Reader, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{reader{store: s, logger: logger}}
}

func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, ok := parseNumericID(c, "id")
	if !ok {
		return
	}
	h.getEntity(c, models.KindTeam, id)
}

// GetMembers lists the team roster. Members of a disbanded team keep their
// own active flag.
func (h *TeamHandler) GetMembers(c *gin.Context) {
	id, ok := parseNumericID(c, "id")
	if !ok {
		return
	}
	filters, ok := filterByBool(c, []store.Filter{{Field: "team", Value: string(id)}}, "active", "is_active")
	if !ok {
		return
	}
	h.list(c, "members", models.KindTeamMember, filters)
}

func (h *TeamHandler) GetInvites(c *gin.Context) {
	id, ok := parseNumericID(c, "id")
	if !ok {
		return
	}
	filters := filterByValue(c, []store.Filter{{Field: "team", Value: string(id)}}, "status", "status")
	h.list(c, "invites", models.KindTeamInvite, filters)
}

package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"questboard-indexer/models"
	"questboard-indexer/store"
)

type UserHandler struct {
	reader
}

func NewUserHandler(s store.Reader, logger *zap.Logger) *UserHandler {
	return &UserHandler{reader{store: s, logger: logger}}
}

func (h *UserHandler) GetUser(c *gin.Context) {
	addr, ok := parseAddress(c, c.Param("address"))
	if !ok {
		return
	}
	h.getEntity(c, models.KindUser, models.IDFromAddress(addr))
}

func (h *UserHandler) GetRewards(c *gin.Context) {
	h.listByUser(c, "rewards", models.KindReward, "recipient")
}

// GetQuests lists the quests the user created.
func (h *UserHandler) GetQuests(c *gin.Context) {
	h.listByUser(c, "quests", models.KindQuest, "creator")
}

func (h *UserHandler) GetSubmissions(c *gin.Context) {
	h.listByUser(c, "submissions", models.KindSubmission, "submitter")
}

func (h *UserHandler) GetParticipations(c *gin.Context) {
	h.listByUser(c, "participations", models.KindQuestParticipant, "participant")
}

func (h *UserHandler) listByUser(c *gin.Context, key string, kind models.Kind, field string) {
	addr, ok := parseAddress(c, c.Param("address"))
	if !ok {
		return
	}
	h.list(c, key, kind, []store.Filter{{Field: field, Value: string(models.IDFromAddress(addr))}})
}

package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"questboard-indexer/models"
	"questboard-indexer/store"
)

type QuestHandler struct {
	reader
}

func NewQuestHandler(s store.Reader, logger *zap.Logger) *QuestHandler {
	return &QuestHandler{reader{store: s, logger: logger}}
}

func (h *QuestHandler) GetQuests(c *gin.Context) {
	filters, ok := filterByAddress(c, nil, "creator", "creator")
	if !ok {
		return
	}
	filters = filterByValue(c, filters, "status", "status")
	filters = filterByValue(c, filters, "questType", "quest_type")
	h.list(c, "quests", models.KindQuest, filters)
}

func (h *QuestHandler) GetQuest(c *gin.Context) {
	id, ok := parseNumericID(c, "id")
	if !ok {
		return
	}
	h.getEntity(c, models.KindQuest, id)
}

func (h *QuestHandler) GetParticipants(c *gin.Context) {
	h.listByQuest(c, "participants", models.KindQuestParticipant, "active", "is_active")
}

func (h *QuestHandler) GetSubmissions(c *gin.Context) {
	id, ok := parseNumericID(c, "id")
	if !ok {
		return
	}
	filters := filterByValue(c, []store.Filter{{Field: "quest", Value: string(id)}}, "status", "status")
	h.list(c, "submissions", models.KindSubmission, filters)
}

func (h *QuestHandler) GetTeams(c *gin.Context) {
	h.listByQuest(c, "teams", models.KindTeam, "active", "is_active")
}

func (h *QuestHandler) GetRewards(c *gin.Context) {
	id, ok := parseNumericID(c, "id")
	if !ok {
		return
	}
	filters := filterByValue(c, []store.Filter{{Field: "quest", Value: string(id)}}, "rewardType", "reward_type")
	h.list(c, "rewards", models.KindReward, filters)
}

func (h *QuestHandler) GetCollaborationRequests(c *gin.Context) {
	h.listByQuest(c, "collaboration_requests", models.KindCollaborationRequest, "", "")
}

func (h *QuestHandler) GetPaymentSplit(c *gin.Context) {
	id, ok := parseNumericID(c, "id")
	if !ok {
		return
	}
	h.getEntity(c, models.KindPaymentSplit, id)
}

// listByQuest lists kind by its quest field, optionally narrowed by a boolean
// query parameter.
func (h *QuestHandler) listByQuest(c *gin.Context, key string, kind models.Kind, boolParam, boolField string) {
	id, ok := parseNumericID(c, "id")
	if !ok {
		return
	}
	filters := []store.Filter{{Field: "quest", Value: string(id)}}
	if boolParam != "" {
		if filters, ok = filterByBool(c, filters, boolParam, boolField); !ok {
			return
		}
	}
	h.list(c, key, kind, filters)
}

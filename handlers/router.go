package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"questboard-indexer/logging"
	"questboard-indexer/store"
)

// NewRouter builds the read-only query API over the projected entities.
// An empty allowedOrigins list allows every origin.
func NewRouter(logger *zap.Logger, s store.Reader, status StatusProvider, allowedOrigins []string) *gin.Engine {
	logger = logging.WithPackage(logger)

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), Logger(logger))

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", requestIDHeader}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	router.Use(cors.New(corsConfig))

	questHandler := NewQuestHandler(s, logger)
	userHandler := NewUserHandler(s, logger)
	teamHandler := NewTeamHandler(s, logger)
	statsHandler := NewStatsHandler(s, status, logger)

	api := router.Group("/api/v1")
	{
		api.GET("/stats", statsHandler.GetStats)
		api.GET("/indexer/status", statsHandler.GetIndexerStatus)

		// Quest routes
		api.GET("/quests", questHandler.GetQuests)
		api.GET("/quests/:id", questHandler.GetQuest)
		api.GET("/quests/:id/participants", questHandler.GetParticipants)
		api.GET("/quests/:id/submissions", questHandler.GetSubmissions)
		api.GET("/quests/:id/teams", questHandler.GetTeams)
		api.GET("/quests/:id/rewards", questHandler.GetRewards)
		api.GET("/quests/:id/collaboration-requests", questHandler.GetCollaborationRequests)
		api.GET("/quests/:id/payment-split", questHandler.GetPaymentSplit)

		// User routes
		api.GET("/users/:address", userHandler.GetUser)
		api.GET("/users/:address/rewards", userHandler.GetRewards)
		api.GET("/users/:address/quests", userHandler.GetQuests)
		api.GET("/users/:address/submissions", userHandler.GetSubmissions)
		api.GET("/users/:address/participations", userHandler.GetParticipations)

		// Team routes
		api.GET("/teams/:id", teamHandler.GetTeam)
		api.GET("/teams/:id/members", teamHandler.GetMembers)
		api.GET("/teams/:id/invites", teamHandler.GetInvites)

		// Audit routes
		api.GET("/audit/roles", statsHandler.GetRoleEvents)
		api.GET("/audit/pauses", statsHandler.GetPauseEvents)
	}

	router.GET("/health", statsHandler.Health)

	return router
}

package http

import (
	"github.com/allkinds24/allkinds-backend/internal/delivery/http/handler"
	"github.com/allkinds24/allkinds-backend/internal/delivery/http/middleware"
	"github.com/allkinds24/allkinds-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerValidators installs custom binding validators. Safe to call from
// every router constructor; re-registering the same tag just overwrites it.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("content_type", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case domain.ContentTypeText, domain.ContentTypePhoto, domain.ContentTypeDocument,
			domain.ContentTypeSticker, domain.ContentTypeVoice:
			return true
		}
		return false
	})
}

func healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "ok",
	})
}

// MatchmakerRouter wires the matching process's HTTP surface.
type MatchmakerRouter struct {
	matchHandler   *handler.MatchHandler
	authMiddleware *middleware.AuthMiddleware
}

func NewMatchmakerRouter(
	matchHandler *handler.MatchHandler,
	authMiddleware *middleware.AuthMiddleware,
) *MatchmakerRouter {
	return &MatchmakerRouter{
		matchHandler:   matchHandler,
		authMiddleware: authMiddleware,
	}
}

func (r *MatchmakerRouter) Setup() *gin.Engine {
	registerValidators()
	router := gin.Default()

	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	v1 := router.Group("/api/v1")
	{
		matches := v1.Group("/matches")
		matches.Use(r.authMiddleware.RequireAuth())
		{
			matches.POST("/propose", r.matchHandler.ProposeMatch)
			matches.POST("/confirm", r.matchHandler.ConfirmMatch)
			matches.POST("/cancel", r.matchHandler.CancelProposal)
			matches.GET("/cohesion/:user_id", r.matchHandler.PairCohesion)
		}
	}

	return router
}

// CommunicatorRouter wires the chat process's HTTP surface.
type CommunicatorRouter struct {
	chatHandler    *handler.ChatHandler
	authMiddleware *middleware.AuthMiddleware
}

func NewCommunicatorRouter(
	chatHandler *handler.ChatHandler,
	authMiddleware *middleware.AuthMiddleware,
) *CommunicatorRouter {
	return &CommunicatorRouter{
		chatHandler:    chatHandler,
		authMiddleware: authMiddleware,
	}
}

func (r *CommunicatorRouter) Setup() *gin.Engine {
	registerValidators()
	router := gin.Default()

	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			chats := protected.Group("/chats")
			{
				chats.POST("/open", r.chatHandler.OpenChat)
				chats.GET("", r.chatHandler.ListSessions)
				chats.POST("/:session_id/messages", r.chatHandler.SendMessage)
				chats.GET("/:session_id/messages", r.chatHandler.History)
				chats.POST("/:session_id/reveal", r.chatHandler.RevealIdentity)
				chats.POST("/:session_id/end", r.chatHandler.EndSession)
			}

			blocks := protected.Group("/blocks")
			{
				blocks.POST("", r.chatHandler.Block)
				blocks.DELETE("/:user_id", r.chatHandler.Unblock)
			}
		}
	}

	return router
}

package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mfalcone/stockx/internal/container"
	handlers "github.com/mfalcone/stockx/internal/interface/http"
	"github.com/mfalcone/stockx/internal/interface/middleware"
	"github.com/mfalcone/stockx/pkg/helpers"
)

type TradingModule struct {
	Handler *handlers.TradingHandler
	JWT     *helpers.JWTManager
}

func NewTradingModule(h *handlers.TradingHandler, jwt *helpers.JWTManager) *TradingModule {
	return &TradingModule{Handler: h, JWT: jwt}
}

func (m *TradingModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/quote", m.Handler.Quote)
		auth.POST("/quote", m.Handler.QuotePost)
		auth.POST("/buy", m.Handler.Buy)
		auth.POST("/sell", m.Handler.Sell)
		auth.POST("/transfer", m.Handler.Transfer)
		auth.GET("/history", m.Handler.History)
		auth.GET("/history/search", m.Handler.SearchHistory)
	}
}

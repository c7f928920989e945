package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/mfalcone/stockx/internal/container"
	handlers "github.com/mfalcone/stockx/internal/interface/http"
	"github.com/mfalcone/stockx/internal/interface/middleware"
	"github.com/mfalcone/stockx/pkg/helpers"
)

type PortfolioModule struct {
	Handler *handlers.PortfolioHandler
	JWT     *helpers.JWTManager
}

func NewPortfolioModule(h *handlers.PortfolioHandler, jwt *helpers.JWTManager) *PortfolioModule {
	return &PortfolioModule{Handler: h, JWT: jwt}
}

func (m *PortfolioModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.GET("/portfolio", m.Handler.Overview)
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mfalcone/stockx/internal/application"
	"github.com/mfalcone/stockx/internal/domain/entity"
	"github.com/mfalcone/stockx/pkg/money"
	"github.com/mfalcone/stockx/pkg/response"
)

type PortfolioHandler struct {
	Svc    *application.PortfolioService
	Logger *logrus.Logger
}

func NewPortfolioHandler(svc *application.PortfolioService, logger *logrus.Logger) *PortfolioHandler {
	return &PortfolioHandler{Svc: svc, Logger: logger}
}

type positionDTO struct {
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Shares       int64  `json:"shares"`
	Price        string `json:"price"`
	PriceDisplay string `json:"price_display"`
	Value        string `json:"value"`
	ValueDisplay string `json:"value_display"`
}

type overviewDTO struct {
	Cash            string        `json:"cash"`
	CashDisplay     string        `json:"cash_display"`
	Positions       []positionDTO `json:"positions"`
	NetWorth        string        `json:"net_worth"`
	NetWorthDisplay string        `json:"net_worth_display"`
}

func toPositionDTO(p *entity.Position) positionDTO {
	return positionDTO{
		Symbol:       p.Symbol,
		Name:         p.Name,
		Shares:       p.Shares,
		Price:        p.Price.StringFixed(2),
		PriceDisplay: money.USD(p.Price),
		Value:        p.Value.StringFixed(2),
		ValueDisplay: money.USD(p.Value),
	}
}

// Overview GET /api/portfolio
func (h *PortfolioHandler) Overview(c *gin.Context) {
	ov, err := h.Svc.Overview(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.Error[any](c, errStatus(err), err.Error(), nil)
		return
	}
	dto := overviewDTO{
		Cash:            ov.Cash.StringFixed(2),
		CashDisplay:     money.USD(ov.Cash),
		Positions:       make([]positionDTO, 0, len(ov.Positions)),
		NetWorth:        ov.NetWorth.StringFixed(2),
		NetWorthDisplay: money.USD(ov.NetWorth),
	}
	for i := range ov.Positions {
		dto.Positions = append(dto.Positions, toPositionDTO(&ov.Positions[i]))
	}
	response.Success(c, http.StatusOK, dto, "portfolio", nil)
}

package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mfalcone/stockx/internal/application"
	"github.com/mfalcone/stockx/internal/domain/entity"
	"github.com/mfalcone/stockx/pkg/money"
	"github.com/mfalcone/stockx/pkg/response"
	"github.com/mfalcone/stockx/pkg/validation"
)

type TradingHandler struct {
	Svc    *application.TradingService
	Logger *logrus.Logger
}

func NewTradingHandler(svc *application.TradingService, logger *logrus.Logger) *TradingHandler {
	return &TradingHandler{Svc: svc, Logger: logger}
}

// Shares and amounts arrive as strings so the boundary can reject
// anything that is not a clean positive number.
type tradeRequest struct {
	Symbol string `json:"symbol" binding:"required,max=12"`
	Shares string `json:"shares" binding:"required"`
}

type transferRequest struct {
	Direction string `json:"direction" binding:"required,oneof=in out"`
	Amount    string `json:"amount" binding:"required"`
}

type quoteDTO struct {
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	PriceDisplay string `json:"price_display"`
}

type entryDTO struct {
	ID           int64     `json:"id"`
	Type         string    `json:"type"`
	Symbol       string    `json:"symbol,omitempty"`
	Shares       int64     `json:"shares,omitempty"`
	Price        string    `json:"price,omitempty"`
	PriceDisplay string    `json:"price_display,omitempty"`
	Total        string    `json:"total"`
	TotalDisplay string    `json:"total_display"`
	Transacted   time.Time `json:"transacted"`
}

func toQuoteDTO(q *entity.Quote) quoteDTO {
	return quoteDTO{
		Symbol:       q.Symbol,
		Name:         q.Name,
		Price:        q.Price.StringFixed(2),
		PriceDisplay: money.USD(q.Price),
	}
}

func toEntryDTO(e *entity.LedgerEntry) entryDTO {
	dto := entryDTO{
		ID:           e.ID,
		Type:         string(e.Type),
		Total:        e.Total.StringFixed(2),
		TotalDisplay: money.USD(e.Total),
		Transacted:   e.Transacted,
	}
	if e.IsTrade() {
		dto.Symbol = e.Symbol
		dto.Shares = e.Shares
		dto.Price = e.Price.StringFixed(2)
		dto.PriceDisplay = money.USD(e.Price)
	}
	return dto
}

// Quote GET /api/quote?symbol=NFLX
func (h *TradingHandler) Quote(c *gin.Context) {
	h.quote(c, c.Query("symbol"))
}

// QuotePost POST /api/quote {symbol}
func (h *TradingHandler) QuotePost(c *gin.Context) {
	var req struct {
		Symbol string `json:"symbol" binding:"required,max=12"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	h.quote(c, req.Symbol)
}

func (h *TradingHandler) quote(c *gin.Context, symbol string) {
	q, err := h.Svc.Quote(c.Request.Context(), symbol)
	if err != nil {
		response.Error[any](c, errStatus(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, toQuoteDTO(q), "quote", nil)
}

// Buy POST /api/buy {symbol, shares}
func (h *TradingHandler) Buy(c *gin.Context) {
	h.trade(c, h.Svc.Buy, "bought")
}

// Sell POST /api/sell {symbol, shares}
func (h *TradingHandler) Sell(c *gin.Context) {
	h.trade(c, h.Svc.Sell, "sold")
}

func (h *TradingHandler) trade(c *gin.Context, op func(ctx context.Context, userID, symbol string, shares int64) (*entity.LedgerEntry, error), verb string) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	shares, err := ParseShares(req.Shares)
	if err != nil {
		response.Error[any](c, errStatus(err), err.Error(), nil)
		return
	}
	e, err := op(c.Request.Context(), c.GetString("userID"), req.Symbol, shares)
	if err != nil {
		response.Error[any](c, errStatus(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, toEntryDTO(e), verb, nil)
}

// Transfer POST /api/transfer {direction, amount}
func (h *TradingHandler) Transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	amount, err := ParseAmount(req.Amount)
	if err != nil {
		response.Error[any](c, errStatus(err), err.Error(), nil)
		return
	}
	e, err := h.Svc.Transfer(c.Request.Context(), c.GetString("userID"), entity.TransferDirection(req.Direction), amount)
	if err != nil {
		response.Error[any](c, errStatus(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, toEntryDTO(e), "transferred", nil)
}

// History GET /api/history
func (h *TradingHandler) History(c *gin.Context) {
	entries, err := h.Svc.History(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.Error[any](c, errStatus(err), err.Error(), nil)
		return
	}
	out := make([]entryDTO, 0, len(entries))
	for i := range entries {
		out = append(out, toEntryDTO(&entries[i]))
	}
	response.Success(c, http.StatusOK, out, "history", map[string]any{"count": len(out)})
}

// SearchHistory GET /api/history/search?q=nflx&size=20
func (h *TradingHandler) SearchHistory(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	hits, err := h.Svc.SearchHistory(c.Request.Context(), c.GetString("userID"), q, size)
	if err != nil {
		response.Error[any](c, http.StatusBadGateway, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mfalcone/stockx/internal/domain/entity"
	repo "github.com/mfalcone/stockx/internal/domain/repository"
	"github.com/mfalcone/stockx/pkg/helpers"
	"github.com/mfalcone/stockx/pkg/mailer"
	"github.com/mfalcone/stockx/pkg/money"
)

// TradingService validates and executes buy/sell/transfer requests against
// the ledger. Every operation is all-or-nothing: it either commits one
// ledger entry together with the matching cash adjustment, or leaves the
// user's state untouched.
type TradingService struct {
	Users   repo.UserRepository
	Ledger  repo.LedgerRepository
	Quotes  repo.QuoteProvider
	Pub     *helpers.RabbitPublisher // optional trade receipts
	ES      *elasticsearch.Client    // optional history indexing
	ESIndex string
	Logger  *logrus.Logger
}

func NewTradingService(users repo.UserRepository, ledger repo.LedgerRepository, quotes repo.QuoteProvider, pub *helpers.RabbitPublisher, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *TradingService {
	return &TradingService{
		Users:   users,
		Ledger:  ledger,
		Quotes:  quotes,
		Pub:     pub,
		ES:      es,
		ESIndex: esIndex,
		Logger:  logger,
	}
}

// Quote is a pure read-through to the quote provider, with no ledger effect.
func (s *TradingService) Quote(ctx context.Context, symbol string) (*entity.Quote, error) {
	return lookupQuote(ctx, s.Quotes, symbol)
}

// Buy purchases shares at the current market price. The symbol is resolved
// first, then the quantity checked; the quote happens before the user lock
// so the network call stays out of the store transaction, and the cash
// check and the append+debit run inside it.
func (s *TradingService) Buy(ctx context.Context, userID, symbol string, shares int64) (*entity.LedgerEntry, error) {
	q, err := lookupQuote(ctx, s.Quotes, symbol)
	if err != nil {
		return nil, err
	}
	if shares <= 0 {
		return nil, ErrInvalidQuantity
	}
	cost := money.Round(q.Price.Mul(decimal.NewFromInt(shares)))

	entry := &entity.LedgerEntry{
		UserID:     userID,
		Type:       entity.EntryBuy,
		Symbol:     q.Symbol,
		Shares:     shares,
		Price:      q.Price,
		Total:      cost,
		Transacted: time.Now().UTC(),
	}
	err = s.Ledger.WithUser(ctx, userID, func(tx repo.LedgerTx) error {
		cash, err := tx.Cash(ctx)
		if err != nil {
			return err
		}
		if cost.GreaterThan(cash) {
			return ErrInsufficientFunds
		}
		if err := tx.Append(ctx, entry); err != nil {
			return err
		}
		_, err = tx.AdjustCash(ctx, cost.Neg())
		return err
	})
	if err != nil {
		return nil, storeErr(err)
	}
	s.afterCommit(ctx, userID, entry)
	return entry, nil
}

// Sell disposes of shares at the current market price. Ownership is checked
// against the ledger inside the user lock; the entry stores the quantity as
// a negative number.
func (s *TradingService) Sell(ctx context.Context, userID, symbol string, shares int64) (*entity.LedgerEntry, error) {
	q, err := lookupQuote(ctx, s.Quotes, symbol)
	if err != nil {
		return nil, err
	}
	if shares <= 0 {
		return nil, ErrInvalidQuantity
	}
	proceeds := money.Round(q.Price.Mul(decimal.NewFromInt(shares)))

	entry := &entity.LedgerEntry{
		UserID:     userID,
		Type:       entity.EntrySell,
		Symbol:     q.Symbol,
		Shares:     -shares,
		Price:      q.Price,
		Total:      proceeds,
		Transacted: time.Now().UTC(),
	}
	err = s.Ledger.WithUser(ctx, userID, func(tx repo.LedgerTx) error {
		owned, err := tx.SharesOf(ctx, q.Symbol)
		if err != nil {
			return err
		}
		if shares > owned {
			return ErrInsufficientShares
		}
		if err := tx.Append(ctx, entry); err != nil {
			return err
		}
		_, err = tx.AdjustCash(ctx, proceeds)
		return err
	})
	if err != nil {
		return nil, storeErr(err)
	}
	s.afterCommit(ctx, userID, entry)
	return entry, nil
}

// Transfer moves cash in or out of the account. Amounts are positive
// decimals with at most two fraction digits.
func (s *TradingService) Transfer(ctx context.Context, userID string, direction entity.TransferDirection, amount decimal.Decimal) (*entity.LedgerEntry, error) {
	if direction != entity.TransferIn && direction != entity.TransferOut {
		return nil, ErrInvalidAmount
	}
	if amount.LessThanOrEqual(decimal.Zero) || !money.WholeCents(amount) {
		return nil, ErrInvalidAmount
	}

	entry := &entity.LedgerEntry{
		UserID:     userID,
		Type:       direction.EntryType(),
		Total:      amount,
		Transacted: time.Now().UTC(),
	}
	err := s.Ledger.WithUser(ctx, userID, func(tx repo.LedgerTx) error {
		if direction == entity.TransferOut {
			cash, err := tx.Cash(ctx)
			if err != nil {
				return err
			}
			if amount.GreaterThan(cash) {
				return ErrInsufficientFunds
			}
		}
		if err := tx.Append(ctx, entry); err != nil {
			return err
		}
		_, err := tx.AdjustCash(ctx, entry.CashEffect())
		return err
	})
	if err != nil {
		return nil, storeErr(err)
	}
	s.afterCommit(ctx, userID, entry)
	return entry, nil
}

// History returns the user's raw ledger entries, oldest first.
func (s *TradingService) History(ctx context.Context, userID string) ([]entity.LedgerEntry, error) {
	entries, err := s.Ledger.EntriesFor(ctx, userID, "")
	if err != nil {
		return nil, storeErr(err)
	}
	return entries, nil
}

// afterCommit runs the best-effort side channels for a committed entry:
// a receipt email job and the search index. Failures are logged and never
// affect the committed trade.
func (s *TradingService) afterCommit(ctx context.Context, userID string, e *entity.LedgerEntry) {
	s.publishReceipt(ctx, userID, e)
	s.indexEntry(ctx, e)
}

func (s *TradingService) publishReceipt(ctx context.Context, userID string, e *entity.LedgerEntry) {
	if s.Pub == nil {
		return
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil || u == nil || u.Email == "" {
		return
	}
	job := mailer.EmailJob{
		To:      u.Email,
		Subject: "stockx receipt: " + receiptLine(e),
		Text: fmt.Sprintf("Hi %s,\n\n%s on %s.\n\nThis is an automated receipt for your records.\n",
			u.Username, receiptLine(e), e.Transacted.Format(time.RFC1123)),
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("receipt publish failed")
	}
}

func receiptLine(e *entity.LedgerEntry) string {
	switch e.Type {
	case entity.EntryBuy:
		return fmt.Sprintf("Bought %d share(s) of %s for %s", e.Shares, e.Symbol, money.USD(e.Total))
	case entity.EntrySell:
		return fmt.Sprintf("Sold %d share(s) of %s for %s", -e.Shares, e.Symbol, money.USD(e.Total))
	case entity.EntryTransferOut:
		return fmt.Sprintf("Transferred out %s", money.USD(e.Total))
	default:
		return fmt.Sprintf("Transferred in %s", money.USD(e.Total))
	}
}

func (s *TradingService) indexEntry(ctx context.Context, e *entity.LedgerEntry) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"entry_id":   e.ID,
		"user_id":    e.UserID,
		"type":       string(e.Type),
		"symbol":     e.Symbol,
		"shares":     e.Shares,
		"price":      e.Price.String(),
		"total":      e.Total.String(),
		"transacted": e.Transacted.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.ESIndex,
		DocumentID: fmt.Sprintf("%s-%d", e.UserID, e.ID),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", e.UserID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", e.UserID).Warn("es index response error")
	}
}

// SearchHistory queries the search index for the user's ledger entries
// matching q (symbol or entry type). Returns raw documents.
func (s *TradingService) SearchHistory(ctx context.Context, userID, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []map[string]any{
					{"term": map[string]any{"user_id": userID}},
				},
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  strings.ToUpper(strings.TrimSpace(q)),
						"fields": []string{"symbol^2", "type"},
					},
				},
			},
		},
		"size": size,
		"sort": []map[string]any{{"transacted": map[string]any{"order": "desc"}}},
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

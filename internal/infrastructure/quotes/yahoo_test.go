package quotes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfalcone/stockx/internal/domain/repository"
)

func chartBody(symbol, longName string, price float64) string {
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"symbol":%q,"longName":%q,"regularMarketPrice":%v}}],"error":null}}`,
		symbol, longName, price)
}

func TestYahooLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/NFLX", r.URL.Path)
		fmt.Fprint(w, chartBody("NFLX", "Netflix, Inc.", 180.504))
	}))
	defer srv.Close()

	p := NewYahooProviderWithBase(srv.URL)
	q, err := p.Lookup(context.Background(), "NFLX")
	require.NoError(t, err)
	assert.Equal(t, "NFLX", q.Symbol)
	assert.Equal(t, "Netflix, Inc.", q.Name)
	assert.Equal(t, "180.5", q.Price.String())
}

func TestYahooLookupEscapesSymbolInPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/A%2FB", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewYahooProviderWithBase(srv.URL)
	_, err := p.Lookup(context.Background(), "A/B")
	assert.ErrorIs(t, err, repository.ErrUnknownSymbol)
}

func TestYahooLookupUnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewYahooProviderWithBase(srv.URL)
	_, err := p.Lookup(context.Background(), "NOPE")
	assert.ErrorIs(t, err, repository.ErrUnknownSymbol)
}

func TestYahooLookupEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
	}))
	defer srv.Close()

	p := NewYahooProviderWithBase(srv.URL)
	_, err := p.Lookup(context.Background(), "NFLX")
	assert.ErrorIs(t, err, repository.ErrUnknownSymbol)
}

func TestYahooLookupNonPositivePrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody("ZERO", "Zero Corp", 0))
	}))
	defer srv.Close()

	p := NewYahooProviderWithBase(srv.URL)
	_, err := p.Lookup(context.Background(), "ZERO")
	assert.ErrorIs(t, err, repository.ErrUnknownSymbol)
}

func TestYahooLookupServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewYahooProviderWithBase(srv.URL)
	_, err := p.Lookup(context.Background(), "NFLX")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrUnknownSymbol)
}

package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kfenwick/folio/internal/models"
	"github.com/kfenwick/folio/internal/pricefeed"
)

// handleTransactions handles GET (list) and POST (append) on /api/transactions.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	ctx := r.Context()
	store := s.app.Storage.LedgerStore()

	switch r.Method {
	case http.MethodGet:
		txs, err := store.ListTransactions(ctx)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"transactions": txs,
			"count":        len(txs),
		})

	case http.MethodPost:
		var tx models.Transaction
		if !DecodeJSON(w, r, &tx) {
			return
		}
		if err := store.SaveTransaction(ctx, &tx); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, tx)
	}
}

// handleTransactionByID handles GET/PUT/DELETE on /api/transactions/{id}.
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete) {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Transaction ID is required")
		return
	}
	ctx := r.Context()
	store := s.app.Storage.LedgerStore()

	switch r.Method {
	case http.MethodGet:
		tx, err := store.GetTransaction(ctx, id)
		if err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, tx)

	case http.MethodPut:
		var tx models.Transaction
		if !DecodeJSON(w, r, &tx) {
			return
		}
		tx.ID = id
		if err := store.SaveTransaction(ctx, &tx); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, tx)

	case http.MethodDelete:
		if err := store.DeleteTransaction(ctx, id); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
	}
}

// handleInstruments handles GET (list) and POST (upsert) on /api/instruments.
func (s *Server) handleInstruments(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	ctx := r.Context()
	store := s.app.Storage.LedgerStore()

	switch r.Method {
	case http.MethodGet:
		instruments, err := store.ListInstruments(ctx)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"instruments": instruments,
			"count":       len(instruments),
		})

	case http.MethodPost:
		var ins models.Instrument
		if !DecodeJSON(w, r, &ins) {
			return
		}
		if err := store.SaveInstrument(ctx, &ins); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, ins)
	}
}

// handleInstrumentByTicker handles GET/DELETE on /api/instruments/{ticker}.
func (s *Server) handleInstrumentByTicker(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodDelete) {
		return
	}
	ticker := strings.TrimPrefix(r.URL.Path, "/api/instruments/")
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "Ticker is required")
		return
	}
	ctx := r.Context()
	store := s.app.Storage.LedgerStore()

	switch r.Method {
	case http.MethodGet:
		ins, err := store.GetInstrument(ctx, ticker)
		if err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, ins)

	case http.MethodDelete:
		if err := store.DeleteInstrument(ctx, ticker); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": strings.ToUpper(ticker)})
	}
}

// handlePrices handles GET /api/prices?ticker=X (list stored price points).
func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ctx := r.Context()
	store := s.app.Storage.LedgerStore()

	ticker := r.URL.Query().Get("ticker")
	var (
		prices []models.PricePoint
		err    error
	)
	if ticker != "" {
		prices, err = store.ListPrices(ctx, ticker)
	} else {
		prices, err = store.ListAllPrices(ctx)
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"prices": prices,
		"count":  len(prices),
	})
}

// handlePriceSync handles POST /api/prices/sync: a raw provider payload is
// parsed at the boundary and valid points are stored. Rejected records are
// reported, not fatal.
func (s *Server) handlePriceSync(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	ctx := r.Context()

	var req struct {
		Ticker   string          `json:"ticker"`
		Currency string          `json:"currency"`
		Payload  json.RawMessage `json:"payload"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.Payload) == 0 {
		WriteError(w, http.StatusBadRequest, "Payload is required")
		return
	}

	points, parseErrs := pricefeed.ParsePayload(req.Payload, req.Ticker, req.Currency)
	stored, err := s.app.Storage.LedgerStore().SavePricePoints(ctx, points)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info().
		Str("ticker", req.Ticker).
		Int("stored", stored).
		Int("rejected", len(parseErrs)).
		Msg("Price sync complete")

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"stored":   stored,
		"rejected": parseErrs,
	})
}

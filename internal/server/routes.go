package server

import (
	"net/http"

	"github.com/kfenwick/folio/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Ledger
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/transactions/", s.handleTransactionByID)
	mux.HandleFunc("/api/instruments", s.handleInstruments)
	mux.HandleFunc("/api/instruments/", s.handleInstrumentByTicker)
	mux.HandleFunc("/api/prices", s.handlePrices)
	mux.HandleFunc("/api/prices/sync", s.handlePriceSync)

	// Portfolio
	mux.HandleFunc("/api/portfolio/valuation", s.handleValuation)
	mux.HandleFunc("/api/portfolio/series", s.handleSeries)
	mux.HandleFunc("/api/portfolio/analytics", s.handleAnalytics)
	mux.HandleFunc("/api/portfolio/xirr", s.handleXIRR)
	mux.HandleFunc("/api/portfolio/rebalance", s.handleRebalance)
	mux.HandleFunc("/api/portfolio/chart", s.handleChart)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

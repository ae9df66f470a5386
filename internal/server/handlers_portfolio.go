package server

import (
	"net/http"
	"strconv"

	"github.com/kfenwick/folio/internal/interfaces"
	"github.com/kfenwick/folio/internal/models"
)

// seriesOptionsFromQuery builds series options from query parameters.
// Unset values fall through to the service defaults.
func seriesOptionsFromQuery(r *http.Request) interfaces.SeriesOptions {
	opts := interfaces.SeriesOptions{
		Granularity: models.Granularity(r.URL.Query().Get("granularity")),
	}
	if raw := r.URL.Query().Get("window_months"); raw != "" {
		if months, err := strconv.Atoi(raw); err == nil {
			opts.WindowMonths = months
		}
	}
	return opts
}

// handleValuation handles GET /api/portfolio/valuation?as_of=YYYY-MM-DD.
func (s *Server) handleValuation(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	asOf, err := parseDateParam(r.URL.Query().Get("as_of"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid as_of date, want YYYY-MM-DD")
		return
	}

	snapshot, err := s.app.ValuationService.Valuation(r.Context(), asOf)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, snapshot)
}

// handleSeries handles GET /api/portfolio/series.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	opts := seriesOptionsFromQuery(r)
	if opts.Granularity != "" && !models.ValidGranularity(opts.Granularity) {
		WriteError(w, http.StatusBadRequest, "Invalid granularity, want monthly or daily")
		return
	}

	series, err := s.app.ValuationService.Series(r.Context(), opts)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, series)
}

// handleAnalytics handles GET /api/portfolio/analytics.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	opts := seriesOptionsFromQuery(r)
	if opts.Granularity != "" && !models.ValidGranularity(opts.Granularity) {
		WriteError(w, http.StatusBadRequest, "Invalid granularity, want monthly or daily")
		return
	}

	analytics, err := s.app.ValuationService.Analytics(r.Context(), opts)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, analytics)
}

// handleXIRR handles GET /api/portfolio/xirr?as_of=YYYY-MM-DD. An
// indeterminate rate is reported as xirr_pct: null.
func (s *Server) handleXIRR(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	asOf, err := parseDateParam(r.URL.Query().Get("as_of"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid as_of date, want YYYY-MM-DD")
		return
	}

	rate, ok, err := s.app.ValuationService.XIRR(r.Context(), asOf)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var ratePct *float64
	if ok {
		pct := rate * 100
		ratePct = &pct
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"xirr_pct":      ratePct,
		"indeterminate": !ok,
	})
}

// handleRebalance handles POST /api/portfolio/rebalance.
func (s *Server) handleRebalance(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Strategy  models.RebalanceStrategy `json:"strategy"`
		CashToPut float64                  `json:"cash_to_put"`
		BandPct   float64                  `json:"band_pct"`
		AsOf      string                   `json:"as_of"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	asOf, err := parseDateParam(req.AsOf)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid as_of date, want YYYY-MM-DD")
		return
	}

	orders, err := s.app.ValuationService.Rebalance(r.Context(), interfaces.RebalanceOptions{
		Strategy:  req.Strategy,
		CashToPut: req.CashToPut,
		BandPct:   req.BandPct,
		AsOfDate:  asOf,
	})
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
	})
}

// handleChart handles GET /api/portfolio/chart, returning a PNG.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	opts := seriesOptionsFromQuery(r)

	png, err := s.app.ValuationService.RenderChart(r.Context(), opts)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// Package pricefeed parses loosely-typed price provider payloads into strict
// PricePoint records. Provider schema drift stops here; the engine only ever
// sees validated points.
package pricefeed

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kfenwick/folio/internal/models"
)

// ParseError describes one rejected record. Index refers to the record's
// position in the payload.
type ParseError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

func (e ParseError) Error() string {
	return fmt.Sprintf("record %d: %s", e.Index, e.Reason)
}

// dateLayouts are tried in order when parsing record dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// ParsePayload decodes a JSON array of provider records into price points.
// Field names vary by provider (ticker/symbol/code, close/price/adjusted_close,
// date/timestamp), so each record is inspected as a generic map. Rejected
// records are reported alongside the accepted ones; a rejected record never
// fails the batch.
func ParsePayload(payload []byte, defaultTicker, defaultCurrency string) ([]models.PricePoint, []ParseError) {
	var raw []map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		// Some providers wrap the array in an envelope.
		var envelope struct {
			Data []map[string]any `json:"data"`
		}
		if err2 := json.Unmarshal(payload, &envelope); err2 != nil || envelope.Data == nil {
			return nil, []ParseError{{Index: -1, Reason: fmt.Sprintf("payload is not a record array: %v", err)}}
		}
		raw = envelope.Data
	}

	points := make([]models.PricePoint, 0, len(raw))
	var errs []ParseError
	for i, record := range raw {
		point, err := parseRecord(record, defaultTicker, defaultCurrency)
		if err != nil {
			errs = append(errs, ParseError{Index: i, Reason: err.Error()})
			continue
		}
		points = append(points, point)
	}
	return points, errs
}

func parseRecord(record map[string]any, defaultTicker, defaultCurrency string) (models.PricePoint, error) {
	ticker := stringField(record, "ticker", "symbol", "code")
	if ticker == "" {
		ticker = defaultTicker
	}
	if ticker == "" {
		return models.PricePoint{}, fmt.Errorf("missing ticker")
	}

	dateRaw := stringField(record, "date", "datetime", "timestamp")
	if dateRaw == "" {
		return models.PricePoint{}, fmt.Errorf("missing date")
	}
	date, err := parseDate(dateRaw)
	if err != nil {
		return models.PricePoint{}, fmt.Errorf("invalid date '%s'", dateRaw)
	}

	close, ok := numberField(record, "close", "adjusted_close", "price", "last")
	if !ok {
		return models.PricePoint{}, fmt.Errorf("missing close price")
	}
	if math.IsNaN(close) || math.IsInf(close, 0) || close < 0 {
		return models.PricePoint{}, fmt.Errorf("close price %v out of range", close)
	}

	currency := stringField(record, "currency")
	if currency == "" {
		currency = defaultCurrency
	}

	return models.PricePoint{
		Ticker:   strings.ToUpper(ticker),
		Date:     date,
		Close:    close,
		Currency: currency,
	}, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	// Unix seconds
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil && secs > 0 {
		t := time.Unix(secs, 0).UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unrecognised date format")
}

func stringField(record map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := record[key]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func numberField(record map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		v, ok := record[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return f, true
			}
		case json.Number:
			if f, err := n.Float64(); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

package dto

import (
	"encoding/json"
	"strconv"
	"strings"
)

// LogValue decodes the "value" field leniently: a JSON number, a numeric
// string, or anything else (absent, null, garbage) which counts as 0.
// Clients send whatever the active widget produced, so a strict binding
// here would reject otherwise valid log writes.
type LogValue struct{ v float64 }

func (lv *LogValue) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		lv.v = n
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			lv.v = n
			return nil
		}
	}
	lv.v = 0
	return nil
}

// Float returns the decoded value, 0 when nothing numeric was sent.
func (lv LogValue) Float() float64 { return lv.v }

// UpsertLogRequest is the JSON body for POST /logs.
type UpsertLogRequest struct {
	Date  string   `json:"date" binding:"required"`
	Type  string   `json:"type" binding:"required"`
	Value LogValue `json:"value"`
}

// LogResponse is one entry in the GET /logs payload.
type LogResponse struct {
	Date  string  `json:"date"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// ListLogsResponse is the GET /logs payload.
type ListLogsResponse struct {
	Logs []LogResponse `json:"logs"`
}

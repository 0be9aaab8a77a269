package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogValue_Lenient(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{name: "number", body: `{"date":"2024-01-01","type":"steps","value":500}`, want: 500},
		{name: "float", body: `{"date":"2024-01-01","type":"steps","value":2.5}`, want: 2.5},
		{name: "numeric string", body: `{"date":"2024-01-01","type":"steps","value":"250"}`, want: 250},
		{name: "padded numeric string", body: `{"date":"2024-01-01","type":"steps","value":" 250 "}`, want: 250},
		{name: "garbage string", body: `{"date":"2024-01-01","type":"steps","value":"lots"}`, want: 0},
		{name: "null", body: `{"date":"2024-01-01","type":"steps","value":null}`, want: 0},
		{name: "object", body: `{"date":"2024-01-01","type":"steps","value":{"n":1}}`, want: 0},
		{name: "absent", body: `{"date":"2024-01-01","type":"steps"}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpsertLogRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.Value.Float())
		})
	}
}

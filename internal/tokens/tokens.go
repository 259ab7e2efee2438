// Package tokens estimates LLM token usage for the benchmark command,
// comparing the compact wire form against JSON and natural-language
// equivalents of the same message.
package tokens

import (
	"encoding/json"
	"strings"

	"github.com/drixl/drixl-go/internal/protocol"
)

// Estimate approximates the LLM token count of a string using the common
// ~4 chars per token heuristic for English text.
func Estimate(s string) int {
	return (len(s) + 3) / 4
}

// Count holds the token estimate for one rendering of a message.
type Count struct {
	Format string  `json:"format"`
	Tokens int     `json:"tokens"`
	Ratio  float64 `json:"ratio"` // relative to the compact form
}

// Comparison is the result of comparing a message across formats.
type Comparison struct {
	Counts []Count `json:"counts"`

	// SavingsVsNatural is the percentage of tokens saved by the compact
	// form relative to the natural-language rendering.
	SavingsVsNatural float64 `json:"savings_vs_natural"`
}

// Compare renders m as compact wire text, JSON, and natural language, and
// estimates token usage for each.
func Compare(m *protocol.CompactMessage) Comparison {
	compact := Estimate(m.Encode())

	jsonBytes, _ := json.Marshal(map[string]any{
		"to":           m.To,
		"from":         m.From,
		"message_type": m.Type,
		"priority":     m.Priority,
		"actions":      m.Actions,
		"parameters":   m.Params,
	})
	jsonTokens := Estimate(string(jsonBytes))

	natural := "Agent " + m.From + " to Agent " + m.To + ": Please " +
		strings.ToLower(strings.Join(m.Actions, ", ")) +
		" with parameters " + strings.Join(m.Params, ", ") +
		". Priority: " + string(m.Priority) + "."
	naturalTokens := Estimate(natural)

	cmp := Comparison{
		Counts: []Count{
			{Format: "drixl", Tokens: compact, Ratio: 1.0},
			{Format: "json", Tokens: jsonTokens, Ratio: ratio(jsonTokens, compact)},
			{Format: "natural", Tokens: naturalTokens, Ratio: ratio(naturalTokens, compact)},
		},
	}
	if naturalTokens > 0 {
		cmp.SavingsVsNatural = float64(naturalTokens-compact) / float64(naturalTokens) * 100
	}
	return cmp
}

func ratio(n, base int) float64 {
	if base == 0 {
		return 0
	}
	return float64(n) / float64(base)
}

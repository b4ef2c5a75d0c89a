package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrParse means the model response was not the expected JSON array.
var ErrParse = errors.New("unparseable model response")

// CleanResponse strips the markdown code fences models wrap JSON in
// despite instructions, plus surrounding whitespace.
func CleanResponse(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// rawCandidate tolerates quantity/price arriving as JSON numbers or
// strings; both show up in practice.
type rawCandidate struct {
	Product  string `json:"product"`
	Quantity any    `json:"quantity"`
	Price    any    `json:"price"`
}

// ParseCandidates decodes a cleaned model response into candidates.
// Elements without a product are dropped.
func ParseCandidates(cleaned string) ([]Candidate, error) {
	var raw []rawCandidate
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	candidates := make([]Candidate, 0, len(raw))
	for _, r := range raw {
		product := strings.TrimSpace(r.Product)
		if product == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			Product:  product,
			Quantity: amountString(r.Quantity),
			Price:    amountString(r.Price),
		})
	}
	return candidates, nil
}

// amountString renders a JSON number or numeric string as a decimal
// string, or "" when absent or malformed.
func amountString(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return ""
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return ""
		}
		return s
	default:
		return ""
	}
}

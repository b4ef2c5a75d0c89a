package extract

import (
	"errors"
	"testing"
)

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", `[{"product":"Pan"}]`, `[{"product":"Pan"}]`},
		{"json fence", "```json\n[{\"product\":\"Pan\"}]\n```", `[{"product":"Pan"}]`},
		{"bare fence", "```\n[]\n```", `[]`},
		{"whitespace", "  []  \n", `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanResponse(tt.raw); got != tt.want {
				t.Errorf("CleanResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCandidates_TwoDeodorants(t *testing.T) {
	// Canned response for "2 desodorantes de 45 pesos y uno de 25 pesos".
	resp := `[{"product":"Desodorante","quantity":2.0,"price":45.0},{"product":"Desodorante","quantity":1.0,"price":25.0}]`
	got, err := ParseCandidates(resp)
	if err != nil {
		t.Fatalf("ParseCandidates: %v", err)
	}
	want := []Candidate{
		{Product: "Desodorante", Quantity: "2", Price: "45"},
		{Product: "Desodorante", Quantity: "1", Price: "25"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseCandidates_WeightAsKiloFraction(t *testing.T) {
	// Canned response for "323 gramos de tomate a 80 el kilo".
	resp := `[{"product":"Tomate","quantity":0.323,"price":80.0}]`
	got, err := ParseCandidates(resp)
	if err != nil {
		t.Fatalf("ParseCandidates: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].Quantity != "0.323" || got[0].Price != "80" {
		t.Errorf("candidate = %+v, want quantity 0.323 price 80", got[0])
	}
}

func TestParseCandidates_StringAmounts(t *testing.T) {
	resp := `[{"product":"Leche","quantity":"2","price":"30.5"}]`
	got, err := ParseCandidates(resp)
	if err != nil {
		t.Fatalf("ParseCandidates: %v", err)
	}
	if got[0].Quantity != "2" || got[0].Price != "30.5" {
		t.Errorf("candidate = %+v", got[0])
	}
}

func TestParseCandidates_MissingAmounts(t *testing.T) {
	resp := `[{"product":"Yerba"}]`
	got, err := ParseCandidates(resp)
	if err != nil {
		t.Fatalf("ParseCandidates: %v", err)
	}
	if got[0].Quantity != "" || got[0].Price != "" {
		t.Errorf("missing amounts should stay empty, got %+v", got[0])
	}
}

func TestParseCandidates_DropsEmptyProducts(t *testing.T) {
	resp := `[{"product":""},{"product":"  "},{"product":"Pan"}]`
	got, err := ParseCandidates(resp)
	if err != nil {
		t.Fatalf("ParseCandidates: %v", err)
	}
	if len(got) != 1 || got[0].Product != "Pan" {
		t.Errorf("got %+v, want only Pan", got)
	}
}

func TestParseCandidates_EmptyArray(t *testing.T) {
	got, err := ParseCandidates(`[]`)
	if err != nil {
		t.Fatalf("ParseCandidates: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d candidates, want 0", len(got))
	}
}

func TestParseCandidates_Malformed(t *testing.T) {
	for _, resp := range []string{`not json`, `{"product":"Pan"}`, `"Pan"`} {
		if _, err := ParseCandidates(resp); !errors.Is(err, ErrParse) {
			t.Errorf("ParseCandidates(%q) error = %v, want ErrParse", resp, err)
		}
	}
}

func TestParseCandidates_MalformedAmountsIgnored(t *testing.T) {
	resp := `[{"product":"Pan","quantity":"dos","price":true}]`
	got, err := ParseCandidates(resp)
	if err != nil {
		t.Fatalf("ParseCandidates: %v", err)
	}
	if got[0].Quantity != "" || got[0].Price != "" {
		t.Errorf("malformed amounts should be dropped, got %+v", got[0])
	}
}

package classifier

import (
	"testing"

	"github.com/d4-dhiraj/SpendWise-AI/internal/domain"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]interface{}
	}{
		{
			name: "bare object",
			raw:  `{"amount": 12.5}`,
			want: map[string]interface{}{"amount": 12.5},
		},
		{
			name: "json fence",
			raw:  "```json\n{\"merchant\": \"Cafe\"}\n```",
			want: map[string]interface{}{"merchant": "Cafe"},
		},
		{
			name: "plain fence",
			raw:  "```\n{\"merchant\": \"Cafe\"}\n```",
			want: map[string]interface{}{"merchant": "Cafe"},
		},
		{
			name: "prose around the object",
			raw:  "Here is the result: {\"amount\": 3} hope that helps",
			want: map[string]interface{}{"amount": float64(3)},
		},
		{
			name: "unparseable yields empty map",
			raw:  "no json here",
			want: map[string]interface{}{},
		},
		{
			name: "empty input",
			raw:  "",
			want: map[string]interface{}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJSON(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("extractJSON() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("extractJSON()[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	r := normalize(map[string]interface{}{})
	if r.Amount != 0 {
		t.Errorf("Amount = %v, want 0", r.Amount)
	}
	if r.Merchant != "Unknown" {
		t.Errorf("Merchant = %q, want Unknown", r.Merchant)
	}
	if r.Category != domain.CategoryOther {
		t.Errorf("Category = %q, want Other", r.Category)
	}
	if r.Type != domain.Debit {
		t.Errorf("Type = %q, want debit", r.Type)
	}
}

func TestNormalize(t *testing.T) {
	r := normalize(map[string]interface{}{
		"amount":   42.5,
		"merchant": "Coffee Shop",
		"category": "food",
		"type":     "credit",
	})
	if r.Amount != 42.5 {
		t.Errorf("Amount = %v, want 42.5", r.Amount)
	}
	if r.Merchant != "Coffee Shop" {
		t.Errorf("Merchant = %q", r.Merchant)
	}
	if r.Category != domain.CategoryFood {
		t.Errorf("Category = %q, want Food", r.Category)
	}
	if r.Type != domain.Credit {
		t.Errorf("Type = %q, want credit", r.Type)
	}
}

func TestNormalizeNegativeAmount(t *testing.T) {
	r := normalize(map[string]interface{}{"amount": -30.0, "type": "debit"})
	if r.Amount != 30 {
		t.Errorf("Amount = %v, want 30; sign belongs to the type", r.Amount)
	}
	if r.Type != domain.Debit {
		t.Errorf("Type = %q, want debit", r.Type)
	}
}

func TestNormalizeStringAmount(t *testing.T) {
	r := normalize(map[string]interface{}{"amount": "19.99"})
	if r.Amount != 19.99 {
		t.Errorf("Amount = %v, want 19.99", r.Amount)
	}
}

func TestNormalizeUnknownCategory(t *testing.T) {
	r := normalize(map[string]interface{}{"category": "Groceries"})
	if r.Category != domain.CategoryOther {
		t.Errorf("Category = %q, want fallback Other", r.Category)
	}
}

package classifier

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/d4-dhiraj/SpendWise-AI/internal/domain"
)

const classifySystemPrompt = "Extract: Amount (number), Merchant (name), " +
	"Category (Food, Travel, Fun, Academic, Other), and Type (credit/debit). " +
	"Return strictly as a JSON object with fields: amount, merchant, category, type.\n" +
	"Return ONLY valid raw JSON.\n" +
	"Do NOT wrap the response in code fences.\n" +
	"Do NOT use ```json or any Markdown."

// Gemini is the concrete Classifier backed by the Gemini API.
type Gemini struct {
	model string
}

// NewGemini creates a Gemini classifier using the given model name.
func NewGemini(model string) *Gemini {
	return &Gemini{model: model}
}

// ClassifyMessage implements the Classifier interface for free-text input.
func (g *Gemini) ClassifyMessage(ctx context.Context, text string) (Result, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: fmt.Sprintf("Classify this bank message and extract transaction details: %q", text)},
			},
		},
	}
	return g.generate(ctx, contents)
}

// ClassifyReceipt implements the Classifier interface for image input.
func (g *Gemini) ClassifyReceipt(ctx context.Context, image []byte, mimeType string) (Result, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     image,
					},
				},
				{Text: "Extract receipt data: Merchant, Amount, Category, Type. Return as JSON."},
			},
		},
	}
	return g.generate(ctx, contents)
}

func (g *Gemini) generate(ctx context.Context, contents []*genai.Content) (Result, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return Result{}, fmt.Errorf("classify: create genai client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: classifySystemPrompt}},
		},
		ResponseMIMEType: "application/json",
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return Result{}, fmt.Errorf("classify: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return Result{}, fmt.Errorf("classify: empty response from model")
	}

	// A malformed body is not an error: the contract is best-effort, so the
	// normalizer defaults whatever is missing or unusable.
	return normalize(extractJSON(rawText)), nil
}

// normalize applies the per-field defaulting rules to the untrusted model
// output: amount -> 0, merchant -> "Unknown", category -> Other,
// type -> debit. Negative amounts fold to their absolute value; sign is
// carried by the type, never by the number.
func normalize(raw map[string]interface{}) Result {
	r := Result{
		Amount:   0,
		Merchant: "Unknown",
		Category: domain.CategoryOther,
		Type:     domain.Debit,
	}

	if amt, ok := asFloat(raw["amount"]); ok {
		if amt < 0 {
			amt = -amt
		}
		r.Amount = amt
	}
	if m, ok := raw["merchant"].(string); ok && m != "" {
		r.Merchant = m
	}
	if c, ok := raw["category"].(string); ok {
		r.Category = domain.ParseCategory(c)
	}
	if t, ok := raw["type"].(string); ok {
		r.Type = domain.ParseTransactionType(t)
	}
	return r
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(n, "%g", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

// Ensure Gemini implements the Classifier interface.
var _ Classifier = (*Gemini)(nil)

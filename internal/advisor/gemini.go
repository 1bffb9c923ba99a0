package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/d4-dhiraj/SpendWise-AI/internal/analytics"
	"github.com/d4-dhiraj/SpendWise-AI/internal/domain"
)

// generate is the seam under the Gemini client; tests replace it to exercise
// the fallback paths without the network.
type generate func(ctx context.Context, model, system, prompt string, wantJSON bool) (string, error)

// Gemini is the concrete Advisor backed by the Gemini API. The fast model
// handles conversational calls, the pro model the analytical ones.
type Gemini struct {
	fastModel string
	proModel  string
	gen       generate
	log       zerolog.Logger
}

// NewGemini creates a Gemini advisor.
func NewGemini(fastModel, proModel string, log zerolog.Logger) *Gemini {
	return &Gemini{
		fastModel: fastModel,
		proModel:  proModel,
		gen:       geminiGenerate,
		log:       log,
	}
}

func geminiGenerate(ctx context.Context, model, system, prompt string, wantJSON bool) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("advisor: create genai client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
	}
	if wantJSON {
		cfg.ResponseMIMEType = "application/json"
	}

	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}

	resp, err := client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("advisor: generate content: %w", err)
	}
	return resp.Text(), nil
}

// Runway implements the Advisor interface.
func (g *Gemini) Runway(ctx context.Context, req analytics.RunwayRequest) RunwayAnalysis {
	history, _ := json.Marshal(req.History)
	prompt := fmt.Sprintf("Transactions: %s. Balance: %.2f.", history, req.Balance)
	system := "Analyze runway based on history and balance. Return JSON: " +
		"zeroDate (ISO string), daysRemaining (number), burnRatePerDay (number), " +
		"warningLevel (1-10), advice (string)."

	raw, err := g.gen(ctx, g.proModel, system, prompt, true)
	if err != nil {
		g.log.Error().Err(err).Msg("Runway analysis failed")
		return fallbackRunway
	}
	var out RunwayAnalysis
	if err := decodeJSON(raw, &out); err != nil {
		g.log.Error().Err(err).Msg("Runway analysis returned malformed JSON")
		return fallbackRunway
	}
	return out
}

// PeerComparison implements the Advisor interface.
func (g *Gemini) PeerComparison(ctx context.Context, req analytics.PeerRequest) []ComparisonData {
	spend, _ := json.Marshal(req.Spending)
	prompt := fmt.Sprintf("User Spending: %s. Provide average peer benchmarks.", spend)
	system := "Generate realistic 'average student' monthly spending benchmarks " +
		"for these categories. Provide a comparison JSON array with: category, " +
		"userAmount, peerAmount, and insight."

	raw, err := g.gen(ctx, g.proModel, system, prompt, true)
	if err != nil {
		g.log.Error().Err(err).Msg("Peer comparison failed")
		return []ComparisonData{}
	}
	var out []ComparisonData
	if err := decodeJSON(raw, &out); err != nil {
		g.log.Error().Err(err).Msg("Peer comparison returned malformed JSON")
		return []ComparisonData{}
	}
	return out
}

// GoalStrategy implements the Advisor interface.
func (g *Gemini) GoalStrategy(ctx context.Context, req analytics.GoalStrategyRequest) GoalStrategy {
	history, _ := json.Marshal(req.Recent)
	prompt := fmt.Sprintf("Goal: %.2f for %s. History: %s", req.Remaining, req.GoalTitle, history)
	system := "Suggest one specific item to skip from the user's history to " +
		"reach the goal. Return JSON: itemToSkip, avgCostPerItem, skipsRequired, " +
		"encouragement."

	raw, err := g.gen(ctx, g.proModel, system, prompt, true)
	if err != nil {
		g.log.Error().Err(err).Msg("Goal strategy failed")
		return fallbackStrategy
	}
	var out GoalStrategy
	if err := decodeJSON(raw, &out); err != nil {
		g.log.Error().Err(err).Msg("Goal strategy returned malformed JSON")
		return fallbackStrategy
	}
	return out
}

// BuddyFeedback implements the Advisor interface.
func (g *Gemini) BuddyFeedback(ctx context.Context, stats analytics.BuddyStats) string {
	prompt := fmt.Sprintf("Stats: Fun %.2f, Total %.2f, Streak %d.",
		stats.FunTotal, stats.TotalSpent, stats.Streak)
	system := "You are Balthazar, a witty AI owl financial counselor. Give 1-2 " +
		"punchy feedback sentences based on the user's spending stats."

	raw, err := g.gen(ctx, g.fastModel, system, prompt, false)
	if err != nil {
		g.log.Error().Err(err).Msg("Buddy feedback failed")
		return fallbackBuddy
	}
	if raw = strings.TrimSpace(raw); raw == "" {
		return "Watch your wallet."
	}
	return raw
}

// SavingsTip implements the Advisor interface.
func (g *Gemini) SavingsTip(ctx context.Context, recent []domain.Transaction) string {
	parts := make([]string, 0, 5)
	for _, tx := range recent {
		parts = append(parts, fmt.Sprintf("%s (%.2f)", tx.Merchant, tx.Amount))
		if len(parts) == 5 {
			break
		}
	}
	prompt := fmt.Sprintf("Expenses: %s. Give one actionable saving tip.", strings.Join(parts, ", "))
	system := "Witty student financial advisor. 1 short tip."

	raw, err := g.gen(ctx, g.fastModel, system, prompt, false)
	if err != nil {
		g.log.Error().Err(err).Msg("Savings tip failed")
		return fallbackTip
	}
	if raw = strings.TrimSpace(raw); raw == "" {
		return "Save more."
	}
	return raw
}

// decodeJSON unmarshals model output into v, tolerating Markdown fences and
// prose around the JSON value.
func decodeJSON(raw string, v interface{}) error {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only the outermost JSON value when prose surrounds it.
	objStart := strings.Index(s, "{")
	arrStart := strings.Index(s, "[")
	if arrStart != -1 && (objStart == -1 || arrStart < objStart) {
		if end := strings.LastIndex(s, "]"); end > arrStart {
			s = s[arrStart : end+1]
		}
	} else if objStart != -1 {
		if end := strings.LastIndex(s, "}"); end > objStart {
			s = s[objStart : end+1]
		}
	}

	return json.Unmarshal([]byte(s), v)
}

// Ensure Gemini implements the Advisor interface.
var _ Advisor = (*Gemini)(nil)

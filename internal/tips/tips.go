// tips.go - Budget tip generation: remote AI with a static lookup fallback

package tips

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/snapspend/expense_ai_service/internal/ai"
)

// Expense is the simplified shape the tips endpoint receives per entry.
type Expense struct {
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

// OnboardingTip is returned for an empty expense list, before any remote
// call or table lookup happens.
const OnboardingTip = "Start tracking expenses to get personalized budget tips."

// categoryTips holds short static suggestions per category; the "default"
// list covers categories with no dedicated entries.
var categoryTips = map[string][]string{
	"Food": {
		"Consider meal prepping to reduce dining out costs.",
		"Try local markets for fresher ingredients at lower prices.",
	},
	"Groceries": {
		"Buy in bulk for non-perishable items to save money.",
		"Compare prices between stores for best deals.",
	},
	"Travel": {
		"Book tickets in advance for better prices.",
		"Consider carpooling or public transport options.",
	},
	"Utilities": {
		"Switch to energy-efficient appliances to lower monthly bills.",
		"Review your mobile and internet plans for cheaper alternatives.",
	},
	"Entertainment": {
		"Share streaming subscriptions with family to split costs.",
		"Look for free local events before paying for entertainment.",
	},
	"Shopping": {
		"Wait 48 hours before non-essential purchases to avoid impulse buys.",
		"Track seasonal sales instead of buying at full price.",
	},
	"Health": {
		"Ask about generic medicine alternatives to cut pharmacy costs.",
		"Compare gym memberships yearly; many offer cheaper annual plans.",
	},
	"Rent/Mortgage": {
		"Review your rent against nearby listings before renewing.",
		"Consider refinancing if mortgage rates have dropped.",
	},
	"default": {
		"Review your monthly subscriptions for potential savings.",
		"Set a weekly spending limit to control expenses.",
	},
}

// Generator produces one budgeting tip per request. It never fails and
// always returns non-empty text. A single Generator serves all requests
// concurrently and holds no mutable state.
type Generator struct {
	provider ai.Provider // nil disables the remote path
	timeout  time.Duration
}

// NewGenerator creates a tip generator. provider may be nil.
func NewGenerator(provider ai.Provider, timeout time.Duration) *Generator {
	return &Generator{
		provider: provider,
		timeout:  timeout,
	}
}

// Generate returns one short, actionable budgeting tip. forceSimple skips
// the remote path even when a provider is configured.
func (g *Generator) Generate(ctx context.Context, expenses []Expense, forceSimple bool) string {
	if len(expenses) == 0 {
		return OnboardingTip
	}

	if g.provider == nil || forceSimple {
		return g.staticTip(expenses)
	}

	return ai.WithFallback(ctx, "tips",
		func(ctx context.Context) (string, error) {
			return g.remoteTip(ctx, expenses)
		},
		func() string {
			return g.staticTip(expenses)
		},
	)
}

// staticTip picks a random entry from the dominant category's tip list.
// The top-level rand source is safe for concurrent requests.
func (g *Generator) staticTip(expenses []Expense) string {
	tips, ok := categoryTips[DominantCategory(expenses)]
	if !ok {
		tips = categoryTips["default"]
	}
	return tips[rand.Intn(len(tips))]
}

// remoteTip asks the model for one localized, actionable sentence about the
// two highest-spend categories.
func (g *Generator) remoteTip(ctx context.Context, expenses []Expense) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	top := topCategoryShares(expenses, 2)

	prompt := fmt.Sprintf(`Provide ONE specific budget tip for someone who spends mostly on %s.
Make it:
- Actionable (with concrete steps)
- Specific to these categories
- Culturally appropriate for India
- 1-2 sentences maximum

Example: "For your high Food expenses, try preparing lunch at home 3 days/week to save ~Rs. 2000/month."`,
		strings.Join(top, " and "))

	tip, err := g.provider.Complete(ctx, ai.CompletionRequest{
		Prompt:      prompt,
		Temperature: 0.4,
		MaxTokens:   100,
	})
	if err != nil {
		return "", err
	}

	tip = strings.TrimSpace(tip)
	if tip == "" {
		return "", fmt.Errorf("empty tip from provider")
	}
	return tip, nil
}

// DominantCategory returns the category with the largest summed amount.
// Ties break in favor of the category encountered first in input order.
func DominantCategory(expenses []Expense) string {
	totals := make(map[string]float64)
	var order []string
	for _, e := range expenses {
		if _, seen := totals[e.Category]; !seen {
			order = append(order, e.Category)
		}
		totals[e.Category] += e.Amount
	}

	var dominant string
	var best float64
	for _, category := range order {
		if dominant == "" || totals[category] > best {
			dominant = category
			best = totals[category]
		}
	}
	return dominant
}

// topCategoryShares returns up to n categories formatted with their share of
// total spend, highest first. Ties break by first-encountered input order.
func topCategoryShares(expenses []Expense, n int) []string {
	totals := make(map[string]float64)
	var order []string
	var total float64
	for _, e := range expenses {
		if _, seen := totals[e.Category]; !seen {
			order = append(order, e.Category)
		}
		totals[e.Category] += e.Amount
		total += e.Amount
	}

	sort.SliceStable(order, func(i, j int) bool {
		return totals[order[i]] > totals[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}

	shares := make([]string, len(order))
	for i, category := range order {
		percent := 0.0
		if total > 0 {
			percent = totals[category] / total * 100
		}
		shares[i] = fmt.Sprintf("%s (%.0f%%)", category, percent)
	}
	return shares
}

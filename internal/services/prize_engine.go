package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lankalotto/ticket-validator/internal/models"
	"github.com/lankalotto/ticket-validator/internal/repositories"
	"golang.org/x/exp/slog"
)

// PrizeStructureNotFound is the per-ticket prize label when a lottery has no rules
const PrizeStructureNotFound = "Error: Prize structure not found for this lottery"

// PatternKind is the family a prize pattern belongs to.
type PatternKind int

const (
	PatternUnknown PatternKind = iota
	PatternLetterAndFull
	PatternFullNumbers
	PatternPrefix
	PatternSuffix
	PatternLetterOnly
	PatternAny
)

func (k PatternKind) String() string {
	switch k {
	case PatternLetterAndFull:
		return "letter-and-full"
	case PatternFullNumbers:
		return "full-numbers"
	case PatternPrefix:
		return "prefix"
	case PatternSuffix:
		return "suffix"
	case PatternLetterOnly:
		return "letter-only"
	case PatternAny:
		return "any"
	}
	return "unknown"
}

// PrizePattern is a classified prize pattern. Digits is the number of digits
// compared for prefix, suffix and any patterns.
type PrizePattern struct {
	Kind       PatternKind
	Digits     int
	WithLetter bool
}

var digitCount = regexp.MustCompile(`(\d+)\s+Numbers`)

// ClassifyPattern maps a pattern name such as "Last 3 Numbers Correct" onto
// the matching taxonomy. Positional patterns are checked before the
// full-numbers form so "Last 4 Numbers Correct" is never read as a full match.
func ClassifyPattern(pattern string) PrizePattern {
	p := strings.TrimSpace(pattern)
	if !strings.Contains(p, "Correct") {
		return PrizePattern{Kind: PatternUnknown}
	}
	withLetter := strings.HasPrefix(p, "Letter and")

	switch {
	case strings.Contains(p, "Any"):
		if n, ok := patternDigits(p); ok {
			return PrizePattern{Kind: PatternAny, Digits: n, WithLetter: withLetter}
		}
	case strings.Contains(p, "First"):
		if n, ok := patternDigits(p); ok {
			return PrizePattern{Kind: PatternPrefix, Digits: n, WithLetter: withLetter}
		}
	case strings.Contains(p, "Last"):
		if n, ok := patternDigits(p); ok {
			return PrizePattern{Kind: PatternSuffix, Digits: n, WithLetter: withLetter}
		}
	case withLetter && strings.Contains(p, "Numbers"):
		return PrizePattern{Kind: PatternLetterAndFull}
	case strings.Contains(p, "Numbers Correct") && !strings.Contains(p, "Letter"):
		return PrizePattern{Kind: PatternFullNumbers}
	case strings.HasSuffix(p, "Letter Correct") && !strings.Contains(p, "Number"):
		return PrizePattern{Kind: PatternLetterOnly}
	}
	return PrizePattern{Kind: PatternUnknown}
}

// patternDigits reads N out of "... N Numbers Correct"; the singular
// "Number Correct" means one digit.
func patternDigits(p string) (int, bool) {
	if strings.Contains(p, "Number Correct") {
		return 1, true
	}
	m := digitCount.FindStringSubmatch(p)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Matches reports whether a ticket wins under the pattern.
func (p PrizePattern) Matches(ticket models.Ticket, winning models.WinningNumbers) bool {
	if p.WithLetter && ticket.Letter != winning.Letter {
		return false
	}
	tn, wn := ticket.Numbers, winning.Numbers
	switch p.Kind {
	case PatternLetterAndFull:
		return ticket.Letter == winning.Letter && tn == wn
	case PatternFullNumbers:
		return tn == wn
	case PatternPrefix:
		return p.Digits <= len(tn) && p.Digits <= len(wn) && tn[:p.Digits] == wn[:p.Digits]
	case PatternSuffix:
		return p.Digits <= len(tn) && p.Digits <= len(wn) && tn[len(tn)-p.Digits:] == wn[len(wn)-p.Digits:]
	case PatternLetterOnly:
		return ticket.Letter == winning.Letter
	case PatternAny:
		return positionalMatches(tn, wn) >= p.Digits
	}
	return false
}

func positionalMatches(a, b string) int {
	n := 0
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			n++
		}
	}
	return n
}

// PrizeLabel renders an amount as "Rs 40/=".
func PrizeLabel(amount int64) string {
	return fmt.Sprintf("Rs %d/=", amount)
}

// PrizeEngine scores tickets against a draw using the stored prize rules
type PrizeEngine struct {
	rules repositories.PrizeRuleRepository
}

// NewPrizeEngine creates a new PrizeEngine
func NewPrizeEngine(rules repositories.PrizeRuleRepository) *PrizeEngine {
	return &PrizeEngine{rules: rules}
}

// Determine scores every ticket against the winning numbers. For each ticket
// the matching rule with the highest amount is selected; on equal amounts the
// first rule seen is kept, so the selected amount does not depend on rule
// order. Conditions that concern a single ticket are reported in its result;
// only a failing rule store is returned as an error.
func (e *PrizeEngine) Determine(ctx context.Context, lotteryName string, tickets []models.Ticket, winning models.WinningNumbers) ([]models.PrizeResult, error) {
	rules, err := e.rules.FindByLottery(ctx, lotteryName)
	if errors.Is(err, repositories.ErrNoPrizeRules) {
		results := make([]models.PrizeResult, 0, len(tickets))
		for _, t := range tickets {
			results = append(results, models.PrizeResult{Ticket: t.String(), Prize: PrizeStructureNotFound})
		}
		return results, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error loading prize rules: %w", err)
	}

	patterns := make([]PrizePattern, len(rules))
	for i, rule := range rules {
		patterns[i] = ClassifyPattern(rule.Pattern)
		if patterns[i].Kind == PatternUnknown {
			slog.Warn("Ignoring unrecognised prize pattern", "lottery", lotteryName, "pattern", rule.Pattern)
		}
	}

	n := models.ExpectedDigits(lotteryName)
	results := make([]models.PrizeResult, 0, len(tickets))
	for _, t := range tickets {
		if len(t.Numbers) != n || len(winning.Numbers) != n {
			results = append(results, models.PrizeResult{
				Ticket: t.String(),
				Prize:  fmt.Sprintf("Error: Invalid number length (expected %d digits)", n),
			})
			continue
		}

		var (
			best       *models.PrizeRule
			bestAmount int64
		)
		for i, rule := range rules {
			if !patterns[i].Matches(t, winning) {
				continue
			}
			if rule.PrizeAmount > bestAmount {
				best, bestAmount = rule, rule.PrizeAmount
			}
		}

		if best == nil {
			slog.Info("No prize won", "lottery", lotteryName, "ticket", t.String(), "winning", winning.String())
			results = append(results, models.PrizeResult{Ticket: t.String(), Prize: models.NoPrizeWon})
			continue
		}
		slog.Info("Prize selected", "lottery", lotteryName, "ticket", t.String(), "pattern", best.Pattern, "amount", best.PrizeAmount)
		results = append(results, models.PrizeResult{
			Ticket:  t.String(),
			Prize:   PrizeLabel(best.PrizeAmount),
			Amount:  best.PrizeAmount,
			Pattern: best.Pattern,
		})
	}
	return results, nil
}

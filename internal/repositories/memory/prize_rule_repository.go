// Package memory holds in-process repository implementations used when no
// database is configured and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/lankalotto/ticket-validator/internal/models"
	"github.com/lankalotto/ticket-validator/internal/repositories"
)

// PrizeRuleRepository is a read-mostly rule store held in memory.
type PrizeRuleRepository struct {
	mu    sync.RWMutex
	rules map[string][]models.PrizeRule
}

// NewPrizeRuleRepository creates a store holding the given rules.
func NewPrizeRuleRepository(rules ...models.PrizeRule) *PrizeRuleRepository {
	r := &PrizeRuleRepository{rules: make(map[string][]models.PrizeRule)}
	for _, rule := range rules {
		r.rules[rule.LotteryName] = append(r.rules[rule.LotteryName], rule)
	}
	return r
}

// NewDefaultPrizeRuleRepository creates a store pre-loaded with the published
// prize tables.
func NewDefaultPrizeRuleRepository() *PrizeRuleRepository {
	return NewPrizeRuleRepository(DefaultPrizeRules()...)
}

// FindByLottery returns copies of the rules for the lottery.
func (r *PrizeRuleRepository) FindByLottery(_ context.Context, lotteryName string) ([]*models.PrizeRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.rules[lotteryName]
	if len(stored) == 0 {
		return nil, repositories.ErrNoPrizeRules
	}
	out := make([]*models.PrizeRule, 0, len(stored))
	for i := range stored {
		rule := stored[i]
		out = append(out, &rule)
	}
	return out, nil
}

var _ repositories.PrizeRuleRepository = (*PrizeRuleRepository)(nil)

// DefaultPrizeRules returns the prize tables for both supported lotteries.
func DefaultPrizeRules() []models.PrizeRule {
	ms := models.MahajanaSampatha
	gs := models.Govisetha
	return []models.PrizeRule{
		{LotteryName: ms, Pattern: "Letter and 6 Numbers Correct", PrizeAmount: 20000000},
		{LotteryName: ms, Pattern: "6 Numbers Correct", PrizeAmount: 2500000},
		{LotteryName: ms, Pattern: "Last 5 Numbers Correct", PrizeAmount: 100000},
		{LotteryName: ms, Pattern: "Last 4 Numbers Correct", PrizeAmount: 15000},
		{LotteryName: ms, Pattern: "Last 3 Numbers Correct", PrizeAmount: 2000},
		{LotteryName: ms, Pattern: "Last 2 Numbers Correct", PrizeAmount: 200},
		{LotteryName: ms, Pattern: "Last Number Correct", PrizeAmount: 40},
		{LotteryName: ms, Pattern: "First 5 Numbers Correct", PrizeAmount: 100000},
		{LotteryName: ms, Pattern: "First 4 Numbers Correct", PrizeAmount: 2000},
		{LotteryName: ms, Pattern: "First 3 Numbers Correct", PrizeAmount: 200},
		{LotteryName: ms, Pattern: "First 2 Numbers Correct", PrizeAmount: 80},
		{LotteryName: ms, Pattern: "First Number Correct", PrizeAmount: 40},
		{LotteryName: ms, Pattern: "Letter Correct", PrizeAmount: 40},

		{LotteryName: gs, Pattern: "Letter and 4 Numbers Correct", PrizeAmount: 60000000},
		{LotteryName: gs, Pattern: "4 Numbers Correct", PrizeAmount: 2000000},
		{LotteryName: gs, Pattern: "Letter and Any 3 Numbers Correct", PrizeAmount: 250000},
		{LotteryName: gs, Pattern: "Any 3 Numbers Correct", PrizeAmount: 5000},
		{LotteryName: gs, Pattern: "Letter and Any 2 Numbers Correct", PrizeAmount: 2000},
		{LotteryName: gs, Pattern: "Any 2 Numbers Correct", PrizeAmount: 200},
		{LotteryName: gs, Pattern: "Letter and Any Number Correct", PrizeAmount: 200},
		{LotteryName: gs, Pattern: "Any Number Correct", PrizeAmount: 40},
		{LotteryName: gs, Pattern: "Letter Correct", PrizeAmount: 40},
		{LotteryName: gs, Pattern: "Special Letter Correct", PrizeAmount: 40},
	}
}

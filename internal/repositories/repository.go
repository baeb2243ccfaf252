package repositories

import (
	"context"
	"errors"

	"github.com/lankalotto/ticket-validator/internal/models"
)

// ErrNoPrizeRules is returned when no rules exist for a lottery
var ErrNoPrizeRules = errors.New("prize structure not found for this lottery")

// PrizeRuleRepository defines read access to the seeded prize-pattern rules.
// Rules are populated out-of-band; the service never writes them.
type PrizeRuleRepository interface {
	// FindByLottery returns every rule for the lottery. Order is not significant.
	FindByLottery(ctx context.Context, lotteryName string) ([]*models.PrizeRule, error)
}

package memory

import (
	"context"
	"testing"

	"github.com/lankalotto/ticket-validator/internal/models"
	"github.com/lankalotto/ticket-validator/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPrizeRuleRepository(t *testing.T) {
	repo := NewDefaultPrizeRuleRepository()

	ms, err := repo.FindByLottery(context.Background(), models.MahajanaSampatha)
	require.NoError(t, err)
	assert.Len(t, ms, 13)

	gs, err := repo.FindByLottery(context.Background(), models.Govisetha)
	require.NoError(t, err)
	assert.Len(t, gs, 10)

	_, err = repo.FindByLottery(context.Background(), "Ada Kotipathi")
	assert.ErrorIs(t, err, repositories.ErrNoPrizeRules)
}

func TestPrizeRuleRepository_ReturnsCopies(t *testing.T) {
	repo := NewPrizeRuleRepository(models.PrizeRule{LotteryName: models.Govisetha, Pattern: "Letter Correct", PrizeAmount: 40})

	first, err := repo.FindByLottery(context.Background(), models.Govisetha)
	require.NoError(t, err)
	first[0].PrizeAmount = 1

	second, err := repo.FindByLottery(context.Background(), models.Govisetha)
	require.NoError(t, err)
	assert.Equal(t, int64(40), second[0].PrizeAmount)
}

package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lankalotto/ticket-validator/internal/models"
	"github.com/lankalotto/ticket-validator/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// DefaultPrizeCollection is the collection the seed scripts write to
const DefaultPrizeCollection = "prize_structure"

// PrizeRuleRepository implements the repositories.PrizeRuleRepository interface
type PrizeRuleRepository struct {
	collection *mongo.Collection
}

// NewPrizeRuleRepository creates a new PrizeRuleRepository
func NewPrizeRuleRepository(db *mongo.Database, collection string) repositories.PrizeRuleRepository {
	if collection == "" {
		collection = DefaultPrizeCollection
	}
	return &PrizeRuleRepository{
		collection: db.Collection(collection),
	}
}

// prizeRuleDocument mirrors the stored shape. The prize field has been seeded
// both as a number and as display text such as "Rs. 20,000,000".
type prizeRuleDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	LotteryName string             `bson:"lottery_name"`
	Pattern     string             `bson:"pattern"`
	Prize       bson.RawValue      `bson:"prize"`
}

// FindByLottery returns all prize rules stored for the lottery.
func (r *PrizeRuleRepository) FindByLottery(ctx context.Context, lotteryName string) ([]*models.PrizeRule, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"lottery_name": lotteryName})
	if err != nil {
		return nil, fmt.Errorf("error finding prize rules for %s: %w", lotteryName, err)
	}
	defer cursor.Close(ctx)

	var docs []prizeRuleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding prize rules for %s: %w", lotteryName, err)
	}

	rules := make([]*models.PrizeRule, 0, len(docs))
	for _, doc := range docs {
		amount, err := decodePrizeAmount(doc.Prize)
		if err != nil {
			slog.Warn("Skipping prize rule with unreadable amount", "lottery", lotteryName, "pattern", doc.Pattern, "error", err)
			continue
		}
		rules = append(rules, &models.PrizeRule{
			ID:          doc.ID,
			LotteryName: doc.LotteryName,
			Pattern:     doc.Pattern,
			PrizeAmount: amount,
		})
	}
	if len(rules) == 0 {
		return nil, repositories.ErrNoPrizeRules
	}
	return rules, nil
}

var nonDigits = regexp.MustCompile(`[^0-9]`)

func decodePrizeAmount(v bson.RawValue) (int64, error) {
	switch v.Type {
	case bson.TypeInt32:
		return int64(v.Int32()), nil
	case bson.TypeInt64:
		return v.Int64(), nil
	case bson.TypeDouble:
		return int64(v.Double()), nil
	case bson.TypeString:
		return ParsePrizeAmount(v.StringValue())
	default:
		return 0, fmt.Errorf("unsupported prize type %s", v.Type)
	}
}

// ParsePrizeAmount reads display amounts such as "Rs. 20,000,000" or "40".
func ParsePrizeAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "Rs.")
	s = strings.TrimPrefix(s, "Rs")
	s = strings.TrimSuffix(s, "/=")
	if i := strings.LastIndex(s, "."); i >= 0 && len(s)-i <= 3 {
		s = s[:i] // drop cents
	}
	digits := nonDigits.ReplaceAllString(s, "")
	if digits == "" {
		return 0, fmt.Errorf("no digits in prize amount %q", s)
	}
	return strconv.ParseInt(digits, 10, 64)
}

package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PrizeRule associates a named matching pattern with a payout for one lottery.
type PrizeRule struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	LotteryName string             `bson:"lottery_name" json:"lotteryName"`
	Pattern     string             `bson:"pattern" json:"pattern"`
	PrizeAmount int64              `bson:"prize" json:"prizeAmount"`
}

// PrizeResult is the outcome of scoring one ticket.
type PrizeResult struct {
	Ticket  string `json:"ticket"`
	Prize   string `json:"prize"`
	Amount  int64  `json:"amount,omitempty"`
	Pattern string `json:"pattern,omitempty"`
}

// Won reports whether the ticket earned a payout.
func (r PrizeResult) Won() bool {
	return r.Amount > 0
}

package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Reward is immutable once distributed.
type Reward struct {
	ID            ID             `json:"id"`
	RewardID      *big.Int       `json:"reward_id"`
	Quest         ID             `json:"quest"`
	Recipient     ID             `json:"recipient"`
	Amount        *big.Int       `json:"amount"`
	Token         common.Address `json:"token"`
	RewardType    RewardType     `json:"reward_type"`
	DistributedAt int64          `json:"distributed_at"`
	TxHash        common.Hash    `json:"tx_hash"`
}

func (r *Reward) EntityKind() Kind { return KindReward }
func (r *Reward) EntityID() ID     { return r.ID }

// PaymentSplit holds the latest split configured for a quest.
type PaymentSplit struct {
	ID         ID               `json:"id"`
	Quest      ID               `json:"quest"`
	Recipients []common.Address `json:"recipients"`
	Shares     []*big.Int       `json:"shares"`
	UpdatedAt  int64            `json:"updated_at"`
	TxHash     common.Hash      `json:"tx_hash"`
}

func (p *PaymentSplit) EntityKind() Kind { return KindPaymentSplit }
func (p *PaymentSplit) EntityID() ID     { return p.ID }

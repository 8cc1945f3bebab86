package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type PlatformStats struct {
	ID                      ID             `json:"id"`
	TotalUsers              int64          `json:"total_users"`
	TotalQuests             int64          `json:"total_quests"`
	TotalSubmissions        int64          `json:"total_submissions"`
	TotalRewardsDistributed *big.Int       `json:"total_rewards_distributed"`
	TotalValueLocked        *big.Int       `json:"total_value_locked"`
	PlatformFeePercentage   *big.Int       `json:"platform_fee_percentage"`
	PlatformFeeRecipient    common.Address `json:"platform_fee_recipient"`
}

func NewPlatformStats() *PlatformStats {
	return &PlatformStats{
		ID:                      PlatformStatsID,
		TotalRewardsDistributed: new(big.Int),
		TotalValueLocked:        new(big.Int),
		PlatformFeePercentage:   new(big.Int),
	}
}

func (s *PlatformStats) EntityKind() Kind { return KindPlatformStats }
func (s *PlatformStats) EntityID() ID     { return s.ID }

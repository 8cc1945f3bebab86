package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// User is keyed by wallet address and created lazily on the first event that
// mentions the address.
type User struct {
	ID                   ID             `json:"id"`
	Address              common.Address `json:"address"`
	Username             *string        `json:"username"`
	Reputation           int64          `json:"reputation"`
	TotalQuestsCreated   int64          `json:"total_quests_created"`
	TotalQuestsCompleted int64          `json:"total_quests_completed"`
	TotalRewardsEarned   *big.Int       `json:"total_rewards_earned"`
	TotalSubmissions     int64          `json:"total_submissions"`
	Skills               []string       `json:"skills"`
	CreatedAt            int64          `json:"created_at"`
}

func NewUser(addr common.Address, createdAt int64) *User {
	return &User{
		ID:                 IDFromAddress(addr),
		Address:            addr,
		TotalRewardsEarned: new(big.Int),
		Skills:             []string{},
		CreatedAt:          createdAt,
	}
}

func (u *User) EntityKind() Kind { return KindUser }
func (u *User) EntityID() ID     { return u.ID }

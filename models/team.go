package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Team starts with MemberCount 1: the leader is counted as the first member.
type Team struct {
	ID          ID          `json:"id"`
	TeamID      *big.Int    `json:"team_id"`
	Quest       ID          `json:"quest"`
	Leader      ID          `json:"leader"`
	Name        string      `json:"name"`
	IsActive    bool        `json:"is_active"`
	MemberCount int64       `json:"member_count"`
	CreatedAt   int64       `json:"created_at"`
	DisbandedAt *int64      `json:"disbanded_at"`
	TxHash      common.Hash `json:"tx_hash"`
}

func (t *Team) EntityKind() Kind { return KindTeam }
func (t *Team) EntityID() ID     { return t.ID }

type TeamMember struct {
	ID           ID           `json:"id"`
	Team         ID           `json:"team"`
	Member       ID           `json:"member"`
	JoinedAt     int64        `json:"joined_at"`
	RemovedAt    *int64       `json:"removed_at"`
	IsActive     bool         `json:"is_active"`
	JoinTxHash   common.Hash  `json:"join_tx_hash"`
	RemoveTxHash *common.Hash `json:"remove_tx_hash"`
}

func (m *TeamMember) EntityKind() Kind { return KindTeamMember }
func (m *TeamMember) EntityID() ID     { return m.ID }

// TeamInvite is keyed by (team, invitee); a re-invite overwrites it.
type TeamInvite struct {
	ID             ID           `json:"id"`
	Team           ID           `json:"team"`
	Invitee        ID           `json:"invitee"`
	Inviter        ID           `json:"inviter"`
	Status         InviteStatus `json:"status"`
	SentAt         int64        `json:"sent_at"`
	RespondedAt    *int64       `json:"responded_at"`
	SentTxHash     common.Hash  `json:"sent_tx_hash"`
	ResponseTxHash *common.Hash `json:"response_tx_hash"`
}

func (i *TeamInvite) EntityKind() Kind { return KindTeamInvite }
func (i *TeamInvite) EntityID() ID     { return i.ID }

package models

import (
	"github.com/ethereum/go-ethereum/common"
)

// RoleEvent is an append-only record of an AccessControl event.
type RoleEvent struct {
	ID                ID              `json:"id"`
	Contract          string          `json:"contract"`
	EventType         string          `json:"event_type"`
	Role              common.Hash     `json:"role"`
	Account           *common.Address `json:"account"`
	Sender            *common.Address `json:"sender"`
	PreviousAdminRole *common.Hash    `json:"previous_admin_role"`
	NewAdminRole      *common.Hash    `json:"new_admin_role"`
	BlockNumber       uint64          `json:"block_number"`
	BlockTimestamp    int64           `json:"block_timestamp"`
	TxHash            common.Hash     `json:"tx_hash"`
}

func (e *RoleEvent) EntityKind() Kind { return KindRoleEvent }
func (e *RoleEvent) EntityID() ID     { return e.ID }

// PauseEvent is an append-only record of a Pausable event.
type PauseEvent struct {
	ID             ID             `json:"id"`
	Contract       string         `json:"contract"`
	EventType      string         `json:"event_type"`
	Account        common.Address `json:"account"`
	BlockNumber    uint64         `json:"block_number"`
	BlockTimestamp int64          `json:"block_timestamp"`
	TxHash         common.Hash    `json:"tx_hash"`
}

func (e *PauseEvent) EntityKind() Kind { return KindPauseEvent }
func (e *PauseEvent) EntityID() ID     { return e.ID }

package projection

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"questboard-indexer/contracts"
	"questboard-indexer/models"
	"questboard-indexer/store"
)

// Audit records are append-only and keyed by (tx hash, log index), so a
// replayed log rewrites the same record.

func (p *Projector) roleAdminChanged(ctx context.Context, tx store.Tx, meta Meta, e *contracts.RoleAdminChanged) error {
	previous := common.Hash(e.PreviousAdminRole)
	next := common.Hash(e.NewAdminRole)
	event := newRoleEvent(meta, models.AuditRoleAdminChanged, e.Role)
	event.PreviousAdminRole = &previous
	event.NewAdminRole = &next
	return tx.Put(ctx, event)
}

func (p *Projector) roleGranted(ctx context.Context, tx store.Tx, meta Meta, e *contracts.RoleGranted) error {
	return tx.Put(ctx, newRoleMembershipEvent(meta, models.AuditRoleGranted, e.Role, e.Account, e.Sender))
}

func (p *Projector) roleRevoked(ctx context.Context, tx store.Tx, meta Meta, e *contracts.RoleRevoked) error {
	return tx.Put(ctx, newRoleMembershipEvent(meta, models.AuditRoleRevoked, e.Role, e.Account, e.Sender))
}

func (p *Projector) pause(ctx context.Context, tx store.Tx, meta Meta, eventType string, account common.Address) error {
	return tx.Put(ctx, &models.PauseEvent{
		ID:             models.IDFromLog(meta.TxHash, meta.LogIndex),
		Contract:       string(meta.Contract),
		EventType:      eventType,
		Account:        account,
		BlockNumber:    meta.BlockNumber,
		BlockTimestamp: meta.BlockTimestamp,
		TxHash:         meta.TxHash,
	})
}

func newRoleEvent(meta Meta, eventType string, role [32]byte) *models.RoleEvent {
	return &models.RoleEvent{
		ID:             models.IDFromLog(meta.TxHash, meta.LogIndex),
		Contract:       string(meta.Contract),
		EventType:      eventType,
		Role:           common.Hash(role),
		BlockNumber:    meta.BlockNumber,
		BlockTimestamp: meta.BlockTimestamp,
		TxHash:         meta.TxHash,
	}
}

func newRoleMembershipEvent(meta Meta, eventType string, role [32]byte, account, sender common.Address) *models.RoleEvent {
	event := newRoleEvent(meta, eventType, role)
	event.Account = &account
	event.Sender = &sender
	return event
}

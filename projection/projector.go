package projection

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"questboard-indexer/contracts"
	"questboard-indexer/logging"
	"questboard-indexer/models"
	"questboard-indexer/store"
)

var ErrUnsupportedEvent = errors.New("projection: unsupported event")

type (
	// Projector materializes decoded contract events into the entity graph.
	// It holds no state of its own: every read and write goes through the
	// store.Tx handed to Apply, and events must be applied in chain order.
	Projector struct {
		logger *zap.Logger
	}

	// Meta carries the block context of the log being applied.
	Meta struct {
		Contract       contracts.Name
		Event          string
		BlockNumber    uint64
		BlockTimestamp int64
		TxHash         common.Hash
		LogIndex       uint
	}
)

func New(logger *zap.Logger) *Projector {
	return &Projector{
		logger: logging.WithPackage(logger),
	}
}

// Apply projects one event. Events whose parent entity is missing are
// skipped without error.
func (p *Projector) Apply(ctx context.Context, tx store.Tx, meta Meta, event any) error {
	var err error
	switch e := event.(type) {
	// QuestBoard
	case *contracts.QuestCreated:
		err = p.questCreated(ctx, tx, meta, e)
	case *contracts.QuestUpdated:
		err = p.questUpdated(ctx, tx, meta, e)
	case *contracts.QuestCompleted:
		err = p.questCompleted(ctx, tx, meta, e)
	case *contracts.QuestCancelled:
		err = p.questCancelled(ctx, tx, meta, e)
	case *contracts.ParticipantJoined:
		err = p.participantJoined(ctx, tx, meta, e)
	case *contracts.ParticipantLeft:
		err = p.participantLeft(ctx, tx, meta, e)
	case *contracts.SubmissionCreated:
		err = p.submissionCreated(ctx, tx, meta, e)
	case *contracts.SubmissionReviewed:
		err = p.submissionReviewed(ctx, tx, meta, e)
	case *contracts.PlatformFeeUpdated:
		err = p.platformFeeUpdated(ctx, tx, meta, e)
	case *contracts.PlatformFeeRecipientUpdated:
		err = p.platformFeeRecipientUpdated(ctx, tx, meta, e)

	// CollaborationManager
	case *contracts.CollaborationRequestCreated:
		err = p.collaborationRequestCreated(ctx, tx, meta, e)
	case *contracts.TeamCreated:
		err = p.teamCreated(ctx, tx, meta, e)
	case *contracts.TeamDisbanded:
		err = p.teamDisbanded(ctx, tx, meta, e)
	case *contracts.TeamInviteSent:
		err = p.teamInviteSent(ctx, tx, meta, e)
	case *contracts.TeamInviteAccepted:
		err = p.teamInviteAccepted(ctx, tx, meta, e)
	case *contracts.TeamInviteRejected:
		err = p.teamInviteRejected(ctx, tx, meta, e)
	case *contracts.TeamMemberAdded:
		err = p.teamMemberAdded(ctx, tx, meta, e)
	case *contracts.TeamMemberRemoved:
		err = p.teamMemberRemoved(ctx, tx, meta, e)

	// RewardManager
	case *contracts.RewardDistributed:
		err = p.rewardDistributed(ctx, tx, meta, e)
	case *contracts.BountyEscrowed:
		err = p.bountyEscrowed(ctx, tx, meta, e)
	case *contracts.BountyRefunded:
		err = p.bountyRefunded(ctx, tx, meta, e)
	case *contracts.EmergencyWithdraw:
		err = p.emergencyWithdraw(ctx, tx, meta, e)
	case *contracts.PaymentSplitUpdated:
		err = p.paymentSplitUpdated(ctx, tx, meta, e)

	// Shared by every contract
	case *contracts.RoleAdminChanged:
		err = p.roleAdminChanged(ctx, tx, meta, e)
	case *contracts.RoleGranted:
		err = p.roleGranted(ctx, tx, meta, e)
	case *contracts.RoleRevoked:
		err = p.roleRevoked(ctx, tx, meta, e)
	case *contracts.Paused:
		err = p.pause(ctx, tx, meta, models.AuditPaused, e.Account)
	case *contracts.Unpaused:
		err = p.pause(ctx, tx, meta, models.AuditUnpaused, e.Account)

	default:
		return xerrors.Errorf("%T: %w", event, ErrUnsupportedEvent)
	}
	if err != nil {
		return xerrors.Errorf("failed to apply %s.%s at %d/%d: %w",
			meta.Contract, meta.Event, meta.BlockNumber, meta.LogIndex, err)
	}
	return nil
}

// skip logs an event dropped because the entity it refers to is missing.
func (p *Projector) skip(meta Meta, kind models.Kind, id models.ID) {
	p.logger.Warn("skipping event: referenced entity not found",
		zap.String("contract", string(meta.Contract)),
		zap.String("event", meta.Event),
		zap.Uint64("block", meta.BlockNumber),
		zap.String("tx", meta.TxHash.Hex()),
		zap.String("kind", string(kind)),
		zap.String("id", string(id)),
	)
}

// unmapped logs an enum code outside the range the contracts define.
func (p *Projector) unmapped(meta Meta, enum string, code uint8, fallback string) {
	p.logger.Warn("unmapped enum code",
		zap.String("event", meta.Event),
		zap.String("enum", enum),
		zap.Uint8("code", code),
		zap.String("fallback", fallback),
		zap.String("tx", meta.TxHash.Hex()),
	)
}

func (m Meta) String() string {
	return fmt.Sprintf("%s.%s@%d/%d", m.Contract, m.Event, m.BlockNumber, m.LogIndex)
}

package projection

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	"questboard-indexer/contracts"
	"questboard-indexer/models"
	"questboard-indexer/store"
)

func (p *Projector) rewardDistributed(ctx context.Context, tx store.Tx, meta Meta, e *contracts.RewardDistributed) error {
	recipient, err := p.getOrCreateUser(ctx, tx, meta, e.Recipient)
	if err != nil {
		return err
	}
	quest, err := loadQuest(ctx, tx, e.QuestId)
	if err != nil {
		return err
	}
	if quest == nil {
		p.skip(meta, models.KindQuest, models.IDFromBigInt(e.QuestId))
		return nil
	}

	rewardType, ok := models.RewardTypeFromCode(e.RewardType)
	if !ok {
		p.unmapped(meta, "RewardType", e.RewardType, string(rewardType))
	}
	amount := copyBig(e.Amount)
	reward := &models.Reward{
		ID:            models.IDFromBigInt(e.RewardId),
		RewardID:      copyBig(e.RewardId),
		Quest:         quest.ID,
		Recipient:     recipient.ID,
		Amount:        amount,
		Token:         e.Token,
		RewardType:    rewardType,
		DistributedAt: meta.BlockTimestamp,
		TxHash:        meta.TxHash,
	}
	if err := tx.Put(ctx, reward); err != nil {
		return err
	}

	// Platform fees are not earnings of the recipient.
	if rewardType != models.RewardTypePlatformFee {
		recipient.TotalRewardsEarned = new(big.Int).Add(recipient.TotalRewardsEarned, amount)
		if err := tx.Put(ctx, recipient); err != nil {
			return err
		}
	}

	return p.updateStats(ctx, tx, func(stats *models.PlatformStats) {
		stats.TotalRewardsDistributed = new(big.Int).Add(stats.TotalRewardsDistributed, amount)
	})
}

func (p *Projector) bountyEscrowed(ctx context.Context, tx store.Tx, meta Meta, e *contracts.BountyEscrowed) error {
	if err := p.adjustValueLocked(ctx, tx, copyBig(e.Amount)); err != nil {
		return err
	}
	_, err := p.getOrCreateUser(ctx, tx, meta, e.Creator)
	return err
}

func (p *Projector) bountyRefunded(ctx context.Context, tx store.Tx, meta Meta, e *contracts.BountyRefunded) error {
	if err := p.adjustValueLocked(ctx, tx, new(big.Int).Neg(copyBig(e.Amount))); err != nil {
		return err
	}
	_, err := p.getOrCreateUser(ctx, tx, meta, e.Creator)
	return err
}

func (p *Projector) emergencyWithdraw(ctx context.Context, tx store.Tx, meta Meta, e *contracts.EmergencyWithdraw) error {
	p.logger.Warn("emergency withdraw",
		zap.String("token", e.Token.Hex()),
		zap.String("recipient", e.Recipient.Hex()),
		zap.String("amount", copyBig(e.Amount).String()),
		zap.String("tx", meta.TxHash.Hex()),
	)
	if err := p.adjustValueLocked(ctx, tx, new(big.Int).Neg(copyBig(e.Amount))); err != nil {
		return err
	}
	_, err := p.getOrCreateUser(ctx, tx, meta, e.Recipient)
	return err
}

// adjustValueLocked adds delta to the total value locked. The total is not
// clamped: a negative value points at refunds of bounties escrowed before the
// start block.
func (p *Projector) adjustValueLocked(ctx context.Context, tx store.Tx, delta *big.Int) error {
	return p.updateStats(ctx, tx, func(stats *models.PlatformStats) {
		stats.TotalValueLocked = new(big.Int).Add(stats.TotalValueLocked, delta)
	})
}

func (p *Projector) paymentSplitUpdated(ctx context.Context, tx store.Tx, meta Meta, e *contracts.PaymentSplitUpdated) error {
	quest, err := loadQuest(ctx, tx, e.QuestId)
	if err != nil {
		return err
	}
	if quest == nil {
		p.skip(meta, models.KindQuest, models.IDFromBigInt(e.QuestId))
		return nil
	}

	shares := make([]*big.Int, len(e.Shares))
	for i, share := range e.Shares {
		shares[i] = copyBig(share)
	}
	split := &models.PaymentSplit{
		ID:         quest.ID,
		Quest:      quest.ID,
		Recipients: copyAddresses(e.Recipients),
		Shares:     shares,
		UpdatedAt:  meta.BlockTimestamp,
		TxHash:     meta.TxHash,
	}
	if err := tx.Put(ctx, split); err != nil {
		return err
	}

	quest.UpdatedAt = meta.BlockTimestamp
	return tx.Put(ctx, quest)
}

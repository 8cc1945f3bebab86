package projection

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"questboard-indexer/contracts"
	"questboard-indexer/models"
	"questboard-indexer/store"
)

func (p *Projector) questCreated(ctx context.Context, tx store.Tx, meta Meta, e *contracts.QuestCreated) error {
	creator, err := p.getOrCreateUser(ctx, tx, meta, e.Creator)
	if err != nil {
		return err
	}

	questType, ok := models.QuestTypeFromCode(e.QuestType)
	if !ok {
		p.unmapped(meta, "QuestType", e.QuestType, string(questType))
	}

	quest := &models.Quest{
		ID:                 models.IDFromBigInt(e.QuestId),
		QuestID:            copyBig(e.QuestId),
		Creator:            creator.ID,
		Title:              e.Title,
		Description:        e.Description,
		MetadataURI:        e.MetadataURI,
		QuestType:          questType,
		BountyAmount:       copyBig(e.BountyAmount),
		BountyToken:        e.BountyToken,
		MaxParticipants:    copyBig(e.MaxParticipants),
		MaxCollaborators:   copyBig(e.MaxCollaborators),
		SubmissionDeadline: copyBig(e.SubmissionDeadline),
		ReviewDeadline:     copyBig(e.ReviewDeadline),
		RequiresApproval:   e.RequiresApproval,
		Tags:               copyStrings(e.Tags),
		SkillsRequired:     copyStrings(e.SkillsRequired),
		MinReputation:      copyBig(e.MinReputation),
		KycRequired:        e.KycRequired,
		AllowedFileTypes:   copyStrings(e.AllowedFileTypes),
		MaxFileSize:        copyBig(e.MaxFileSize),
		Status:             models.QuestStatusCreated,
		Winners:            []common.Address{},
		CreatedAt:          meta.BlockTimestamp,
		UpdatedAt:          meta.BlockTimestamp,
		CreatedAtBlock:     meta.BlockNumber,
		TxHash:             meta.TxHash,
	}
	if err := tx.Put(ctx, quest); err != nil {
		return err
	}

	creator.TotalQuestsCreated++
	if err := tx.Put(ctx, creator); err != nil {
		return err
	}

	return p.updateStats(ctx, tx, func(stats *models.PlatformStats) {
		stats.TotalQuests++
	})
}

func (p *Projector) questUpdated(ctx context.Context, tx store.Tx, meta Meta, e *contracts.QuestUpdated) error {
	quest, err := loadQuest(ctx, tx, e.QuestId)
	if err != nil {
		return err
	}
	if quest == nil {
		p.skip(meta, models.KindQuest, models.IDFromBigInt(e.QuestId))
		return nil
	}

	quest.UpdatedAt = meta.BlockTimestamp
	if status, ok := models.QuestStatusFromCode(e.Status); ok {
		quest.Status = status
	} else {
		// No default: the previous status stays in place.
		p.unmapped(meta, "QuestStatus", e.Status, string(quest.Status))
	}
	return tx.Put(ctx, quest)
}

func (p *Projector) questCompleted(ctx context.Context, tx store.Tx, meta Meta, e *contracts.QuestCompleted) error {
	quest, err := loadQuest(ctx, tx, e.QuestId)
	if err != nil {
		return err
	}
	if quest == nil {
		p.skip(meta, models.KindQuest, models.IDFromBigInt(e.QuestId))
		return nil
	}

	quest.Status = models.QuestStatusCompleted
	quest.IsCompleted = true
	quest.CompletedAt = timestamp(meta)
	quest.Winners = copyAddresses(e.Winners)
	if err := tx.Put(ctx, quest); err != nil {
		return err
	}

	// Winners are credited only if they are already known; completion never
	// creates users.
	for _, winner := range e.Winners {
		user, err := store.Load[models.User](ctx, tx, models.KindUser, models.IDFromAddress(winner))
		if err != nil {
			return err
		}
		if user == nil {
			continue
		}
		user.TotalQuestsCompleted++
		if err := tx.Put(ctx, user); err != nil {
			return err
		}
	}
	return nil
}

func (p *Projector) questCancelled(ctx context.Context, tx store.Tx, meta Meta, e *contracts.QuestCancelled) error {
	quest, err := loadQuest(ctx, tx, e.QuestId)
	if err != nil {
		return err
	}
	if quest == nil {
		p.skip(meta, models.KindQuest, models.IDFromBigInt(e.QuestId))
		return nil
	}

	quest.Status = models.QuestStatusCancelled
	quest.IsCancelled = true
	quest.CancelledAt = timestamp(meta)
	return tx.Put(ctx, quest)
}

func (p *Projector) participantJoined(ctx context.Context, tx store.Tx, meta Meta, e *contracts.ParticipantJoined) error {
	user, err := p.getOrCreateUser(ctx, tx, meta, e.Participant)
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

	participant := &models.QuestParticipant{
		ID:          quest.ID.Concat(e.Participant),
		Quest:       quest.ID,
		Participant: user.ID,
		JoinedAt:    meta.BlockTimestamp,
		IsActive:    true,
		JoinTxHash:  meta.TxHash,
	}
	if err := tx.Put(ctx, participant); err != nil {
		return err
	}

	quest.ParticipantCount++
	return tx.Put(ctx, quest)
}

func (p *Projector) participantLeft(ctx context.Context, tx store.Tx, meta Meta, e *contracts.ParticipantLeft) error {
	id := models.IDFromBigInt(e.QuestId).Concat(e.Participant)
	participant, err := store.Load[models.QuestParticipant](ctx, tx, models.KindQuestParticipant, id)
	if err != nil {
		return err
	}
	if participant == nil {
		p.skip(meta, models.KindQuestParticipant, id)
		return nil
	}

	participant.LeftAt = timestamp(meta)
	participant.IsActive = false
	participant.LeaveTxHash = txHash(meta)
	if err := tx.Put(ctx, participant); err != nil {
		return err
	}

	quest, err := loadQuest(ctx, tx, e.QuestId)
	if err != nil {
		return err
	}
	if quest == nil {
		p.skip(meta, models.KindQuest, participant.Quest)
		return nil
	}
	p.decrement(&quest.ParticipantCount, meta, models.KindQuest, quest.ID)
	return tx.Put(ctx, quest)
}

func (p *Projector) submissionCreated(ctx context.Context, tx store.Tx, meta Meta, e *contracts.SubmissionCreated) error {
	quest, err := loadQuest(ctx, tx, e.QuestId)
	if err != nil {
		return err
	}
	if quest == nil {
		p.skip(meta, models.KindQuest, models.IDFromBigInt(e.QuestId))
		return nil
	}
	submitter, err := p.getOrCreateUser(ctx, tx, meta, e.Submitter)
	if err != nil {
		return err
	}

	submission := &models.Submission{
		ID:           models.IDFromBigInt(e.SubmissionId),
		SubmissionID: copyBig(e.SubmissionId),
		Quest:        quest.ID,
		Submitter:    submitter.ID,
		ContentURI:   e.ContentURI,
		Status:       models.SubmissionStatusPending,
		SubmittedAt:  meta.BlockTimestamp,
		TxHash:       meta.TxHash,
	}
	if err := tx.Put(ctx, submission); err != nil {
		return err
	}

	quest.SubmissionCount++
	if err := tx.Put(ctx, quest); err != nil {
		return err
	}
	submitter.TotalSubmissions++
	if err := tx.Put(ctx, submitter); err != nil {
		return err
	}
	return p.updateStats(ctx, tx, func(stats *models.PlatformStats) {
		stats.TotalSubmissions++
	})
}

func (p *Projector) submissionReviewed(ctx context.Context, tx store.Tx, meta Meta, e *contracts.SubmissionReviewed) error {
	id := models.IDFromBigInt(e.SubmissionId)
	submission, err := store.Load[models.Submission](ctx, tx, models.KindSubmission, id)
	if err != nil {
		return err
	}
	if submission == nil {
		p.skip(meta, models.KindSubmission, id)
		return nil
	}

	if status, ok := models.SubmissionStatusFromCode(e.Status); ok {
		submission.Status = status
	} else {
		p.unmapped(meta, "SubmissionStatus", e.Status, string(submission.Status))
	}
	reviewer := models.IDFromAddress(e.Reviewer)
	feedback := e.Feedback
	submission.Reviewer = &reviewer
	submission.Feedback = &feedback
	submission.ReviewedAt = timestamp(meta)
	submission.ReviewTxHash = txHash(meta)
	return tx.Put(ctx, submission)
}

func (p *Projector) platformFeeUpdated(ctx context.Context, tx store.Tx, meta Meta, e *contracts.PlatformFeeUpdated) error {
	p.logger.Info("platform fee updated", zap.String("fee", copyBig(e.NewFee).String()), zap.Uint64("block", meta.BlockNumber))
	return p.updateStats(ctx, tx, func(stats *models.PlatformStats) {
		stats.PlatformFeePercentage = copyBig(e.NewFee)
	})
}

func (p *Projector) platformFeeRecipientUpdated(ctx context.Context, tx store.Tx, meta Meta, e *contracts.PlatformFeeRecipientUpdated) error {
	p.logger.Info("platform fee recipient updated", zap.String("recipient", e.NewRecipient.Hex()), zap.Uint64("block", meta.BlockNumber))
	return p.updateStats(ctx, tx, func(stats *models.PlatformStats) {
		stats.PlatformFeeRecipient = e.NewRecipient
	})
}

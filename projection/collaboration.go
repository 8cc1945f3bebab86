package projection

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"questboard-indexer/contracts"
	"questboard-indexer/models"
	"questboard-indexer/store"
)

func (p *Projector) collaborationRequestCreated(ctx context.Context, tx store.Tx, meta Meta, e *contracts.CollaborationRequestCreated) error {
	quest, err := loadQuest(ctx, tx, e.QuestId)
	if err != nil {
		return err
	}
	if quest == nil {
		p.skip(meta, models.KindQuest, models.IDFromBigInt(e.QuestId))
		return nil
	}
	requester, err := p.getOrCreateUser(ctx, tx, meta, e.Requester)
	if err != nil {
		return err
	}

	return tx.Put(ctx, &models.CollaborationRequest{
		ID:        models.IDFromBigInt(e.RequestId),
		RequestID: copyBig(e.RequestId),
		Quest:     quest.ID,
		Requester: requester.ID,
		CreatedAt: meta.BlockTimestamp,
		TxHash:    meta.TxHash,
	})
}

func (p *Projector) teamCreated(ctx context.Context, tx store.Tx, meta Meta, e *contracts.TeamCreated) error {
	quest, err := loadQuest(ctx, tx, e.QuestId)
	if err != nil {
		return err
	}
	if quest == nil {
		p.skip(meta, models.KindQuest, models.IDFromBigInt(e.QuestId))
		return nil
	}
	leader, err := p.getOrCreateUser(ctx, tx, meta, e.Leader)
	if err != nil {
		return err
	}

	team := &models.Team{
		ID:          models.IDFromBigInt(e.TeamId),
		TeamID:      copyBig(e.TeamId),
		Quest:       quest.ID,
		Leader:      leader.ID,
		Name:        e.Name,
		IsActive:    true,
		MemberCount: 1,
		CreatedAt:   meta.BlockTimestamp,
		TxHash:      meta.TxHash,
	}
	if err := tx.Put(ctx, team); err != nil {
		return err
	}
	// The leader is a member from the start; no TeamMemberAdded follows.
	return tx.Put(ctx, newTeamMember(team.ID, e.Leader, meta))
}

// teamDisbanded leaves the TeamMember records as they are.
func (p *Projector) teamDisbanded(ctx context.Context, tx store.Tx, meta Meta, e *contracts.TeamDisbanded) error {
	team, err := loadTeam(ctx, tx, e.TeamId)
	if err != nil {
		return err
	}
	if team == nil {
		p.skip(meta, models.KindTeam, models.IDFromBigInt(e.TeamId))
		return nil
	}

	team.IsActive = false
	team.DisbandedAt = timestamp(meta)
	return tx.Put(ctx, team)
}

func (p *Projector) teamInviteSent(ctx context.Context, tx store.Tx, meta Meta, e *contracts.TeamInviteSent) error {
	invitee, err := p.getOrCreateUser(ctx, tx, meta, e.Invitee)
	if err != nil {
		return err
	}
	inviter, err := p.getOrCreateUser(ctx, tx, meta, e.Inviter)
	if err != nil {
		return err
	}
	team, err := loadTeam(ctx, tx, e.TeamId)
	if err != nil {
		return err
	}
	if team == nil {
		p.skip(meta, models.KindTeam, models.IDFromBigInt(e.TeamId))
		return nil
	}

	// A re-invite replaces the previous record, response included.
	return tx.Put(ctx, &models.TeamInvite{
		ID:         team.ID.Concat(e.Invitee),
		Team:       team.ID,
		Invitee:    invitee.ID,
		Inviter:    inviter.ID,
		Status:     models.InviteStatusPending,
		SentAt:     meta.BlockTimestamp,
		SentTxHash: meta.TxHash,
	})
}

func (p *Projector) teamInviteAccepted(ctx context.Context, tx store.Tx, meta Meta, e *contracts.TeamInviteAccepted) error {
	team, err := loadTeam(ctx, tx, e.TeamId)
	if err != nil {
		return err
	}
	if team == nil {
		p.skip(meta, models.KindTeam, models.IDFromBigInt(e.TeamId))
		return nil
	}

	// The invite update is best-effort; membership is recorded either way.
	if err := p.respondToInvite(ctx, tx, meta, team.ID, e.Invitee, models.InviteStatusAccepted); err != nil {
		return err
	}
	if err := tx.Put(ctx, newTeamMember(team.ID, e.Invitee, meta)); err != nil {
		return err
	}
	team.MemberCount++
	return tx.Put(ctx, team)
}

func (p *Projector) teamInviteRejected(ctx context.Context, tx store.Tx, meta Meta, e *contracts.TeamInviteRejected) error {
	team, err := loadTeam(ctx, tx, e.TeamId)
	if err != nil {
		return err
	}
	if team == nil {
		p.skip(meta, models.KindTeam, models.IDFromBigInt(e.TeamId))
		return nil
	}
	return p.respondToInvite(ctx, tx, meta, team.ID, e.Invitee, models.InviteStatusRejected)
}

func (p *Projector) respondToInvite(ctx context.Context, tx store.Tx, meta Meta, teamID models.ID, invitee common.Address, status models.InviteStatus) error {
	id := teamID.Concat(invitee)
	invite, err := store.Load[models.TeamInvite](ctx, tx, models.KindTeamInvite, id)
	if err != nil {
		return err
	}
	if invite == nil {
		p.skip(meta, models.KindTeamInvite, id)
		return nil
	}

	invite.Status = status
	invite.RespondedAt = timestamp(meta)
	invite.ResponseTxHash = txHash(meta)
	return tx.Put(ctx, invite)
}

func (p *Projector) teamMemberAdded(ctx context.Context, tx store.Tx, meta Meta, e *contracts.TeamMemberAdded) error {
	team, err := loadTeam(ctx, tx, e.TeamId)
	if err != nil {
		return err
	}
	if team == nil {
		p.skip(meta, models.KindTeam, models.IDFromBigInt(e.TeamId))
		return nil
	}

	if err := tx.Put(ctx, newTeamMember(team.ID, e.Member, meta)); err != nil {
		return err
	}
	team.MemberCount++
	return tx.Put(ctx, team)
}

func (p *Projector) teamMemberRemoved(ctx context.Context, tx store.Tx, meta Meta, e *contracts.TeamMemberRemoved) error {
	id := models.IDFromBigInt(e.TeamId).Concat(e.Member)
	member, err := store.Load[models.TeamMember](ctx, tx, models.KindTeamMember, id)
	if err != nil {
		return err
	}
	if member == nil {
		p.skip(meta, models.KindTeamMember, id)
		return nil
	}

	member.IsActive = false
	member.RemovedAt = timestamp(meta)
	member.RemoveTxHash = txHash(meta)
	if err := tx.Put(ctx, member); err != nil {
		return err
	}

	team, err := loadTeam(ctx, tx, e.TeamId)
	if err != nil {
		return err
	}
	if team == nil {
		p.skip(meta, models.KindTeam, member.Team)
		return nil
	}
	p.decrement(&team.MemberCount, meta, models.KindTeam, team.ID)
	return tx.Put(ctx, team)
}

func newTeamMember(teamID models.ID, member common.Address, meta Meta) *models.TeamMember {
	return &models.TeamMember{
		ID:         teamID.Concat(member),
		Team:       teamID,
		Member:     models.IDFromAddress(member),
		JoinedAt:   meta.BlockTimestamp,
		IsActive:   true,
		JoinTxHash: meta.TxHash,
	}
}

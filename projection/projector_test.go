package projection

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"questboard-indexer/contracts"
	"questboard-indexer/models"
	"questboard-indexer/store"
)

var (
	addrA = common.HexToAddress("0x000000000000000000000000000000000000000a")
	addrB = common.HexToAddress("0x000000000000000000000000000000000000000b")
	addrC = common.HexToAddress("0x000000000000000000000000000000000000000c")
	addrD = common.HexToAddress("0x000000000000000000000000000000000000000d")
)

type harness struct {
	t         *testing.T
	store     *store.Memory
	projector *Projector
	logs      *observer.ObservedLogs
	block     uint64
}

func newHarness(t *testing.T) *harness {
	core, logs := observer.New(zapcore.DebugLevel)
	return &harness{
		t:         t,
		store:     store.NewMemory(),
		projector: New(zap.New(core)),
		logs:      logs,
		block:     100,
	}
}

// apply projects each event in its own block and transaction.
func (h *harness) apply(events ...any) {
	h.t.Helper()
	for _, event := range events {
		meta := Meta{
			Contract:       contracts.QuestBoard,
			Event:          strings.TrimPrefix(fmt.Sprintf("%T", event), "*contracts."),
			BlockNumber:    h.block,
			BlockTimestamp: 1_700_000_000 + int64(h.block),
			TxHash:         common.BigToHash(new(big.Int).SetUint64(h.block)),
		}
		h.block++
		err := h.store.RunInTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
			return h.projector.Apply(ctx, tx, meta, event)
		})
		require.NoError(h.t, err)
	}
}

func (h *harness) quest(id int64) *models.Quest {
	return h.load(models.KindQuest, models.IDFromBigInt(big.NewInt(id)), new(models.Quest)).(*models.Quest)
}

func (h *harness) user(addr common.Address) *models.User {
	return h.load(models.KindUser, models.IDFromAddress(addr), new(models.User)).(*models.User)
}

func (h *harness) team(id int64) *models.Team {
	return h.load(models.KindTeam, models.IDFromBigInt(big.NewInt(id)), new(models.Team)).(*models.Team)
}

func (h *harness) stats() *models.PlatformStats {
	return h.load(models.KindPlatformStats, models.PlatformStatsID, new(models.PlatformStats)).(*models.PlatformStats)
}

func (h *harness) load(kind models.Kind, id models.ID, out models.Entity) models.Entity {
	h.t.Helper()
	require.NoError(h.t, h.store.Get(context.Background(), kind, id, out), "%s %s", kind, id)
	return out
}

func (h *harness) exists(kind models.Kind, id models.ID) bool {
	h.t.Helper()
	var doc map[string]any
	err := h.store.Get(context.Background(), kind, id, &doc)
	if err == nil {
		return true
	}
	require.ErrorIs(h.t, err, store.ErrNotFound)
	return false
}

func (h *harness) warnings(msg string) int {
	return h.logs.FilterLevelExact(zapcore.WarnLevel).FilterMessage(msg).Len()
}

func questCreated(id int64, creator common.Address) *contracts.QuestCreated {
	return &contracts.QuestCreated{
		QuestId:            big.NewInt(id),
		Creator:            creator,
		Title:              "T",
		Description:        "build a thing",
		MetadataURI:        "ipfs://quest",
		QuestType:          1,
		BountyAmount:       big.NewInt(100),
		MaxParticipants:    big.NewInt(10),
		MaxCollaborators:   big.NewInt(3),
		SubmissionDeadline: big.NewInt(1_800_000_000),
		ReviewDeadline:     big.NewInt(1_900_000_000),
		Tags:               []string{"go"},
		SkillsRequired:     []string{"solidity"},
		MinReputation:      big.NewInt(0),
		AllowedFileTypes:   []string{"pdf"},
		MaxFileSize:        big.NewInt(1 << 20),
	}
}

func teamCreated(teamID, questID int64, leader common.Address) *contracts.TeamCreated {
	return &contracts.TeamCreated{TeamId: big.NewInt(teamID), QuestId: big.NewInt(questID), Leader: leader, Name: "squad"}
}

func TestApply_EndToEnd(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(
		&contracts.QuestCreated{QuestId: big.NewInt(1), Creator: addrA, Title: "T", BountyAmount: big.NewInt(100)},
		&contracts.ParticipantJoined{QuestId: big.NewInt(1), Participant: addrB},
		&contracts.QuestCompleted{QuestId: big.NewInt(1), Winners: []common.Address{addrB}},
		&contracts.RewardDistributed{RewardId: big.NewInt(1), QuestId: big.NewInt(1), Recipient: addrB, Amount: big.NewInt(90), RewardType: 0},
	)

	quest := h.quest(1)
	require.Equal(models.QuestStatusCompleted, quest.Status)
	require.True(quest.IsCompleted)
	require.NotNil(quest.CompletedAt)
	require.Equal(int64(1), quest.ParticipantCount)
	require.Equal([]common.Address{addrB}, quest.Winners)
	require.Equal(models.QuestTypeIndividual, quest.QuestType)
	require.Equal(models.IDFromAddress(addrA), quest.Creator)

	winner := h.user(addrB)
	require.Equal("90", winner.TotalRewardsEarned.String())
	require.Equal(int64(1), winner.TotalQuestsCompleted)
	require.Equal(int64(1), h.user(addrA).TotalQuestsCreated)

	stats := h.stats()
	require.Equal("90", stats.TotalRewardsDistributed.String())
	require.Equal(int64(1), stats.TotalQuests)
	require.Equal(int64(2), stats.TotalUsers)

	participant := h.load(models.KindQuestParticipant, quest.ID.Concat(addrB), new(models.QuestParticipant)).(*models.QuestParticipant)
	require.True(participant.IsActive)
	require.Equal(models.IDFromAddress(addrB), participant.Participant)
}

func TestApply_QuestCreatedCopiesPayload(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(questCreated(7, addrA))

	quest := h.quest(7)
	require.Equal("7", quest.QuestID.String())
	require.Equal("build a thing", quest.Description)
	require.Equal("ipfs://quest", quest.MetadataURI)
	require.Equal(models.QuestTypeCollaborative, quest.QuestType)
	require.Equal(models.QuestStatusCreated, quest.Status)
	require.Equal([]string{"go"}, quest.Tags)
	require.Equal([]string{"solidity"}, quest.SkillsRequired)
	require.Equal([]string{"pdf"}, quest.AllowedFileTypes)
	require.Equal("1048576", quest.MaxFileSize.String())
	require.Empty(quest.Winners)
	require.Zero(quest.ParticipantCount)
	require.Equal(uint64(100), quest.CreatedAtBlock)
	require.Equal(quest.CreatedAt, quest.UpdatedAt)
}

func TestApply_SameQuestIDResolvesToSameKey(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(questCreated(42, addrA), questCreated(42, addrB))

	docs, err := h.store.List(context.Background(), models.KindQuest, nil, store.Page{})
	require.NoError(err)
	require.Len(docs, 1)
	require.Equal(models.IDFromAddress(addrB), h.quest(42).Creator)
	require.Equal(models.ID("0x2a"), h.quest(42).ID)
}

func TestApply_UserCountedOnce(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	// addrA is resolved as creator, participant and invitee/inviter across
	// several events and twice within the invite event.
	h.apply(
		questCreated(1, addrA),
		&contracts.ParticipantJoined{QuestId: big.NewInt(1), Participant: addrA},
		teamCreated(1, 1, addrA),
		&contracts.TeamInviteSent{TeamId: big.NewInt(1), Invitee: addrA, Inviter: addrA},
		&contracts.BountyEscrowed{QuestId: big.NewInt(1), Creator: addrA, Amount: big.NewInt(5)},
	)

	require.Equal(int64(1), h.stats().TotalUsers)
	require.Equal(int64(1), h.user(addrA).TotalQuestsCreated)
}

func TestApply_TeamMemberCountPairing(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(questCreated(1, addrA), teamCreated(1, 1, addrA))
	require.Equal(int64(1), h.team(1).MemberCount)
	leader := h.load(models.KindTeamMember, models.IDFromBigInt(big.NewInt(1)).Concat(addrA), new(models.TeamMember)).(*models.TeamMember)
	require.True(leader.IsActive)

	h.apply(
		&contracts.TeamMemberAdded{TeamId: big.NewInt(1), Member: addrB},
		&contracts.TeamMemberAdded{TeamId: big.NewInt(1), Member: addrC},
		&contracts.TeamMemberAdded{TeamId: big.NewInt(1), Member: addrD},
		&contracts.TeamMemberRemoved{TeamId: big.NewInt(1), Member: addrC},
	)
	require.Equal(int64(1+3-1), h.team(1).MemberCount)

	removed := h.load(models.KindTeamMember, models.IDFromBigInt(big.NewInt(1)).Concat(addrC), new(models.TeamMember)).(*models.TeamMember)
	require.False(removed.IsActive)
	require.NotNil(removed.RemovedAt)
	require.NotNil(removed.RemoveTxHash)
}

func TestApply_UnknownQuestTypeFallsBack(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	event := questCreated(1, addrA)
	event.QuestType = 5
	h.apply(event)

	require.Equal(models.QuestTypeIndividual, h.quest(1).QuestType)
	require.Equal(1, h.warnings("unmapped enum code"))
}

func TestApply_UnknownQuestStatusLeavesStatus(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(
		questCreated(1, addrA),
		&contracts.QuestUpdated{QuestId: big.NewInt(1), Status: 1},
	)
	require.Equal(models.QuestStatusActive, h.quest(1).Status)

	h.apply(&contracts.QuestUpdated{QuestId: big.NewInt(1), Status: 9})
	quest := h.quest(1)
	require.Equal(models.QuestStatusActive, quest.Status)
	require.Equal(int64(1_700_000_102), quest.UpdatedAt)
	require.Equal(1, h.warnings("unmapped enum code"))
}

func TestApply_PlatformFeeRewardExcludedFromEarnings(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(
		questCreated(1, addrA),
		&contracts.RewardDistributed{RewardId: big.NewInt(1), QuestId: big.NewInt(1), Recipient: addrB, Amount: big.NewInt(10), RewardType: 3},
	)

	require.Equal("0", h.user(addrB).TotalRewardsEarned.String())
	require.Equal("10", h.stats().TotalRewardsDistributed.String())
	reward := h.load(models.KindReward, models.IDFromBigInt(big.NewInt(1)), new(models.Reward)).(*models.Reward)
	require.Equal(models.RewardTypePlatformFee, reward.RewardType)
}

func TestApply_UnknownRewardTypeCountsAsWinner(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(
		questCreated(1, addrA),
		&contracts.RewardDistributed{RewardId: big.NewInt(0), QuestId: big.NewInt(1), Recipient: addrB, Amount: big.NewInt(10), RewardType: 7},
	)

	reward := h.load(models.KindReward, models.ID("0x00"), new(models.Reward)).(*models.Reward)
	require.Equal(models.RewardTypeWinner, reward.RewardType)
	require.Equal("10", h.user(addrB).TotalRewardsEarned.String())
}

func TestApply_SkipsMissingParent(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(
		&contracts.ParticipantJoined{QuestId: big.NewInt(9), Participant: addrB},
		&contracts.TeamCreated{TeamId: big.NewInt(1), QuestId: big.NewInt(9), Leader: addrC},
		&contracts.TeamMemberAdded{TeamId: big.NewInt(1), Member: addrD},
		&contracts.RewardDistributed{RewardId: big.NewInt(1), QuestId: big.NewInt(9), Recipient: addrB, Amount: big.NewInt(1)},
	)

	questID := models.IDFromBigInt(big.NewInt(9))
	require.False(h.exists(models.KindQuestParticipant, questID.Concat(addrB)))
	require.False(h.exists(models.KindTeam, models.IDFromBigInt(big.NewInt(1))))
	require.False(h.exists(models.KindTeamMember, models.IDFromBigInt(big.NewInt(1)).Concat(addrD)))
	require.False(h.exists(models.KindReward, models.IDFromBigInt(big.NewInt(1))))
	require.Equal(4, h.warnings("skipping event: referenced entity not found"))

	// The user is resolved before the quest lookup.
	require.True(h.exists(models.KindUser, models.IDFromAddress(addrB)))
	require.False(h.exists(models.KindUser, models.IDFromAddress(addrC)))
}

func TestApply_InviteRejectedLeavesMembership(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(
		questCreated(1, addrA),
		teamCreated(1, 1, addrA),
		&contracts.TeamInviteSent{TeamId: big.NewInt(1), Invitee: addrC, Inviter: addrA},
		&contracts.TeamInviteRejected{TeamId: big.NewInt(1), Invitee: addrC},
	)

	id := models.IDFromBigInt(big.NewInt(1)).Concat(addrC)
	invite := h.load(models.KindTeamInvite, id, new(models.TeamInvite)).(*models.TeamInvite)
	require.Equal(models.InviteStatusRejected, invite.Status)
	require.NotNil(invite.RespondedAt)
	require.False(h.exists(models.KindTeamMember, id))
	require.Equal(int64(1), h.team(1).MemberCount)
}

func TestApply_InviteAcceptedWithoutInvite(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(
		questCreated(1, addrA),
		teamCreated(1, 1, addrA),
		&contracts.TeamInviteAccepted{TeamId: big.NewInt(1), Invitee: addrB},
	)

	id := models.IDFromBigInt(big.NewInt(1)).Concat(addrB)
	require.False(h.exists(models.KindTeamInvite, id))
	require.True(h.exists(models.KindTeamMember, id))
	require.Equal(int64(2), h.team(1).MemberCount)
}

func TestApply_InviteAccepted(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(
		questCreated(1, addrA),
		teamCreated(1, 1, addrA),
		&contracts.TeamInviteSent{TeamId: big.NewInt(1), Invitee: addrB, Inviter: addrA},
		&contracts.TeamInviteAccepted{TeamId: big.NewInt(1), Invitee: addrB},
	)

	id := models.IDFromBigInt(big.NewInt(1)).Concat(addrB)
	invite := h.load(models.KindTeamInvite, id, new(models.TeamInvite)).(*models.TeamInvite)
	require.Equal(models.InviteStatusAccepted, invite.Status)
	require.NotNil(invite.ResponseTxHash)
	require.True(h.exists(models.KindTeamMember, id))
	require.Equal(int64(2), h.team(1).MemberCount)
}

func TestApply_ReinviteOverwritesResponse(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(
		questCreated(1, addrA),
		teamCreated(1, 1, addrA),
		&contracts.TeamInviteSent{TeamId: big.NewInt(1), Invitee: addrC, Inviter: addrA},
		&contracts.TeamInviteRejected{TeamId: big.NewInt(1), Invitee: addrC},
		&contracts.TeamInviteSent{TeamId: big.NewInt(1), Invitee: addrC, Inviter: addrB},
	)

	invite := h.load(models.KindTeamInvite, models.IDFromBigInt(big.NewInt(1)).Concat(addrC), new(models.TeamInvite)).(*models.TeamInvite)
	require.Equal(models.InviteStatusPending, invite.Status)
	require.Equal(models.IDFromAddress(addrB), invite.Inviter)
	require.Nil(invite.RespondedAt)
}

func TestApply_TeamDisbandDoesNotCascade(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(
		questCreated(1, addrA),
		teamCreated(1, 1, addrA),
		&contracts.TeamMemberAdded{TeamId: big.NewInt(1), Member: addrB},
		&contracts.TeamDisbanded{TeamId: big.NewInt(1)},
	)

	team := h.team(1)
	require.False(team.IsActive)
	require.NotNil(team.DisbandedAt)
	require.Equal(int64(2), team.MemberCount)

	for _, addr := range []common.Address{addrA, addrB} {
		member := h.load(models.KindTeamMember, team.ID.Concat(addr), new(models.TeamMember)).(*models.TeamMember)
		require.True(member.IsActive)
		require.Nil(member.RemovedAt)
	}
}

func TestApply_ParticipantCountClampedAtZero(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(
		questCreated(1, addrA),
		&contracts.ParticipantJoined{QuestId: big.NewInt(1), Participant: addrB},
		&contracts.ParticipantLeft{QuestId: big.NewInt(1), Participant: addrB},
		&contracts.ParticipantLeft{QuestId: big.NewInt(1), Participant: addrB},
	)

	require.Equal(int64(0), h.quest(1).ParticipantCount)
	require.Equal(1, h.warnings("counter underflow clamped at zero"))

	participant := h.load(models.KindQuestParticipant, models.IDFromBigInt(big.NewInt(1)).Concat(addrB), new(models.QuestParticipant)).(*models.QuestParticipant)
	require.False(participant.IsActive)
	require.NotNil(participant.LeftAt)

	// A rejoin reuses the record.
	h.apply(&contracts.ParticipantJoined{QuestId: big.NewInt(1), Participant: addrB})
	require.Equal(int64(1), h.quest(1).ParticipantCount)
}

func TestApply_MemberCountClampedAtZero(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(
		questCreated(1, addrA),
		teamCreated(1, 1, addrA),
		&contracts.TeamMemberRemoved{TeamId: big.NewInt(1), Member: addrA},
		&contracts.TeamMemberRemoved{TeamId: big.NewInt(1), Member: addrA},
	)

	require.Equal(int64(0), h.team(1).MemberCount)
	require.Equal(1, h.warnings("counter underflow clamped at zero"))
}

func TestApply_QuestCancelled(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(questCreated(1, addrA), &contracts.QuestCancelled{QuestId: big.NewInt(1)})

	quest := h.quest(1)
	require.Equal(models.QuestStatusCancelled, quest.Status)
	require.True(quest.IsCancelled)
	require.NotNil(quest.CancelledAt)
}

func TestApply_QuestCompletedReplacesWinners(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(
		questCreated(1, addrA),
		&contracts.QuestCompleted{QuestId: big.NewInt(1), Winners: []common.Address{addrB, addrC}},
		&contracts.QuestCompleted{QuestId: big.NewInt(1), Winners: []common.Address{addrD}},
	)

	require.Equal([]common.Address{addrD}, h.quest(1).Winners)
	// Completion never creates users.
	require.False(h.exists(models.KindUser, models.IDFromAddress(addrD)))
}

func TestApply_Submissions(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(
		questCreated(1, addrA),
		&contracts.SubmissionCreated{SubmissionId: big.NewInt(3), QuestId: big.NewInt(1), Submitter: addrB, ContentURI: "ipfs://work"},
		&contracts.SubmissionReviewed{SubmissionId: big.NewInt(3), Reviewer: addrA, Status: 1, Feedback: "great"},
	)

	submission := h.load(models.KindSubmission, models.IDFromBigInt(big.NewInt(3)), new(models.Submission)).(*models.Submission)
	require.Equal(models.SubmissionStatusApproved, submission.Status)
	require.Equal("great", *submission.Feedback)
	require.Equal(models.IDFromAddress(addrA), *submission.Reviewer)
	require.Equal(int64(1), h.quest(1).SubmissionCount)
	require.Equal(int64(1), h.user(addrB).TotalSubmissions)
	require.Equal(int64(1), h.stats().TotalSubmissions)
}

func TestApply_ValueLocked(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(
		&contracts.BountyEscrowed{QuestId: big.NewInt(1), Creator: addrA, Amount: big.NewInt(100)},
		&contracts.BountyRefunded{QuestId: big.NewInt(1), Creator: addrA, Amount: big.NewInt(30)},
		&contracts.EmergencyWithdraw{Recipient: addrB, Amount: big.NewInt(20)},
	)

	stats := h.stats()
	require.Equal("50", stats.TotalValueLocked.String())
	require.Equal(int64(2), stats.TotalUsers)
}

func TestApply_PaymentSplitPersisted(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(
		questCreated(1, addrA),
		&contracts.PaymentSplitUpdated{QuestId: big.NewInt(1), Recipients: []common.Address{addrB, addrC}, Shares: []*big.Int{big.NewInt(60), big.NewInt(40)}},
	)

	quest := h.quest(1)
	split := h.load(models.KindPaymentSplit, quest.ID, new(models.PaymentSplit)).(*models.PaymentSplit)
	require.Equal([]common.Address{addrB, addrC}, split.Recipients)
	require.Len(split.Shares, 2)
	require.Equal("60", split.Shares[0].String())
	require.Equal(split.UpdatedAt, quest.UpdatedAt)
	require.Greater(quest.UpdatedAt, quest.CreatedAt)
}

func TestApply_PlatformFee(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(
		&contracts.PlatformFeeUpdated{NewFee: big.NewInt(250)},
		&contracts.PlatformFeeRecipientUpdated{NewRecipient: addrD},
		&contracts.PlatformFeeUpdated{NewFee: big.NewInt(300)},
	)

	stats := h.stats()
	require.Equal("300", stats.PlatformFeePercentage.String())
	require.Equal(addrD, stats.PlatformFeeRecipient)
	require.Zero(stats.TotalUsers)
}

func TestApply_AuditRecords(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	role := common.HexToHash("0x01")
	h.apply(
		&contracts.RoleGranted{Role: role, Account: addrB, Sender: addrA},
		&contracts.RoleAdminChanged{Role: role, PreviousAdminRole: common.Hash{}, NewAdminRole: common.HexToHash("0x02")},
		&contracts.Paused{Account: addrA},
	)

	granted := h.load(models.KindRoleEvent, models.IDFromLog(common.BigToHash(big.NewInt(100)), 0), new(models.RoleEvent)).(*models.RoleEvent)
	require.Equal(models.AuditRoleGranted, granted.EventType)
	require.Equal(addrB, *granted.Account)
	require.Equal(addrA, *granted.Sender)
	require.Nil(granted.NewAdminRole)

	changed := h.load(models.KindRoleEvent, models.IDFromLog(common.BigToHash(big.NewInt(101)), 0), new(models.RoleEvent)).(*models.RoleEvent)
	require.Equal(models.AuditRoleAdminChanged, changed.EventType)
	require.Equal(common.HexToHash("0x02"), *changed.NewAdminRole)
	require.Nil(changed.Account)

	paused := h.load(models.KindPauseEvent, models.IDFromLog(common.BigToHash(big.NewInt(102)), 0), new(models.PauseEvent)).(*models.PauseEvent)
	require.Equal(models.AuditPaused, paused.EventType)
	require.Equal(string(contracts.QuestBoard), paused.Contract)

	// Audit events touch nothing else.
	require.False(h.exists(models.KindPlatformStats, models.PlatformStatsID))
}

func TestApply_UnsupportedEvent(t *testing.T) {
	require := require.New(t)
	p := New(zap.NewNop())

	err := store.NewMemory().RunInTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		return p.Apply(ctx, tx, Meta{}, struct{}{})
	})
	require.ErrorIs(err, ErrUnsupportedEvent)
}

func TestApply_CollaborationRequest(t *testing.T) {
	require := require.New(t)
	h := newHarness(t)

	h.apply(
		&contracts.CollaborationRequestCreated{RequestId: big.NewInt(4), QuestId: big.NewInt(1), Requester: addrB},
		questCreated(1, addrA),
		&contracts.CollaborationRequestCreated{RequestId: big.NewInt(5), QuestId: big.NewInt(1), Requester: addrB},
	)

	// The quest check runs before the requester is resolved.
	require.False(h.exists(models.KindCollaborationRequest, models.IDFromBigInt(big.NewInt(4))))
	request := h.load(models.KindCollaborationRequest, models.IDFromBigInt(big.NewInt(5)), new(models.CollaborationRequest)).(*models.CollaborationRequest)
	require.Equal(h.quest(1).ID, request.Quest)
	require.Equal(models.IDFromAddress(addrB), request.Requester)
	require.Equal(int64(2), h.stats().TotalUsers)
}

package models

// QuestType mirrors the numeric quest type emitted by QuestBoard.
type QuestType string

const (
	QuestTypeIndividual    QuestType = "INDIVIDUAL"
	QuestTypeCollaborative QuestType = "COLLABORATIVE"
	QuestTypeCompetition   QuestType = "COMPETITION"
)

// QuestTypeFromCode maps the on-chain code. ok is false for unmapped codes, in
// which case the INDIVIDUAL default is returned.
func QuestTypeFromCode(code uint8) (QuestType, bool) {
	switch code {
	case 0:
		return QuestTypeIndividual, true
	case 1:
		return QuestTypeCollaborative, true
	case 2:
		return QuestTypeCompetition, true
	default:
		return QuestTypeIndividual, false
	}
}

// QuestStatus mirrors the numeric quest status emitted by QuestBoard.
type QuestStatus string

const (
	QuestStatusCreated   QuestStatus = "CREATED"
	QuestStatusActive    QuestStatus = "ACTIVE"
	QuestStatusCompleted QuestStatus = "COMPLETED"
	QuestStatusCancelled QuestStatus = "CANCELLED"
)

// QuestStatusFromCode maps the on-chain code. There is no default: callers
// must leave the status untouched when ok is false.
func QuestStatusFromCode(code uint8) (QuestStatus, bool) {
	switch code {
	case 0:
		return QuestStatusCreated, true
	case 1:
		return QuestStatusActive, true
	case 2:
		return QuestStatusCompleted, true
	case 3:
		return QuestStatusCancelled, true
	default:
		return "", false
	}
}

type RewardType string

const (
	RewardTypeWinner        RewardType = "WINNER_REWARD"
	RewardTypeParticipation RewardType = "PARTICIPATION_REWARD"
	RewardTypeBonus         RewardType = "BONUS_REWARD"
	RewardTypePlatformFee   RewardType = "PLATFORM_FEE"
)

// RewardTypeFromCode maps the on-chain code, defaulting to WINNER_REWARD.
func RewardTypeFromCode(code uint8) (RewardType, bool) {
	switch code {
	case 0:
		return RewardTypeWinner, true
	case 1:
		return RewardTypeParticipation, true
	case 2:
		return RewardTypeBonus, true
	case 3:
		return RewardTypePlatformFee, true
	default:
		return RewardTypeWinner, false
	}
}

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "PENDING"
	InviteStatusAccepted InviteStatus = "ACCEPTED"
	InviteStatusRejected InviteStatus = "REJECTED"
)

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "PENDING"
	SubmissionStatusApproved SubmissionStatus = "APPROVED"
	SubmissionStatusRejected SubmissionStatus = "REJECTED"
)

// SubmissionStatusFromCode maps the review outcome emitted by QuestBoard.
func SubmissionStatusFromCode(code uint8) (SubmissionStatus, bool) {
	switch code {
	case 0:
		return SubmissionStatusPending, true
	case 1:
		return SubmissionStatusApproved, true
	case 2:
		return SubmissionStatusRejected, true
	default:
		return "", false
	}
}

// Audit event types.
const (
	AuditRoleGranted      = "ROLE_GRANTED"
	AuditRoleRevoked      = "ROLE_REVOKED"
	AuditRoleAdminChanged = "ROLE_ADMIN_CHANGED"
	AuditPaused           = "PAUSED"
	AuditUnpaused         = "UNPAUSED"
)

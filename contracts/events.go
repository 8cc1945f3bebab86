package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Field names follow the ABI parameter names camel-cased, which is what
// abi.ParseTopics and UnpackIntoInterface resolve them by.

// QuestBoard events.
type (
	QuestCreated struct {
		QuestId            *big.Int
		Creator            common.Address
		Title              string
		Description        string
		MetadataURI        string
		QuestType          uint8
		BountyAmount       *big.Int
		BountyToken        common.Address
		MaxParticipants    *big.Int
		MaxCollaborators   *big.Int
		SubmissionDeadline *big.Int
		ReviewDeadline     *big.Int
		RequiresApproval   bool
		Tags               []string
		SkillsRequired     []string
		MinReputation      *big.Int
		KycRequired        bool
		AllowedFileTypes   []string
		MaxFileSize        *big.Int
	}

	QuestUpdated struct {
		QuestId *big.Int
		Status  uint8
	}

	QuestCompleted struct {
		QuestId *big.Int
		Winners []common.Address
	}

	QuestCancelled struct {
		QuestId *big.Int
	}

	ParticipantJoined struct {
		QuestId     *big.Int
		Participant common.Address
	}

	ParticipantLeft struct {
		QuestId     *big.Int
		Participant common.Address
	}

	SubmissionCreated struct {
		SubmissionId *big.Int
		QuestId      *big.Int
		Submitter    common.Address
		ContentURI   string
	}

	SubmissionReviewed struct {
		SubmissionId *big.Int
		Reviewer     common.Address
		Status       uint8
		Feedback     string
	}

	PlatformFeeUpdated struct {
		NewFee *big.Int
	}

	PlatformFeeRecipientUpdated struct {
		NewRecipient common.Address
	}
)

// CollaborationManager events.
type (
	CollaborationRequestCreated struct {
		RequestId *big.Int
		QuestId   *big.Int
		Requester common.Address
	}

	TeamCreated struct {
		TeamId  *big.Int
		QuestId *big.Int
		Leader  common.Address
		Name    string
	}

	TeamDisbanded struct {
		TeamId *big.Int
	}

	TeamInviteSent struct {
		TeamId  *big.Int
		Invitee common.Address
		Inviter common.Address
	}

	TeamInviteAccepted struct {
		TeamId  *big.Int
		Invitee common.Address
	}

	TeamInviteRejected struct {
		TeamId  *big.Int
		Invitee common.Address
	}

	TeamMemberAdded struct {
		TeamId *big.Int
		Member common.Address
	}

	TeamMemberRemoved struct {
		TeamId *big.Int
		Member common.Address
	}
)

// RewardManager events.
type (
	RewardDistributed struct {
		RewardId   *big.Int
		QuestId    *big.Int
		Recipient  common.Address
		Amount     *big.Int
		Token      common.Address
		RewardType uint8
	}

	BountyEscrowed struct {
		QuestId *big.Int
		Creator common.Address
		Amount  *big.Int
		Token   common.Address
	}

	BountyRefunded struct {
		QuestId *big.Int
		Creator common.Address
		Amount  *big.Int
	}

	EmergencyWithdraw struct {
		Token     common.Address
		Recipient common.Address
		Amount    *big.Int
	}

	PaymentSplitUpdated struct {
		QuestId    *big.Int
		Recipients []common.Address
		Shares     []*big.Int
	}
)

// AccessControl and Pausable events, emitted identically by every contract.
type (
	RoleAdminChanged struct {
		Role              [32]byte
		PreviousAdminRole [32]byte
		NewAdminRole      [32]byte
	}

	RoleGranted struct {
		Role    [32]byte
		Account common.Address
		Sender  common.Address
	}

	RoleRevoked struct {
		Role    [32]byte
		Account common.Address
		Sender  common.Address
	}

	Paused struct {
		Account common.Address
	}

	Unpaused struct {
		Account common.Address
	}
)

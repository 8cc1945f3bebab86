package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Quest is created once by QuestCreated. Descriptive fields are never
// rewritten afterwards; only status, counters, winners and timestamps move.
type Quest struct {
	ID                 ID             `json:"id"`
	QuestID            *big.Int       `json:"quest_id"`
	Creator            ID             `json:"creator"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	MetadataURI        string         `json:"metadata_uri"`
	QuestType          QuestType      `json:"quest_type"`
	BountyAmount       *big.Int       `json:"bounty_amount"`
	BountyToken        common.Address `json:"bounty_token"`
	MaxParticipants    *big.Int       `json:"max_participants"`
	MaxCollaborators   *big.Int       `json:"max_collaborators"`
	SubmissionDeadline *big.Int       `json:"submission_deadline"`
	ReviewDeadline     *big.Int       `json:"review_deadline"`
	RequiresApproval   bool           `json:"requires_approval"`
	Tags               []string       `json:"tags"`

	SkillsRequired   []string `json:"skills_required"`
	MinReputation    *big.Int `json:"min_reputation"`
	KycRequired      bool     `json:"kyc_required"`
	AllowedFileTypes []string `json:"allowed_file_types"`
	MaxFileSize      *big.Int `json:"max_file_size"`

	Status           QuestStatus      `json:"status"`
	IsCompleted      bool             `json:"is_completed"`
	IsCancelled      bool             `json:"is_cancelled"`
	ParticipantCount int64            `json:"participant_count"`
	SubmissionCount  int64            `json:"submission_count"`
	Winners          []common.Address `json:"winners"`

	CreatedAt      int64       `json:"created_at"`
	UpdatedAt      int64       `json:"updated_at"`
	CompletedAt    *int64      `json:"completed_at"`
	CancelledAt    *int64      `json:"cancelled_at"`
	CreatedAtBlock uint64      `json:"created_at_block"`
	TxHash         common.Hash `json:"tx_hash"`
}

func (q *Quest) EntityKind() Kind { return KindQuest }
func (q *Quest) EntityID() ID     { return q.ID }

// QuestParticipant is reused across join/leave: a rejoin overwrites the record.
type QuestParticipant struct {
	ID          ID           `json:"id"`
	Quest       ID           `json:"quest"`
	Participant ID           `json:"participant"`
	JoinedAt    int64        `json:"joined_at"`
	LeftAt      *int64       `json:"left_at"`
	IsActive    bool         `json:"is_active"`
	JoinTxHash  common.Hash  `json:"join_tx_hash"`
	LeaveTxHash *common.Hash `json:"leave_tx_hash"`
}

func (p *QuestParticipant) EntityKind() Kind { return KindQuestParticipant }
func (p *QuestParticipant) EntityID() ID     { return p.ID }

type Submission struct {
	ID           ID               `json:"id"`
	SubmissionID *big.Int         `json:"submission_id"`
	Quest        ID               `json:"quest"`
	Submitter    ID               `json:"submitter"`
	ContentURI   string           `json:"content_uri"`
	Status       SubmissionStatus `json:"status"`
	Reviewer     *ID              `json:"reviewer"`
	Feedback     *string          `json:"feedback"`
	SubmittedAt  int64            `json:"submitted_at"`
	ReviewedAt   *int64           `json:"reviewed_at"`
	TxHash       common.Hash      `json:"tx_hash"`
	ReviewTxHash *common.Hash     `json:"review_tx_hash"`
}

func (s *Submission) EntityKind() Kind { return KindSubmission }
func (s *Submission) EntityID() ID     { return s.ID }

// CollaborationRequest has no lifecycle beyond creation.
type CollaborationRequest struct {
	ID        ID          `json:"id"`
	RequestID *big.Int    `json:"request_id"`
	Quest     ID          `json:"quest"`
	Requester ID          `json:"requester"`
	CreatedAt int64       `json:"created_at"`
	TxHash    common.Hash `json:"tx_hash"`
}

func (r *CollaborationRequest) EntityKind() Kind { return KindCollaborationRequest }
func (r *CollaborationRequest) EntityID() ID     { return r.ID }

package models

import (
	"encoding/binary"
	"encoding/hex"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Kind names an entity collection in the store.
type Kind string

const (
	KindUser                 Kind = "User"
	KindQuest                Kind = "Quest"
	KindQuestParticipant     Kind = "QuestParticipant"
	KindSubmission           Kind = "Submission"
	KindTeam                 Kind = "Team"
	KindTeamMember           Kind = "TeamMember"
	KindTeamInvite           Kind = "TeamInvite"
	KindCollaborationRequest Kind = "CollaborationRequest"
	KindReward               Kind = "Reward"
	KindPaymentSplit         Kind = "PaymentSplit"
	KindPlatformStats        Kind = "PlatformStats"
	KindRoleEvent            Kind = "RoleEvent"
	KindPauseEvent           Kind = "PauseEvent"
)

// Entity is a read-model record with a deterministic key.
type Entity interface {
	EntityKind() Kind
	EntityID() ID
}

// ID is a lowercase 0x-prefixed hex key derived from on-chain content.
type ID string

// PlatformStatsID is the reserved key of the PlatformStats singleton.
const PlatformStatsID ID = "platform"

// IDFromBigInt encodes an on-chain numeric id as minimal big-endian bytes.
// Zero encodes as a single zero byte so that no key is empty.
func IDFromBigInt(v *big.Int) ID {
	var b []byte
	if v != nil {
		b = v.Bytes()
	}
	if len(b) == 0 {
		b = []byte{0}
	}
	return ID(hexutil.Encode(b))
}

// IDFromAddress encodes the raw 20 address bytes.
func IDFromAddress(addr common.Address) ID {
	return ID(hexutil.Encode(addr.Bytes()))
}

// IDFromLog keys append-only audit records by transaction hash and log index.
func IDFromLog(txHash common.Hash, logIndex uint) ID {
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], uint32(logIndex))
	return ID(hexutil.Encode(append(txHash.Bytes(), idx[:]...)))
}

// Concat appends an address to the key, used for composite keys such as
// (quest, participant) and (team, member).
func (id ID) Concat(addr common.Address) ID {
	return id + ID(hex.EncodeToString(addr.Bytes()))
}

func (id ID) String() string {
	return string(id)
}

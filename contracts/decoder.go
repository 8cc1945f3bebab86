package contracts

import (
	"bytes"
	"embed"
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/xerrors"
)

// Name identifies one of the indexed contracts.
type Name string

const (
	QuestBoard           Name = "QuestBoard"
	CollaborationManager Name = "CollaborationManager"
	RewardManager        Name = "RewardManager"
)

var ErrUnknownEvent = errors.New("contracts: unknown event")

//go:embed abi/*.json
var abiFiles embed.FS

var factories = map[Name]map[string]func() any{
	QuestBoard: withAccessControl(map[string]func() any{
		"QuestCreated":                func() any { return new(QuestCreated) },
		"QuestUpdated":                func() any { return new(QuestUpdated) },
		"QuestCompleted":              func() any { return new(QuestCompleted) },
		"QuestCancelled":              func() any { return new(QuestCancelled) },
		"ParticipantJoined":           func() any { return new(ParticipantJoined) },
		"ParticipantLeft":             func() any { return new(ParticipantLeft) },
		"SubmissionCreated":           func() any { return new(SubmissionCreated) },
		"SubmissionReviewed":          func() any { return new(SubmissionReviewed) },
		"PlatformFeeUpdated":          func() any { return new(PlatformFeeUpdated) },
		"PlatformFeeRecipientUpdated": func() any { return new(PlatformFeeRecipientUpdated) },
	}),
	CollaborationManager: withAccessControl(map[string]func() any{
		"CollaborationRequestCreated": func() any { return new(CollaborationRequestCreated) },
		"TeamCreated":                 func() any { return new(TeamCreated) },
		"TeamDisbanded":               func() any { return new(TeamDisbanded) },
		"TeamInviteSent":              func() any { return new(TeamInviteSent) },
		"TeamInviteAccepted":          func() any { return new(TeamInviteAccepted) },
		"TeamInviteRejected":          func() any { return new(TeamInviteRejected) },
		"TeamMemberAdded":             func() any { return new(TeamMemberAdded) },
		"TeamMemberRemoved":           func() any { return new(TeamMemberRemoved) },
	}),
	RewardManager: withAccessControl(map[string]func() any{
		"RewardDistributed":   func() any { return new(RewardDistributed) },
		"BountyEscrowed":      func() any { return new(BountyEscrowed) },
		"BountyRefunded":      func() any { return new(BountyRefunded) },
		"EmergencyWithdraw":   func() any { return new(EmergencyWithdraw) },
		"PaymentSplitUpdated": func() any { return new(PaymentSplitUpdated) },
	}),
}

func withAccessControl(m map[string]func() any) map[string]func() any {
	m["RoleAdminChanged"] = func() any { return new(RoleAdminChanged) }
	m["RoleGranted"] = func() any { return new(RoleGranted) }
	m["RoleRevoked"] = func() any { return new(RoleRevoked) }
	m["Paused"] = func() any { return new(Paused) }
	m["Unpaused"] = func() any { return new(Unpaused) }
	return m
}

type (
	// Decoder turns raw logs of the indexed contracts into typed events.
	Decoder struct {
		contracts map[common.Address]*boundContract
	}

	// Decoded is a log decoded into one of the event structs of this package.
	Decoded struct {
		Contract Name
		Name     string
		Event    any
		Log      types.Log
	}

	boundContract struct {
		name   Name
		bound  *bind.BoundContract
		events map[common.Hash]abi.Event
	}
)

// ParseABI returns the embedded ABI of the named contract.
func ParseABI(name Name) (abi.ABI, error) {
	raw, err := abiFiles.ReadFile("abi/" + string(name) + ".json")
	if err != nil {
		return abi.ABI{}, xerrors.Errorf("failed to read %s ABI: %w", name, err)
	}
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return abi.ABI{}, xerrors.Errorf("failed to parse %s ABI: %w", name, err)
	}
	return parsed, nil
}

// NewDecoder binds each contract name to its deployed address.
func NewDecoder(addresses map[Name]common.Address) (*Decoder, error) {
	d := &Decoder{contracts: make(map[common.Address]*boundContract, len(addresses))}
	for name, address := range addresses {
		if _, ok := factories[name]; !ok {
			return nil, xerrors.Errorf("unsupported contract %q", name)
		}
		if _, dup := d.contracts[address]; dup {
			return nil, xerrors.Errorf("address %s bound to more than one contract", address.Hex())
		}
		parsed, err := ParseABI(name)
		if err != nil {
			return nil, err
		}
		events := make(map[common.Hash]abi.Event, len(parsed.Events))
		for _, event := range parsed.Events {
			events[event.ID] = event
		}
		d.contracts[address] = &boundContract{
			name:   name,
			bound:  bind.NewBoundContract(address, parsed, nil, nil, nil),
			events: events,
		}
	}
	return d, nil
}

// Addresses returns the contract addresses to filter logs by.
func (d *Decoder) Addresses() []common.Address {
	addresses := make([]common.Address, 0, len(d.contracts))
	for address := range d.contracts {
		addresses = append(addresses, address)
	}
	return addresses
}

// Decode returns ErrUnknownEvent for logs of other contracts or events this
// indexer does not project.
func (d *Decoder) Decode(log types.Log) (*Decoded, error) {
	contract, ok := d.contracts[log.Address]
	if !ok || len(log.Topics) == 0 {
		return nil, ErrUnknownEvent
	}
	event, ok := contract.events[log.Topics[0]]
	if !ok {
		return nil, ErrUnknownEvent
	}
	factory, ok := factories[contract.name][event.Name]
	if !ok {
		return nil, ErrUnknownEvent
	}

	out := factory()
	if err := contract.bound.UnpackLog(out, event.Name, log); err != nil {
		return nil, xerrors.Errorf(
			"failed to unpack %s.%s at block %d tx %s: %w",
			contract.name, event.Name, log.BlockNumber, log.TxHash.Hex(), err)
	}
	return &Decoded{
		Contract: contract.name,
		Name:     event.Name,
		Event:    out,
		Log:      log,
	}, nil
}

package contracts

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/xerrors"
)

// EncodeLog builds the log a contract would emit for event with args given in
// ABI input order. It is the inverse of Decoder.Decode and is used to replay
// scripted scenarios against the projection.
func EncodeLog(name Name, address common.Address, event string, args ...any) (types.Log, error) {
	parsed, err := ParseABI(name)
	if err != nil {
		return types.Log{}, err
	}
	ev, ok := parsed.Events[event]
	if !ok {
		return types.Log{}, xerrors.Errorf("%s has no event %s: %w", name, event, ErrUnknownEvent)
	}
	if len(args) != len(ev.Inputs) {
		return types.Log{}, xerrors.Errorf("%s.%s takes %d arguments, got %d", name, event, len(ev.Inputs), len(args))
	}

	var indexed [][]any
	var data []any
	for i, input := range ev.Inputs {
		if input.Indexed {
			indexed = append(indexed, []any{args[i]})
		} else {
			data = append(data, args[i])
		}
	}

	topics := []common.Hash{ev.ID}
	if len(indexed) > 0 {
		rules, err := abi.MakeTopics(indexed...)
		if err != nil {
			return types.Log{}, xerrors.Errorf("failed to encode %s.%s topics: %w", name, event, err)
		}
		for _, rule := range rules {
			topics = append(topics, rule[0])
		}
	}

	packed, err := ev.Inputs.NonIndexed().Pack(data...)
	if err != nil {
		return types.Log{}, xerrors.Errorf("failed to encode %s.%s data: %w", name, event, err)
	}
	return types.Log{
		Address: address,
		Topics:  topics,
		Data:    packed,
	}, nil
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"golang.org/x/xerrors"

	"questboard-indexer/models"
)

var (
	ErrNotFound      = errors.New("store: item not found")
	ErrInvalidFilter = errors.New("store: invalid filter")
)

type (
	// Reader is the query side of the entity graph.
	Reader interface {
		// Get decodes the entity stored under (kind, id) into out.
		// It returns ErrNotFound when there is no such entity.
		Get(ctx context.Context, kind models.Kind, id models.ID, out any) error
		// List returns the raw documents of kind matching every filter,
		// ordered by key.
		List(ctx context.Context, kind models.Kind, filters []Filter, page Page) ([]json.RawMessage, error)
		// Cursor returns the position of the last applied event for the named stream.
		Cursor(ctx context.Context, name string) (Cursor, bool, error)
		Ping(ctx context.Context) error
	}

	// Tx is the write side. All writes made through one Tx commit together.
	Tx interface {
		Get(ctx context.Context, kind models.Kind, id models.ID, out any) error
		Put(ctx context.Context, entity models.Entity) error
		SetCursor(ctx context.Context, name string, cursor Cursor) error
	}

	Store interface {
		Reader
		// RunInTx runs fn in a transaction, committing when fn returns nil and
		// discarding every write otherwise.
		RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
		Close()
	}

	// Filter matches a top-level document field against a value, compared as text.
	Filter struct {
		Field string
		Value string
	}

	Page struct {
		Limit  int
		Offset int
	}

	// Cursor is the (block, log index) position of the last applied log.
	Cursor struct {
		BlockNumber uint64 `json:"block_number"`
		LogIndex    uint   `json:"log_index"`
	}
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500

	// EndOfBlock is the log index of a cursor whose block was scanned to the end.
	EndOfBlock uint = math.MaxUint32
)

// Covers reports whether the log at (blockNumber, logIndex) was already applied.
func (c Cursor) Covers(blockNumber uint64, logIndex uint) bool {
	if blockNumber != c.BlockNumber {
		return blockNumber < c.BlockNumber
	}
	return logIndex <= c.LogIndex
}

// NextBlock is the first block that may still hold logs the cursor does not cover.
func (c Cursor) NextBlock() uint64 {
	if c.LogIndex == EndOfBlock {
		return c.BlockNumber + 1
	}
	return c.BlockNumber
}

func (c Cursor) String() string {
	return fmt.Sprintf("%d:%d", c.BlockNumber, c.LogIndex)
}

func (p Page) normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

func validateFilters(filters []Filter) error {
	for _, f := range filters {
		if f.Field == "" {
			return xerrors.Errorf("empty field name: %w", ErrInvalidFilter)
		}
	}
	return nil
}

// Load reads an entity through a transaction, returning nil when it does not exist.
func Load[T any](ctx context.Context, tx Tx, kind models.Kind, id models.ID) (*T, error) {
	out := new(T)
	if err := tx.Get(ctx, kind, id, out); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, xerrors.Errorf("failed to load %s %s: %w", kind, id, err)
	}
	return out, nil
}

// ListAs runs List and decodes every document into T.
func ListAs[T any](ctx context.Context, r Reader, kind models.Kind, filters []Filter, page Page) ([]*T, error) {
	docs, err := r.List(ctx, kind, filters, page)
	if err != nil {
		return nil, err
	}
	result := make([]*T, 0, len(docs))
	for _, doc := range docs {
		out := new(T)
		if err := json.Unmarshal(doc, out); err != nil {
			return nil, xerrors.Errorf("failed to decode %s document: %w", kind, err)
		}
		result = append(result, out)
	}
	return result, nil
}

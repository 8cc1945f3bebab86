package indexer

import (
	"context"
	"errors"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"questboard-indexer/contracts"
	"questboard-indexer/logging"
	"questboard-indexer/models"
	"questboard-indexer/projection"
	"questboard-indexer/store"
)

// CursorName is the store cursor tracking the last applied log.
const CursorName = "questboard"

type (
	// LogSource is the part of the JSON-RPC client the indexer reads from.
	// *ethclient.Client satisfies it.
	LogSource interface {
		BlockNumber(ctx context.Context) (uint64, error)
		FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
		HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	}

	// Sink receives the entities written by each committed event.
	Sink interface {
		Mirror(ctx context.Context, entities []models.Entity) error
	}

	Config struct {
		StartBlock    uint64
		BatchSize     uint64
		Confirmations uint64
		PollInterval  time.Duration
		MaxAttempts   int
		RetryInterval time.Duration
	}

	Indexer struct {
		logger    *zap.Logger
		cfg       Config
		source    LogSource
		decoder   *contracts.Decoder
		store     store.Store
		projector *projection.Projector
		sink      Sink
		retry     retryer

		mu     sync.Mutex
		status Status
	}

	// Status describes the progress of the indexer for the status endpoint.
	Status struct {
		Head          uint64    `json:"head"`
		SafeHead      uint64    `json:"safe_head"`
		Cursor        string    `json:"cursor"`
		EventsApplied uint64    `json:"events_applied"`
		LastPollAt    time.Time `json:"last_poll_at"`
		LastError     string    `json:"last_error,omitempty"`
	}

	Option func(i *Indexer)
)

// WithSink mirrors every committed event's entities to sink.
func WithSink(sink Sink) Option {
	return func(i *Indexer) {
		i.sink = sink
	}
}

func New(logger *zap.Logger, cfg Config, source LogSource, decoder *contracts.Decoder, s store.Store, projector *projection.Projector, opts ...Option) *Indexer {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 1000
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 15 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = defaultInitialInterval
	}

	logger = logging.WithPackage(logger)
	i := &Indexer{
		logger:    logger,
		cfg:       cfg,
		source:    source,
		decoder:   decoder,
		store:     s,
		projector: projector,
		retry: retryer{
			maxAttempts:     cfg.MaxAttempts,
			initialInterval: cfg.RetryInterval,
			logger:          logger,
		},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Indexer) Status() Status {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.status
}

// Poll applies every log between the stored cursor and the confirmed head.
// Each log commits together with the cursor, so a failed poll resumes right
// after the last applied log.
func (i *Indexer) Poll(ctx context.Context) error {
	err := i.poll(ctx)

	i.mu.Lock()
	i.status.LastPollAt = time.Now().UTC()
	i.status.LastError = ""
	if err != nil {
		i.status.LastError = err.Error()
	}
	i.mu.Unlock()

	return err
}

func (i *Indexer) poll(ctx context.Context) error {
	cursor, ok, err := i.store.Cursor(ctx, CursorName)
	if err != nil {
		return xerrors.Errorf("failed to read cursor: %w", err)
	}
	from := i.cfg.StartBlock
	if ok && cursor.NextBlock() > from {
		from = cursor.NextBlock()
	}

	head, err := retryWithResult(ctx, i.retry, "eth_blockNumber", i.source.BlockNumber)
	if err != nil {
		return xerrors.Errorf("failed to get head: %w", err)
	}
	i.setHead(head)
	if head < i.cfg.Confirmations {
		return nil
	}
	safe := head - i.cfg.Confirmations
	if from > safe {
		return nil
	}

	for start := from; start <= safe; start += i.cfg.BatchSize {
		end := start + i.cfg.BatchSize - 1
		if end > safe {
			end = safe
		}
		if err := i.processRange(ctx, start, end, cursor); err != nil {
			return err
		}
		cursor = store.Cursor{BlockNumber: end, LogIndex: store.EndOfBlock}
		err := i.store.RunInTx(ctx, func(ctx context.Context, tx store.Tx) error {
			return tx.SetCursor(ctx, CursorName, cursor)
		})
		if err != nil {
			return xerrors.Errorf("failed to advance cursor to %d: %w", end, err)
		}
		i.setCursor(cursor)
	}
	return nil
}

func (i *Indexer) processRange(ctx context.Context, start, end uint64, cursor store.Cursor) error {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(start),
		ToBlock:   new(big.Int).SetUint64(end),
		Addresses: i.decoder.Addresses(),
	}
	logs, err := retryWithResult(ctx, i.retry, "eth_getLogs", func(ctx context.Context) ([]types.Log, error) {
		return i.source.FilterLogs(ctx, query)
	})
	if err != nil {
		return xerrors.Errorf("failed to get logs for blocks %d-%d: %w", start, end, err)
	}
	sort.SliceStable(logs, func(a, b int) bool {
		if logs[a].BlockNumber != logs[b].BlockNumber {
			return logs[a].BlockNumber < logs[b].BlockNumber
		}
		return logs[a].Index < logs[b].Index
	})

	i.logger.Debug("processing block range",
		zap.Uint64("from", start),
		zap.Uint64("to", end),
		zap.Int("logs", len(logs)),
	)

	timestamps := make(map[uint64]int64)
	for _, log := range logs {
		if log.Removed || cursor.Covers(log.BlockNumber, log.Index) {
			continue
		}
		decoded, err := i.decoder.Decode(log)
		if err != nil {
			if errors.Is(err, contracts.ErrUnknownEvent) {
				i.logger.Debug("ignoring unknown log",
					zap.String("address", log.Address.Hex()),
					zap.Uint64("block", log.BlockNumber),
					zap.Uint("index", log.Index),
				)
				continue
			}
			return err
		}

		ts, ok := timestamps[log.BlockNumber]
		if !ok {
			ts, err = i.blockTimestamp(ctx, log.BlockNumber)
			if err != nil {
				return err
			}
			timestamps[log.BlockNumber] = ts
		}

		if err := i.apply(ctx, decoded, ts); err != nil {
			return err
		}
	}
	return nil
}

func (i *Indexer) blockTimestamp(ctx context.Context, number uint64) (int64, error) {
	header, err := retryWithResult(ctx, i.retry, "eth_getBlockByNumber", func(ctx context.Context) (*types.Header, error) {
		return i.source.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
	})
	if err != nil {
		return 0, xerrors.Errorf("failed to get header %d: %w", number, err)
	}
	return int64(header.Time), nil
}

func (i *Indexer) apply(ctx context.Context, decoded *contracts.Decoded, timestamp int64) error {
	meta := projection.Meta{
		Contract:       decoded.Contract,
		Event:          decoded.Name,
		BlockNumber:    decoded.Log.BlockNumber,
		BlockTimestamp: timestamp,
		TxHash:         decoded.Log.TxHash,
		LogIndex:       decoded.Log.Index,
	}
	cursor := store.Cursor{BlockNumber: meta.BlockNumber, LogIndex: meta.LogIndex}

	var recorder *recordingTx
	err := i.store.RunInTx(ctx, func(ctx context.Context, tx store.Tx) error {
		recorder = newRecordingTx(tx)
		if err := i.projector.Apply(ctx, recorder, meta, decoded.Event); err != nil {
			return err
		}
		return tx.SetCursor(ctx, CursorName, cursor)
	})
	if err != nil {
		return err
	}

	i.mu.Lock()
	i.status.EventsApplied++
	i.status.Cursor = cursor.String()
	i.mu.Unlock()

	if i.sink != nil {
		if err := i.sink.Mirror(ctx, recorder.entities()); err != nil {
			i.logger.Warn("failed to mirror entities", zap.String("event", meta.String()), zap.Error(err))
		}
	}
	return nil
}

func (i *Indexer) setHead(head uint64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.status.Head = head
	if head >= i.cfg.Confirmations {
		i.status.SafeHead = head - i.cfg.Confirmations
	}
}

func (i *Indexer) setCursor(cursor store.Cursor) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.status.Cursor = cursor.String()
}

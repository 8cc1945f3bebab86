package projection

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"questboard-indexer/models"
	"questboard-indexer/store"
)

// getOrCreate loads the entity under (kind, id) or persists the one built by
// create. created reports which branch ran, so side effects tied to creation
// happen exactly once per key.
func getOrCreate[T any, P interface {
	*T
	models.Entity
}](ctx context.Context, tx store.Tx, kind models.Kind, id models.ID, create func() P) (entity P, created bool, err error) {
	existing, err := store.Load[T](ctx, tx, kind, id)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return P(existing), false, nil
	}
	entity = create()
	if err := tx.Put(ctx, entity); err != nil {
		return nil, false, xerrors.Errorf("failed to create %s %s: %w", kind, id, err)
	}
	return entity, true, nil
}

// getOrCreateUser counts a user in PlatformStats only when the record is created.
func (p *Projector) getOrCreateUser(ctx context.Context, tx store.Tx, meta Meta, addr common.Address) (*models.User, error) {
	user, created, err := getOrCreate[models.User](ctx, tx, models.KindUser, models.IDFromAddress(addr),
		func() *models.User {
			return models.NewUser(addr, meta.BlockTimestamp)
		})
	if err != nil {
		return nil, err
	}
	if created {
		err := p.updateStats(ctx, tx, func(stats *models.PlatformStats) {
			stats.TotalUsers++
		})
		if err != nil {
			return nil, err
		}
	}
	return user, nil
}

func getOrCreatePlatformStats(ctx context.Context, tx store.Tx) (*models.PlatformStats, error) {
	stats, _, err := getOrCreate[models.PlatformStats](ctx, tx, models.KindPlatformStats, models.PlatformStatsID,
		models.NewPlatformStats)
	return stats, err
}

// updateStats reads the singleton, applies fn and writes it back in one step,
// so no handler ever holds a stale copy across other writes.
func (p *Projector) updateStats(ctx context.Context, tx store.Tx, fn func(stats *models.PlatformStats)) error {
	stats, err := getOrCreatePlatformStats(ctx, tx)
	if err != nil {
		return err
	}
	fn(stats)
	return tx.Put(ctx, stats)
}

func loadQuest(ctx context.Context, tx store.Tx, questID *big.Int) (*models.Quest, error) {
	return store.Load[models.Quest](ctx, tx, models.KindQuest, models.IDFromBigInt(questID))
}

func loadTeam(ctx context.Context, tx store.Tx, teamID *big.Int) (*models.Team, error) {
	return store.Load[models.Team](ctx, tx, models.KindTeam, models.IDFromBigInt(teamID))
}

// decrement lowers a membership counter, clamping at zero. An underflow means
// a leave/remove event arrived without its matching join/add.
func (p *Projector) decrement(counter *int64, meta Meta, kind models.Kind, id models.ID) {
	if *counter <= 0 {
		p.logger.Warn("counter underflow clamped at zero",
			zap.String("event", meta.Event),
			zap.String("kind", string(kind)),
			zap.String("id", string(id)),
			zap.Int64("value", *counter),
			zap.String("tx", meta.TxHash.Hex()),
		)
		*counter = 0
		return
	}
	*counter--
}

func copyBig(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

func copyStrings(v []string) []string {
	return append([]string{}, v...)
}

func copyAddresses(v []common.Address) []common.Address {
	return append([]common.Address{}, v...)
}

func timestamp(meta Meta) *int64 {
	ts := meta.BlockTimestamp
	return &ts
}

func txHash(meta Meta) *common.Hash {
	h := meta.TxHash
	return &h
}

package indexer

import (
	"context"

	"questboard-indexer/models"
	"questboard-indexer/store"
)

type entityKey struct {
	kind models.Kind
	id   models.ID
}

// recordingTx remembers the last written version of every entity, so the
// mirror can be fed exactly what a committed event changed.
type recordingTx struct {
	store.Tx
	order   []entityKey
	written map[entityKey]models.Entity
}

func newRecordingTx(tx store.Tx) *recordingTx {
	return &recordingTx{
		Tx:      tx,
		written: make(map[entityKey]models.Entity),
	}
}

func (r *recordingTx) Put(ctx context.Context, entity models.Entity) error {
	if err := r.Tx.Put(ctx, entity); err != nil {
		return err
	}
	key := entityKey{kind: entity.EntityKind(), id: entity.EntityID()}
	if _, ok := r.written[key]; !ok {
		r.order = append(r.order, key)
	}
	r.written[key] = entity
	return nil
}

func (r *recordingTx) entities() []models.Entity {
	out := make([]models.Entity, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.written[key])
	}
	return out
}

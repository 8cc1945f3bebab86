package readcache

import (
	"context"
	"math/big"
	"reflect"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"questboard-indexer/logging"
	"questboard-indexer/models"
)

// Mirror copies projected entities into Firestore, one document per entity
// under env/<env>/<kind>/<id>, for clients that read the cache directly.
type Mirror struct {
	client *firestore.Client
	env    string
	logger *zap.Logger
}

func New(ctx context.Context, logger *zap.Logger, projectID string, env string) (*Mirror, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, xerrors.Errorf("failed to create firestore client: %w", err)
	}
	return &Mirror{
		client: client,
		env:    env,
		logger: logging.WithPackage(logger),
	}, nil
}

// Mirror overwrites the documents of entities. It returns once every write
// has completed, with the first error encountered.
func (m *Mirror) Mirror(ctx context.Context, entities []models.Entity) error {
	if len(entities) == 0 {
		return nil
	}

	bulkWriter := m.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(entities))
	for _, entity := range entities {
		doc, err := Document(entity)
		if err != nil {
			bulkWriter.End()
			return err
		}
		job, err := bulkWriter.Set(m.docRef(entity), doc)
		if err != nil {
			bulkWriter.End()
			return xerrors.Errorf("failed to add %s %s to BulkWriter: %w", entity.EntityKind(), entity.EntityID(), err)
		}
		jobs = append(jobs, job)
	}
	bulkWriter.End()

	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			return xerrors.Errorf("failed to write %s %s: %w", entities[i].EntityKind(), entities[i].EntityID(), err)
		}
	}
	m.logger.Debug("mirrored entities", zap.Int("count", len(entities)))
	return nil
}

func (m *Mirror) Close() error {
	return m.client.Close()
}

func (m *Mirror) docRef(entity models.Entity) *firestore.DocumentRef {
	return m.client.
		Collection("env").Doc(m.env).
		Collection(string(entity.EntityKind())).Doc(string(entity.EntityID()))
}

var (
	bigIntType  = reflect.TypeOf((*big.Int)(nil))
	addressType = reflect.TypeOf(common.Address{})
	hashType    = reflect.TypeOf(common.Hash{})
)

// Document flattens an entity into Firestore field values keyed by the
// entity's JSON names. Big integers become decimal strings, since Firestore
// integers are limited to 64 bits, and addresses and hashes become hex.
func Document(entity models.Entity) (map[string]any, error) {
	v := reflect.ValueOf(entity)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, xerrors.Errorf("unsupported entity type %T", entity)
	}
	v = v.Elem()
	t := v.Type()

	doc := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" || !field.IsExported() {
			continue
		}
		value, err := fieldValue(v.Field(i))
		if err != nil {
			return nil, xerrors.Errorf("%s.%s: %w", t.Name(), field.Name, err)
		}
		doc[name] = value
	}
	return doc, nil
}

func fieldValue(v reflect.Value) (any, error) {
	switch v.Type() {
	case bigIntType:
		if v.IsNil() {
			return nil, nil
		}
		return v.Interface().(*big.Int).String(), nil
	case addressType:
		return hexutil.Encode(v.Interface().(common.Address).Bytes()), nil
	case hashType:
		return v.Interface().(common.Hash).Hex(), nil
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return nil, nil
		}
		return fieldValue(v.Elem())
	case reflect.Slice:
		out := make([]any, v.Len())
		for i := range out {
			value, err := fieldValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = value
		}
		return out, nil
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > 1<<63-1 {
			return new(big.Int).SetUint64(u).String(), nil
		}
		return int64(u), nil
	default:
		return nil, xerrors.Errorf("unsupported kind %s", v.Kind())
	}
}

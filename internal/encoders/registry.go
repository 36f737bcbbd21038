// Package encoders provides the persistent categorical encoder registry.
// Encodings issued for previously-seen values are stable forever: models are
// trained against integer codes, and any renumbering would invalidate every
// existing model.
package encoders

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"maintlab/internal/domain"
	"maintlab/internal/storage"
)

// MachineIDColumn is the encoder column for machine identity.
const MachineIDColumn = "machine_id"

// StatusColumns lists the categorical status columns, each with its own
// encoder.
var StatusColumns = []string{
	"hard_disk_status",
	"power_supply_status",
	"network_card_status",
	"motherboard_status",
}

// Registry is the durable append-only string-to-integer mapping store.
// New codes are persisted write-through before they are handed out, so a
// crash after assignment never loses a mapping.
type Registry struct {
	store  storage.EncoderStore
	logger *zap.Logger
	cache  map[string]*domain.Encoder
}

// NewRegistry creates a registry backed by an encoder store.
func NewRegistry(store storage.EncoderStore, logger *zap.Logger) *Registry {
	return &Registry{
		store:  store,
		logger: logger,
		cache:  make(map[string]*domain.Encoder),
	}
}

// LoadOrCreate returns the encoder for a column, loading it from the store
// on first use and creating an empty one if none was ever persisted.
func (r *Registry) LoadOrCreate(ctx context.Context, column string) (*domain.Encoder, error) {
	if enc, ok := r.cache[column]; ok {
		return enc, nil
	}

	enc, err := r.store.Load(ctx, column)
	switch {
	case err == nil:
		r.logger.Debug("loaded encoder",
			zap.String("column", column), zap.Int("codes", enc.Len()))
	case errors.Is(err, storage.ErrNotFound):
		enc = domain.NewEncoder(column)
		r.logger.Info("created new encoder", zap.String("column", column))
	default:
		return nil, fmt.Errorf("load encoder %q: %w", column, err)
	}

	r.cache[column] = enc
	return enc, nil
}

// Encode returns the stable code for a value. An unseen value gets the next
// free integer, and the extended mapping is persisted before the code is
// returned.
func (r *Registry) Encode(ctx context.Context, column, value string) (int, error) {
	enc, err := r.LoadOrCreate(ctx, column)
	if err != nil {
		return 0, err
	}

	if code, ok := enc.Code(value); ok {
		return code, nil
	}

	code := enc.Append(value)
	if err := r.store.Save(ctx, enc); err != nil {
		return 0, fmt.Errorf("persist encoder %q: %w", column, err)
	}
	r.logger.Debug("extended encoder",
		zap.String("column", column), zap.String("value", value), zap.Int("code", code))
	return code, nil
}

// EncodeBatch encodes a slice of values, extending and persisting the
// mapping for each unseen value as it is assigned.
func (r *Registry) EncodeBatch(ctx context.Context, column string, values []string) ([]int, error) {
	codes := make([]int, len(values))
	for i, v := range values {
		code, err := r.Encode(ctx, column, v)
		if err != nil {
			return nil, err
		}
		codes[i] = code
	}
	return codes, nil
}

// Decode returns the original string for a code.
func (r *Registry) Decode(ctx context.Context, column string, code int) (string, error) {
	enc, err := r.LoadOrCreate(ctx, column)
	if err != nil {
		return "", err
	}
	return enc.Decode(code)
}

// Apply fills the encoded machine-identity and status codes of a feature
// table in place, extending the registry for any new values.
func (r *Registry) Apply(ctx context.Context, vecs []*domain.FeatureVector) error {
	for _, v := range vecs {
		code, err := r.Encode(ctx, MachineIDColumn, v.MachineID)
		if err != nil {
			return err
		}
		v.MachineIDCode = code

		if v.HardDiskStatusCode, err = r.Encode(ctx, "hard_disk_status", v.HardDiskStatus); err != nil {
			return err
		}
		if v.PowerSupplyStatusCode, err = r.Encode(ctx, "power_supply_status", v.PowerSupplyStatus); err != nil {
			return err
		}
		if v.NetworkCardStatusCode, err = r.Encode(ctx, "network_card_status", v.NetworkCardStatus); err != nil {
			return err
		}
		if v.MotherboardStatusCode, err = r.Encode(ctx, "motherboard_status", v.MotherboardStatus); err != nil {
			return err
		}
	}
	return nil
}

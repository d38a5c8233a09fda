package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// LoadSnapshot reads and decodes the snapshot under key. The boolean reports
// whether a snapshot was present. A payload that fails to decode returns an
// error wrapping ErrCorruptSnapshot.
func LoadSnapshot[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var value T
	raw, ok, err := s.Read(ctx, key)
	if err != nil {
		return value, false, fmt.Errorf("read %q: %w", key, err)
	}
	if !ok {
		return value, false, nil
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, true, fmt.Errorf("%w: %q: %v", ErrCorruptSnapshot, key, err)
	}
	return value, true, nil
}

// SaveSnapshot encodes value and writes it as the full snapshot under key.
func SaveSnapshot[T any](ctx context.Context, s Store, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := s.Write(ctx, key, raw); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

package storage

import "context"

// BatchSetter is implemented by backends that can write several keys
// atomically.
type BatchSetter interface {
	SetMany(ctx context.Context, entries map[string]string) error
}

// SetMany writes entries through store.SetMany when the backend supports it,
// and key by key otherwise.
func SetMany(ctx context.Context, store KeyValueStore, entries map[string]string) error {
	if b, ok := store.(BatchSetter); ok {
		return b.SetMany(ctx, entries)
	}
	for key, value := range entries {
		if err := store.Set(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

package ports

import "context"

// SessionStorage is the durable key-value record behind the session store.
// Load returns domain.ErrRecordNotFound when the key is absent; Delete of an
// absent key succeeds.
type SessionStorage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

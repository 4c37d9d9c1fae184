package ports

import "context"

// FileStorage keeps the raw bytes of uploaded files.
type FileStorage interface {
	Store(ctx context.Context, filename string, content []byte) (string, error)
	Read(ctx context.Context, ref string) ([]byte, error)
	Delete(ctx context.Context, ref string) error
	Exists(ctx context.Context, ref string) (bool, error)
}

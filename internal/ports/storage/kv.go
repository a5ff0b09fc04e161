package storage

import (
	"context"
	"errors"
)

var (
	ErrClosed   = errors.New("storage: closed")
	ErrEmptyKey = errors.New("storage: empty key")
)

// KV es el almacenamiento persistente del cliente (equivalente al storage
// del navegador). Valores opacos en string.
type KV interface {
	// Get devuelve ok=false si la key no existe.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
	Close() error
}

package querycache

import (
	"context"
	"fmt"
	"time"
)

// Query describe una lectura. Enabled=false (ej. falta el id) no hace request.
type Query[T any] struct {
	Key     Key
	Fetch   func(ctx context.Context) (T, error)
	Enabled bool
}

// State es lo que ve la vista: dato, error y estado de carga.
type State[T any] struct {
	Data       T
	Err        error
	Status     Status
	IsLoading  bool // en vuelo y sin dato previo
	IsFetching bool
	IsStale    bool
	UpdatedAt  time.Time
}

func (s State[T]) Ok() bool { return s.Status == StatusSuccess }

// Use resuelve la query contra el cache y devuelve su estado. Bloquea hasta
// que el fetch termina o ctx se cancela; en el segundo caso el fetch sigue y
// IsLoading queda en true si todavía no hay dato. Nunca entra en pánico por
// errores del fetch: quedan en State.Err.
func Use[T any](ctx context.Context, c *Cache, q Query[T]) State[T] {
	if !q.Enabled {
		return State[T]{Status: StatusIdle}
	}

	var fetch func(context.Context) (any, error)
	if q.Fetch != nil {
		fetch = func(ctx context.Context) (any, error) { return q.Fetch(ctx) }
	}

	v, err := c.load(ctx, q.Key, fetch)

	var st State[T]
	if err == nil {
		if data, ok := v.(T); ok || v == nil {
			st.Data = data
			st.Status = StatusSuccess
		} else {
			err = fmt.Errorf("%w: %s holds %T", ErrTypeMismatch, q.Key, v)
		}
	}
	if err != nil {
		st.Err = err
		st.Status = StatusError
		// Si había dato anterior se sigue mostrando junto al error.
		if prev, ok := Peek[T](c, q.Key); ok {
			st.Data = prev
		}
	}

	if info, ok := c.Inspect(q.Key); ok {
		st.UpdatedAt = info.UpdatedAt
		st.IsFetching = info.Fetching
		st.IsLoading = info.Fetching && !info.HasData
		st.IsStale = info.Invalidated
	}
	return st
}

// Snapshot devuelve el estado actual sin disparar fetch.
func Snapshot[T any](c *Cache, key Key) State[T] {
	info, ok := c.Inspect(key)
	if !ok {
		return State[T]{Status: StatusIdle}
	}
	st := State[T]{
		Status:     info.Status,
		IsFetching: info.Fetching,
		IsLoading:  info.Fetching && !info.HasData,
		IsStale:    info.Invalidated,
		UpdatedAt:  info.UpdatedAt,
	}
	if data, ok := Peek[T](c, key); ok {
		st.Data = data
	}
	if info.Error != "" && info.Status == StatusError {
		st.Err = fmt.Errorf("querycache: %s", info.Error)
	}
	return st
}

// Prefetch dispara la carga en segundo plano (para vistas que van a pedir
// la key enseguida).
func Prefetch[T any](ctx context.Context, c *Cache, q Query[T]) {
	if !q.Enabled || q.Fetch == nil {
		return
	}
	go func() {
		_ = Use(context.WithoutCancel(ctx), c, q)
	}()
}

// Peek lee el dato cacheado (fresco o no) sin hacer request.
func Peek[T any](c *Cache, key Key) (T, bool) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok || !e.hasData {
		return zero, false
	}
	v, ok := e.value.(T)
	if !ok {
		return zero, e.value == nil
	}
	return v, true
}

// Package mutation ejecuta escrituras contra los backends y reconcilia el
// cache: en éxito invalida las keys dependientes y avisa; en error normaliza
// el mensaje, avisa y no toca el cache.
package mutation

import (
	"context"
	"errors"
	"sync/atomic"

	"petcast-web/internal/notify"
	"petcast-web/internal/platform/apierror"
	"petcast-web/internal/platform/httpclient"
	"petcast-web/internal/platform/logger"
	"petcast-web/internal/platform/metrics"
	"petcast-web/internal/querycache"
	"petcast-web/internal/querykeys"
)

// Runner agrupa lo que comparten todas las mutaciones.
type Runner struct {
	cache *querycache.Cache
	notes *notify.Center
	log   logger.Logger
}

func NewRunner(cache *querycache.Cache, notes *notify.Center, log logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	if notes == nil {
		notes = notify.NewCenter(0)
	}
	return &Runner{
		cache: cache,
		notes: notes,
		log:   log.With(map[string]any{"component": "mutation"}),
	}
}

// Spec declara una mutación.
type Spec[In, Out any] struct {
	Name string
	Do   func(ctx context.Context, in In) (Out, error)

	// Changes dice qué recursos cambiaron; de ahí salen las keys a invalidar.
	Changes func(in In, out Out) []querykeys.Change

	Success string // aviso fijo en éxito
	Failure string // mensaje si el servidor no da uno usable
}

type Mutation[In, Out any] struct {
	r       *Runner
	spec    Spec[In, Out]
	pending atomic.Int32
}

func New[In, Out any](r *Runner, spec Spec[In, Out]) *Mutation[In, Out] {
	return &Mutation[In, Out]{r: r, spec: spec}
}

// IsPending es true mientras haya al menos un Mutate en curso.
func (m *Mutation[In, Out]) IsPending() bool { return m.pending.Load() > 0 }

func (m *Mutation[In, Out]) Mutate(ctx context.Context, in In) (Out, error) {
	m.pending.Add(1)
	defer m.pending.Add(-1)

	var zero Out
	if m.spec.Do == nil {
		return zero, apierror.Normalize(errors.New("mutation: nil Do"), m.spec.Failure)
	}

	out, err := m.spec.Do(ctx, in)
	if err != nil {
		aerr := apierror.Normalize(err, m.spec.Failure)
		metrics.Mutation(m.spec.Name, "error")
		m.r.log.Warn("mutation failed", map[string]any{
			"mutation": m.spec.Name,
			"status":   aerr.Status,
			"error":    err.Error(),
		})
		// La sesión vencida se resuelve redirigiendo a /login, sin toast.
		if !errors.Is(err, httpclient.ErrUnauthorized) {
			m.r.notes.Error(aerr.Message)
		}
		return zero, aerr
	}

	var invalidated []string
	if m.spec.Changes != nil && m.r.cache != nil {
		invalidated = m.r.cache.Invalidate(querykeys.Affected(m.spec.Changes(in, out)...)...)
	}
	if m.spec.Success != "" {
		m.r.notes.Success(m.spec.Success)
	}
	metrics.Mutation(m.spec.Name, "success")
	m.r.log.Info("mutation applied", map[string]any{
		"mutation":    m.spec.Name,
		"invalidated": invalidated,
	})
	return out, nil
}

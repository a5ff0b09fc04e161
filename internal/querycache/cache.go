// Package querycache es el store de estado del servidor compartido por todas
// las vistas: una entrada por key, ventana de frescura, reintentos acotados,
// coalescencia de requests idénticos, invalidación por key o prefijo y GC de
// entradas sin uso.
package querycache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"petcast-web/internal/platform/httpclient"
	"petcast-web/internal/platform/logger"
	"petcast-web/internal/platform/metrics"

	"github.com/google/btree"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultStaleTime  = 5 * time.Minute
	DefaultGCTime     = 10 * time.Minute
	DefaultRetryDelay = time.Second

	subscriberBuffer = 64
)

var (
	ErrNilFetch     = errors.New("querycache: nil fetch func")
	ErrTypeMismatch = errors.New("querycache: cached value has unexpected type")
	ErrFetchPanic   = errors.New("querycache: fetch panicked")
)

var tracer = otel.Tracer("petcast-web/querycache")

type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Options es la política común a todas las queries.
type Options struct {
	StaleTime time.Duration // 0 = siempre stale (solo coalesce en vuelo)
	GCTime    time.Duration

	Retry       int // reintentos extra tras el primer intento
	RetryDelay  time.Duration
	ShouldRetry func(error) bool // default: httpclient.IsRetryable

	Now    func() time.Time
	Logger logger.Logger
}

type entry struct {
	key string

	value     any
	hasData   bool
	updatedAt time.Time

	err     error
	errorAt time.Time

	invalidated bool
	generation  uint64 // sube con cada invalidación
	fetching    int
	lastAccess  time.Time
}

type Cache struct {
	opts Options
	log  logger.Logger

	mu      sync.Mutex
	entries map[string]*entry
	index   *btree.BTreeG[string] // keys ordenadas para invalidar por prefijo
	subs    map[uint64]*subscription
	nextSub uint64
	lastGC  time.Time
	epoch   uint64 // sube con Clear: un fetch de la sesión anterior no se comparte

	group singleflight.Group
}

func New(opts Options) *Cache {
	if opts.StaleTime < 0 {
		opts.StaleTime = 0
	}
	if opts.GCTime <= 0 {
		opts.GCTime = DefaultGCTime
	}
	if opts.Retry < 0 {
		opts.Retry = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.ShouldRetry == nil {
		opts.ShouldRetry = httpclient.IsRetryable
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	return &Cache{
		opts:    opts,
		log:     opts.Logger.With(map[string]any{"component": "querycache"}),
		entries: make(map[string]*entry),
		index:   btree.NewOrderedG[string](32),
		subs:    make(map[uint64]*subscription),
	}
}

// load devuelve el valor fresco cacheado o hace (o se une a) un fetch.
// Si ctx se cancela el caller recibe ctx.Err(); el fetch sigue y su
// resultado queda en cache.
func (c *Cache) load(ctx context.Context, key Key, fetch func(context.Context) (any, error)) (any, error) {
	if fetch == nil {
		return nil, ErrNilFetch
	}
	k := key.String()
	now := c.opts.Now()

	c.mu.Lock()
	e := c.entryLocked(k)
	e.lastAccess = now
	if c.freshLocked(e, now) {
		v := e.value
		c.mu.Unlock()
		metrics.CacheLookup("hit")
		return v, nil
	}
	gen, epoch := e.generation, c.epoch
	c.mu.Unlock()
	metrics.CacheLookup("miss")

	c.maybeGC(now)

	// Época y generación van en la key del flight: tras Clear o invalidar, un
	// lector nuevo no se cuelga de un fetch que ya nació viejo.
	flight := strconv.FormatUint(epoch, 10) + ":" + k + "#" + strconv.FormatUint(gen, 10)
	ch := c.group.DoChan(flight, func() (any, error) {
		return c.run(context.WithoutCancel(ctx), e, gen, fetch)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) run(ctx context.Context, e *entry, gen uint64, fetch func(context.Context) (any, error)) (v any, err error) {
	ctx, span := tracer.Start(ctx, "querycache.fetch", trace.WithAttributes(
		attribute.String("petcast.query_key", e.key),
	))
	defer span.End()

	c.mu.Lock()
	e.fetching++
	c.mu.Unlock()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("%w: %v", ErrFetchPanic, r)
		}
		c.store(e, gen, v, err)

		outcome := "success"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, "fetch failed")
			c.log.Warn("query fetch failed", map[string]any{"key": e.key, "error": err.Error()})
		} else {
			c.log.Debug("query fetched", map[string]any{"key": e.key, "duration_ms": time.Since(start).Milliseconds()})
		}
		metrics.CacheFetch(outcome, time.Since(start))
	}()

	return c.retry(ctx, e.key, fetch)
}

func (c *Cache) store(e *entry, gen uint64, v any, err error) {
	now := c.opts.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	e.fetching--
	if c.entries[e.key] != e {
		// Clear/GC la sacó mientras volaba: se descarta.
		return
	}
	if gen != e.generation {
		// Invalidada en vuelo: el dato sirve de placeholder pero sigue stale.
		if err == nil && !e.hasData {
			e.value, e.hasData, e.updatedAt = v, true, now
		}
		return
	}
	if err != nil {
		e.err, e.errorAt = err, now
		c.publishLocked(EventFailed, e.key, now)
		return
	}
	e.value, e.hasData, e.updatedAt = v, true, now
	e.err = nil
	e.invalidated = false
	c.publishLocked(EventUpdated, e.key, now)
}

func (c *Cache) entryLocked(k string) *entry {
	e, ok := c.entries[k]
	if !ok {
		e = &entry{key: k}
		c.entries[k] = e
		c.index.ReplaceOrInsert(k)
	}
	return e
}

func (c *Cache) freshLocked(e *entry, now time.Time) bool {
	if !e.hasData || e.invalidated {
		return false
	}
	return now.Sub(e.updatedAt) < c.opts.StaleTime
}

// Invalidate marca stale las entradas que matchean; no borra datos.
// Devuelve las keys afectadas.
func (c *Cache) Invalidate(targets ...Target) []string {
	now := c.opts.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)
	mark := func(k string) {
		if _, dup := seen[k]; dup {
			return
		}
		e, ok := c.entries[k]
		if !ok {
			return
		}
		seen[k] = struct{}{}
		e.invalidated = true
		e.generation++
		out = append(out, k)
		c.publishLocked(EventInvalidated, k, now)
	}

	for _, t := range targets {
		k := t.Key.String()
		if !t.Prefix {
			mark(k)
			continue
		}
		// Todo lo que empieza con k es contiguo en el índice; dentro de ese
		// rango solo cuentan los límites de segmento.
		c.index.AscendGreaterOrEqual(k, func(item string) bool {
			if len(item) < len(k) || item[:len(k)] != k {
				return false
			}
			if matchesPrefix(item, k) {
				mark(item)
			}
			return true
		})
	}

	if len(out) > 0 {
		metrics.CacheInvalidated(len(out))
		c.log.Debug("queries invalidated", map[string]any{"keys": out})
	}
	return out
}

// Clear borra todo (logout). Fetches en vuelo se descartan al volver.
func (c *Cache) Clear() {
	now := c.opts.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry)
	c.index.Clear(false)
	c.epoch++
	c.publishLocked(EventCleared, "", now)
}

// GC desaloja entradas sin acceso en GCTime que nadie observa ni están en vuelo.
func (c *Cache) GC() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gcLocked(c.opts.Now())
}

func (c *Cache) maybeGC(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now.Sub(c.lastGC) < c.opts.GCTime/2 {
		return
	}
	c.gcLocked(now)
}

func (c *Cache) gcLocked(now time.Time) int {
	c.lastGC = now

	evict := make([]string, 0)
	for k, e := range c.entries {
		if e.fetching > 0 || now.Sub(e.lastAccess) < c.opts.GCTime || c.observedLocked(k) {
			continue
		}
		evict = append(evict, k)
	}
	for _, k := range evict {
		delete(c.entries, k)
		c.index.Delete(k)
		c.publishLocked(EventRemoved, k, now)
	}
	if len(evict) > 0 {
		metrics.CacheEvicted(len(evict))
	}
	return len(evict)
}

// Info es una foto de una entrada, para vistas de diagnóstico y tests.
type Info struct {
	Key         string    `json:"key"`
	Status      Status    `json:"status"`
	HasData     bool      `json:"hasData"`
	Invalidated bool      `json:"invalidated"`
	Fetching    bool      `json:"fetching"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Error       string    `json:"error,omitempty"`
}

func (c *Cache) Inspect(key Key) (Info, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		return Info{}, false
	}
	return infoOf(e), true
}

// Entries lista las entradas bajo prefix, ordenadas por key.
func (c *Cache) Entries(prefix Key) []Info {
	p := prefix.String()

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Info, 0)
	c.index.AscendGreaterOrEqual(p, func(item string) bool {
		if len(item) < len(p) || item[:len(p)] != p {
			return false
		}
		if matchesPrefix(item, p) {
			out = append(out, infoOf(c.entries[item]))
		}
		return true
	})
	return out
}

func infoOf(e *entry) Info {
	in := Info{
		Key:         e.key,
		Status:      statusOf(e),
		HasData:     e.hasData,
		Invalidated: e.invalidated,
		Fetching:    e.fetching > 0,
		UpdatedAt:   e.updatedAt,
	}
	if e.err != nil {
		in.Error = e.err.Error()
	}
	return in
}

func statusOf(e *entry) Status {
	switch {
	case e.err != nil && !e.errorAt.Before(e.updatedAt):
		return StatusError
	case e.hasData:
		return StatusSuccess
	default:
		return StatusPending
	}
}

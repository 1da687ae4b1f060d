// Package query implementa el caché de lecturas y el motor de mutaciones optimistas.
//
// Cada entrada del caché es un valor inmutable (Entry) que se reemplaza completo en cada cambio.
// Las lecturas comparten un único fetch en vuelo por Key; una mutación abre un bracket por recurso
// (cancelar, snapshot, aplicar, esperar, reconciliar o revertir, invalidar) y los brackets sobre el
// mismo recurso se serializan.
package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/estoque/pkg/logger"
)

// ErrClosed se devuelve al leer de un caché cerrado.
var ErrClosed = errors.New("query: caché cerrado")

// FetchStatus estado de carga de una entrada.
type FetchStatus int

const (
	FetchIdle FetchStatus = iota
	FetchFetching
)

// EntryState estado de una entrada respecto a las mutaciones.
type EntryState int

const (
	StateSettled EntryState = iota
	StateOptimisticallyApplied
	StateReconciled
	StateRolledBack
	StateInvalidated
)

func (s EntryState) String() string {
	switch s {
	case StateSettled:
		return "settled"
	case StateOptimisticallyApplied:
		return "optimistic"
	case StateReconciled:
		return "reconciled"
	case StateRolledBack:
		return "rolled_back"
	case StateInvalidated:
		return "invalidated"
	}
	return fmt.Sprintf("EntryState(%d)", int(s))
}

// Entry valor de una entrada. Data no debe modificarse en sitio: quien cambia el dato construye
// un valor nuevo.
type Entry struct {
	Data       any
	HasData    bool
	Status     FetchStatus
	UpdatedAt  time.Time
	Stale      bool
	Generation uint64
	State      EntryState
	Err        error
}

// FetchOptions opciones de lectura.
type FetchOptions struct {
	StaleTime time.Duration
}

// Options configuración del caché.
type Options struct {
	Logger *logger.Logger
	Now    func() time.Time
}

type fetchFunc func(ctx context.Context) (any, error)

type slot struct {
	entry   Entry
	subs    map[uint64]func(Key, Entry)
	fetcher fetchFunc
	cancel  context.CancelFunc
	seq     uint64 // fetch vigente; un fetch antiguo no toca Status
}

// Cache caché de consultas. Se crea con New y se comparte por referencia.
type Cache struct {
	mu       sync.Mutex
	entries  map[Key]*slot
	open     map[string]int
	brackets map[string]*semaphore.Weighted
	nextSub  uint64

	group singleflight.Group
	log   *logger.Logger
	now   func() time.Time

	bg     context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// New crea un caché vacío.
func New(opts Options) *Cache {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	bg, stop := context.WithCancel(context.Background())
	return &Cache{
		entries:  make(map[Key]*slot),
		open:     make(map[string]int),
		brackets: make(map[string]*semaphore.Weighted),
		log:      logger.OrNop(opts.Logger).Named("query"),
		now:      now,
		bg:       bg,
		stop:     stop,
	}
}

// Close cancela los fetch en segundo plano y espera a que terminen.
func (c *Cache) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.stop()
	c.wg.Wait()
}

// notifier acumula notificaciones bajo el lock para emitirlas después de soltarlo.
type notifier []func()

func (n notifier) fire() {
	for _, f := range n {
		f()
	}
}

func (c *Cache) slotLocked(k Key) *slot {
	s, ok := c.entries[k]
	if !ok {
		s = &slot{subs: make(map[uint64]func(Key, Entry))}
		c.entries[k] = s
	}
	return s
}

// replaceLocked reemplaza la entrada y encola la notificación a los suscriptores.
func (c *Cache) replaceLocked(k Key, s *slot, e Entry, n *notifier) {
	s.entry = e
	for _, fn := range s.subs {
		fn := fn
		*n = append(*n, func() { fn(k, e) })
	}
}

func (c *Cache) keysLocked(resources []string) []Key {
	want := make(map[string]struct{}, len(resources))
	for _, r := range resources {
		want[r] = struct{}{}
	}
	keys := make([]Key, 0)
	for k := range c.entries {
		if _, ok := want[k.Resource]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// Get devuelve la entrada actual de k.
func (c *Cache) Get(k Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[k]
	if !ok {
		return Entry{}, false
	}
	return s.entry, true
}

// Entries copia de todas las entradas de los recursos indicados.
func (c *Cache) Entries(resources ...string) map[Key]Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[Key]Entry)
	for _, k := range c.keysLocked(resources) {
		out[k] = c.entries[k].entry
	}
	return out
}

// Set escribe un dato como resultado fresco (siembra o ajuste manual).
func (c *Cache) Set(k Key, data any) {
	var n notifier
	c.mu.Lock()
	s := c.slotLocked(k)
	e := s.entry
	e.Data, e.HasData = data, true
	e.UpdatedAt = c.now()
	e.Stale = false
	e.State = StateSettled
	e.Err = nil
	c.replaceLocked(k, s, e, &n)
	c.mu.Unlock()
	n.fire()
}

// Subscribe registra fn para cada reemplazo de la entrada k. Devuelve la función para darse de baja.
func (c *Cache) Subscribe(k Key, fn func(Key, Entry)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slotLocked(k)
	c.nextSub++
	id := c.nextSub
	s.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if s, ok := c.entries[k]; ok {
			delete(s.subs, id)
		}
	}
}

// Fetch devuelve el dato de key. Con una entrada fresca no llama a fetcher; si no, comparte el
// fetch en vuelo o inicia uno. Mientras una mutación tiene abierto el bracket del recurso, se
// devuelve la vista optimista si existe.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fetcher func(context.Context) (T, error), opts FetchOptions) (T, error) {
	var zero T
	raw := func(ctx context.Context) (any, error) { return fetcher(ctx) }
	v, err := c.fetch(ctx, key, raw, opts)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("query: %s contiene %T", key, v)
	}
	return t, nil
}

func (c *Cache) fetch(ctx context.Context, key Key, fetcher fetchFunc, opts FetchOptions) (any, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	s := c.slotLocked(key)
	s.fetcher = fetcher
	e := s.entry
	if e.HasData && (c.open[key.Resource] > 0 || (!e.Stale && c.now().Sub(e.UpdatedAt) < opts.StaleTime)) {
		c.mu.Unlock()
		return e.Data, nil
	}
	c.mu.Unlock()
	return c.load(ctx, key)
}

// load ejecuta (o comparte) el fetch de key. El resultado sólo se guarda si la generación no
// cambió y no hay bracket abierto; en cualquier caso se devuelve al llamador.
func (c *Cache) load(ctx context.Context, key Key) (any, error) {
	ch := c.group.DoChan(key.String(), func() (any, error) {
		var n notifier
		c.mu.Lock()
		s := c.slotLocked(key)
		fetcher := s.fetcher
		gen := s.entry.Generation
		s.seq++
		seq := s.seq
		fctx, cancel := context.WithCancel(c.bg)
		s.cancel = cancel
		e := s.entry
		e.Status = FetchFetching
		c.replaceLocked(key, s, e, &n)
		c.mu.Unlock()
		n.fire()
		n = nil
		defer cancel()

		if fetcher == nil {
			return nil, fmt.Errorf("query: %s sin fetcher", key)
		}
		v, err := fetcher(fctx)

		c.mu.Lock()
		s = c.slotLocked(key)
		e = s.entry
		if s.seq == seq {
			e.Status = FetchIdle
			s.cancel = nil
		}
		switch {
		case e.Generation != gen || c.open[key.Resource] > 0:
			c.log.Debug().Str("key", key.String()).Msg("respuesta obsoleta descartada")
		case err != nil:
			e.Err = err
		default:
			e.Data, e.HasData = v, true
			e.UpdatedAt = c.now()
			e.Stale = false
			e.State = StateSettled
			e.Err = nil
		}
		c.replaceLocked(key, s, e, &n)
		c.mu.Unlock()
		n.fire()
		return v, err
	})

	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel marca como obsoletos los fetch en vuelo de los recursos: su resultado se descartará.
func (c *Cache) Cancel(resources ...string) {
	var n notifier
	c.mu.Lock()
	c.cancelLocked(resources, &n)
	c.mu.Unlock()
	n.fire()
}

func (c *Cache) cancelLocked(resources []string, n *notifier) {
	for _, k := range c.keysLocked(resources) {
		s := c.entries[k]
		e := s.entry
		e.Generation++
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
			e.Status = FetchIdle
		}
		c.group.Forget(k.String())
		c.replaceLocked(k, s, e, n)
	}
}

// Invalidate marca las entradas de los recursos como obsoletas y refresca en segundo plano las
// que tienen suscriptores.
func (c *Cache) Invalidate(resources ...string) {
	var n notifier
	refetch := make([]Key, 0)
	c.mu.Lock()
	for _, k := range c.keysLocked(resources) {
		s := c.entries[k]
		e := s.entry
		e.Stale = true
		e.Generation++
		if e.HasData {
			e.State = StateInvalidated
		}
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
			e.Status = FetchIdle
		}
		c.group.Forget(k.String())
		c.replaceLocked(k, s, e, &n)
		if len(s.subs) > 0 && s.fetcher != nil && !c.closed {
			refetch = append(refetch, k)
		}
	}
	c.mu.Unlock()
	n.fire()

	for _, k := range refetch {
		c.wg.Add(1)
		go func(k Key) {
			defer c.wg.Done()
			if _, err := c.load(c.bg, k); err != nil && !errors.Is(err, context.Canceled) {
				c.log.Warn().Err(err).Str("key", k.String()).Msg("refetch en segundo plano falló")
			}
		}(k)
	}
}

// bracket devuelve el semáforo del recurso.
func (c *Cache) bracket(resource string) *semaphore.Weighted {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.brackets[resource]
	if !ok {
		b = semaphore.NewWeighted(1)
		c.brackets[resource] = b
	}
	return b
}

package query

import (
	"context"
	"sort"
)

// Outcome resultado terminal de una mutación.
type Outcome int

const (
	OutcomeReconciled Outcome = iota + 1
	OutcomeRolledBack
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReconciled:
		return "reconciled"
	case OutcomeRolledBack:
		return "rolled_back"
	}
	return "pending"
}

// Result estado terminal de una mutación. Con OutcomeRolledBack, Err contiene el error original.
type Result[Out any] struct {
	Value   Out
	Outcome Outcome
	Err     error
}

// Pending mutación en curso.
type Pending[Out any] struct {
	TempID string
	done   chan struct{}
	res    Result[Out]
}

func (p *Pending[Out]) resolve(r Result[Out]) {
	p.res = r
	close(p.done)
}

// Done se cierra cuando la mutación alcanza su estado terminal.
func (p *Pending[Out]) Done() <-chan struct{} { return p.done }

// Result devuelve el resultado; sólo es válido después de Done.
func (p *Pending[Out]) Result() Result[Out] {
	<-p.done
	return p.res
}

// Wait espera el estado terminal o la cancelación de ctx. El error devuelto es sólo el de ctx; el
// error de la operación viaja en Result.Err.
func (p *Pending[Out]) Wait(ctx context.Context) (Result[Out], error) {
	select {
	case <-p.done:
		return p.res, nil
	case <-ctx.Done():
		return Result[Out]{}, ctx.Err()
	}
}

// Tx acceso a las entradas durante Apply y Reconcile. Sólo es válido dentro de esas funciones.
type Tx struct {
	c      *Cache
	tempID string
	state  EntryState
	n      *notifier
}

// TempID id provisional de esta mutación.
func (tx *Tx) TempID() string { return tx.tempID }

// Update recorre las entradas con dato del recurso. fn devuelve el dato nuevo y true si cambia;
// nunca debe modificar data en sitio.
func (tx *Tx) Update(resource string, fn func(k Key, data any) (any, bool)) {
	for _, k := range tx.c.keysLocked([]string{resource}) {
		s := tx.c.entries[k]
		if !s.entry.HasData {
			continue
		}
		next, changed := fn(k, s.entry.Data)
		if !changed {
			continue
		}
		e := s.entry
		e.Data = next
		e.State = tx.state
		tx.c.replaceLocked(k, s, e, tx.n)
	}
}

// Mutation describe una escritura optimista.
//   - Resources: recursos cuyas entradas se toman en snapshot e invalidan al terminar.
//   - Apply: cambio optimista, síncrono, antes de llamar a Run.
//   - Run: la operación real.
//   - Reconcile: con éxito, reemplaza lo provisional por el valor autoritativo.
type Mutation[In, Out any] struct {
	Resources []string
	Apply     func(tx *Tx, in In)
	Run       func(ctx context.Context, in In) (Out, error)
	Reconcile func(tx *Tx, in In, out Out)
}

// Start inicia la mutación. Al volver, el cambio optimista ya es visible para los lectores.
// Si otra mutación tiene abierto un bracket sobre alguno de los recursos, Start espera a que cierre.
func Start[In, Out any](ctx context.Context, c *Cache, m Mutation[In, Out], in In) *Pending[Out] {
	p := &Pending[Out]{TempID: TempID(), done: make(chan struct{})}
	resources := normalize(m.Resources)

	release, err := c.acquire(ctx, resources)
	if err != nil {
		p.resolve(Result[Out]{Outcome: OutcomeRolledBack, Err: err})
		return p
	}

	var n notifier
	c.mu.Lock()
	for _, r := range resources {
		c.open[r]++
	}
	c.cancelLocked(resources, &n)
	snapshot := make(map[Key]Entry)
	for _, k := range c.keysLocked(resources) {
		snapshot[k] = c.entries[k].entry
	}
	if m.Apply != nil {
		m.Apply(&Tx{c: c, tempID: p.TempID, state: StateOptimisticallyApplied, n: &n}, in)
	}
	c.mu.Unlock()
	n.fire()
	c.log.Debug().Strs("resources", resources).Str("temp_id", p.TempID).Msg("mutación iniciada")

	go func() {
		out, runErr := m.Run(ctx, in)

		var n notifier
		c.mu.Lock()
		if runErr != nil {
			c.restoreLocked(snapshot, &n)
		} else if m.Reconcile != nil {
			m.Reconcile(&Tx{c: c, tempID: p.TempID, state: StateReconciled, n: &n}, in, out)
		}
		for _, r := range resources {
			c.open[r]--
		}
		c.mu.Unlock()
		n.fire()

		c.Invalidate(resources...)
		release()

		if runErr != nil {
			c.log.Warn().Err(runErr).Strs("resources", resources).Msg("mutación revertida")
			p.resolve(Result[Out]{Outcome: OutcomeRolledBack, Err: runErr})
			return
		}
		c.log.Debug().Strs("resources", resources).Str("temp_id", p.TempID).Msg("mutación reconciliada")
		p.resolve(Result[Out]{Value: out, Outcome: OutcomeReconciled})
	}()
	return p
}

// restoreLocked devuelve cada entrada del snapshot a su dato previo en una sola sección crítica.
func (c *Cache) restoreLocked(snapshot map[Key]Entry, n *notifier) {
	for k, prev := range snapshot {
		s := c.slotLocked(k)
		e := s.entry
		e.Data, e.HasData = prev.Data, prev.HasData
		e.UpdatedAt = prev.UpdatedAt
		e.Stale = prev.Stale
		e.Err = prev.Err
		e.State = StateRolledBack
		c.replaceLocked(k, s, e, n)
	}
}

// acquire toma los brackets en orden para evitar interbloqueos entre mutaciones.
func (c *Cache) acquire(ctx context.Context, resources []string) (func(), error) {
	taken := make([]string, 0, len(resources))
	release := func() {
		for i := len(taken) - 1; i >= 0; i-- {
			c.bracket(taken[i]).Release(1)
		}
	}
	for _, r := range resources {
		if err := c.bracket(r).Acquire(ctx, 1); err != nil {
			release()
			return nil, err
		}
		taken = append(taken, r)
	}
	return release, nil
}

func normalize(resources []string) []string {
	seen := make(map[string]struct{}, len(resources))
	out := make([]string, 0, len(resources))
	for _, r := range resources {
		if _, ok := seen[r]; ok || r == "" {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

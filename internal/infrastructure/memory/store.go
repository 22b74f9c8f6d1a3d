// Package memory implementa los repositorios y el TxRunner en memoria.
// Las transacciones se serializan con un mutex y se revierten restaurando una copia del estado.
// Sirve para pruebas y para levantar la API sin base de datos (DB_DRIVER=memory).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// table filas por id conservando el orden de inserción.
type table[T any] struct {
	rows  map[string]T
	order []string
}

func newTable[T any]() table[T] {
	return table[T]{rows: make(map[string]T)}
}

func (t *table[T]) put(id string, v T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) each(fn func(v T)) {
	for _, id := range t.order {
		fn(t.rows[id])
	}
}

func (t table[T]) clone() table[T] {
	c := table[T]{rows: make(map[string]T, len(t.rows)), order: append([]string(nil), t.order...)}
	for k, v := range t.rows {
		c.rows[k] = v
	}
	return c
}

type state struct {
	products  table[entity.Product]
	movements table[entity.Movement]
	equipment table[entity.EquipmentReport]
	orders    table[entity.PurchaseOrder]
	lines     table[entity.PurchaseOrderLine]
	sequences map[string]int64
}

func newState() *state {
	return &state{
		products:  newTable[entity.Product](),
		movements: newTable[entity.Movement](),
		equipment: newTable[entity.EquipmentReport](),
		orders:    newTable[entity.PurchaseOrder](),
		lines:     newTable[entity.PurchaseOrderLine](),
		sequences: make(map[string]int64),
	}
}

// snapshot copia superficial por fila: las entidades se guardan por valor.
func (s *state) snapshot() *state {
	seq := make(map[string]int64, len(s.sequences))
	for k, v := range s.sequences {
		seq[k] = v
	}
	return &state{
		products:  s.products.clone(),
		movements: s.movements.clone(),
		equipment: s.equipment.clone(),
		orders:    s.orders.clone(),
		lines:     s.lines.clone(),
		sequences: seq,
	}
}

// Store base de datos en memoria.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn en exclusión mutua. Si fn falla el estado vuelve al de antes de la llamada.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.st.snapshot()
	if err := fn(ctx, s.repos(true)); err != nil {
		s.st = before
		return err
	}
	return nil
}

// Repos repositorios fuera de transacción; cada llamada toma el lock del store.
func (s *Store) Repos() inventory.Repos {
	return s.repos(false)
}

func (s *Store) repos(inTx bool) inventory.Repos {
	return inventory.Repos{
		Products:       &ProductRepo{s: s, inTx: inTx},
		Movements:      &MovementRepo{s: s, inTx: inTx},
		Equipment:      &EquipmentRepo{s: s, inTx: inTx},
		PurchaseOrders: &PurchaseOrderRepo{s: s, inTx: inTx},
		Sequences:      &SequenceRepo{s: s, inTx: inTx},
	}
}

// guard toma el lock salvo que la llamada venga de dentro de Run, que ya lo tiene.
func (s *Store) guard(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// page aplica offset y límite (0 = sin límite) sobre una lista ya filtrada.
func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo consecutivos por clave en document_sequences.
// El upsert bloquea la fila de la clave hasta el fin de la transacción, así no hay números repetidos.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Usar dentro de una tx.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el consecutivo de key (empieza en 1).
func (r *SequenceRepo) Next(ctx context.Context, key string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO document_sequences (key, last_value) VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`, key,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", key, err)
	}
	return n, nil
}

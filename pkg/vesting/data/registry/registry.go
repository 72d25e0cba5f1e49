package registry

import (
	"errors"
	"time"
)

// Record binds a pool instance to its creating factory under a dense,
// append-only index. Indexes start at 0 per factory and are never reused.
type Record struct {
	Id uint64

	Factory string
	Index   uint64
	Pool    string

	CreatedAt time.Time
}

func (r *Record) Validate() error {
	if len(r.Factory) == 0 {
		return errors.New("factory is required")
	}

	if len(r.Pool) == 0 {
		return errors.New("pool is required")
	}

	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id: r.Id,

		Factory: r.Factory,
		Index:   r.Index,
		Pool:    r.Pool,

		CreatedAt: r.CreatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.Factory = r.Factory
	dst.Index = r.Index
	dst.Pool = r.Pool

	dst.CreatedAt = r.CreatedAt
}

package hitlfu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/CsRic/Hit-Aware-LFU-Cache/internal"
)

type params interface {
	validate() error
}

func validateParams(params ...params) error {
	for _, p := range params {
		if err := p.validate(); err != nil {
			return err
		}
	}
	return nil
}

type baseParams struct {
	capacity    int
	engine      EngineKind
	logger      *slog.Logger
	recordStats bool
}

func (p *baseParams) validate() error {
	if p.capacity <= 0 {
		return fmt.Errorf("%w: must be positive but %d was requested", ErrInvalidCapacity, p.capacity)
	}
	switch p.engine {
	case BucketList, SortedSet:
	default:
		return fmt.Errorf("unknown engine %s", p.engine)
	}
	return nil
}

type shardParams struct {
	shards   int
	capacity int
}

func (p *shardParams) validate() error {
	if p.shards <= 0 {
		return errors.New("shards must be positive")
	}
	if p.capacity < p.shards {
		return fmt.Errorf("%w: %d slots cannot be split over %d shards", ErrInvalidCapacity, p.capacity, p.shards)
	}
	return nil
}

type Builder struct {
	baseParams
	shards int
}

func NewBuilder(capacity int) *Builder {
	b := &Builder{shards: 1}
	b.capacity = capacity
	return b
}

// Engine selects the index engine. BucketList is the default, SortedSet
// trades speed for a simpler batch at once update.
func (b *Builder) Engine(kind EngineKind) *Builder {
	b.engine = kind
	return b
}

// Logger sets the structured logger. Batches are logged at debug level,
// rejected batches at warn level. Nothing is logged by default.
func (b *Builder) Logger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// RecordStats enables the counters returned by CollectStats.
func (b *Builder) RecordStats() *Builder {
	b.recordStats = true
	return b
}

// Shards sets how many independent managers BuildSharded splits the slots
// over. Each shard owns a contiguous slot range.
func (b *Builder) Shards(n int) *Builder {
	b.shards = n
	return b
}

// Build builds a single threaded manager from builder.
func (b *Builder) Build() (*Manager, error) {
	if err := validateParams(&b.baseParams); err != nil {
		return nil, err
	}
	engine, err := internal.NewEngine(b.engine, b.capacity)
	if err != nil {
		return nil, err
	}
	return newManager(engine, b.logger, b.recordStats), nil
}

// BuildSharded builds a manager that is safe for concurrent use.
func (b *Builder) BuildSharded() (*ShardedManager, error) {
	if err := validateParams(&b.baseParams, &shardParams{shards: b.shards, capacity: b.capacity}); err != nil {
		return nil, err
	}
	return newShardedManager(b)
}

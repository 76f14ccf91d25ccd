package service

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/niksmo/shoplist/internal/core/domain"
)

const customIDOffset = 1000

// An IDAssigner picks the id of a new custom product.
//
// Calls are serialized by the [Store].
type IDAssigner interface {
	AssignID(catalog []domain.Product) int64
	Observe(catalog []domain.Product)
}

// LegacyIDAssigner gives len(catalog)+1000.
//
// Ids collide after deletions: with [1001 1002 1003] minus one entry the next
// id is 1002 again.
type LegacyIDAssigner struct{}

func NewLegacyIDAssigner() LegacyIDAssigner {
	return LegacyIDAssigner{}
}

func (LegacyIDAssigner) AssignID(catalog []domain.Product) int64 {
	return int64(len(catalog)) + customIDOffset
}

func (LegacyIDAssigner) Observe([]domain.Product) {}

// SequenceIDAssigner is a monotonic counter that never reuses an id and stays
// above every id seen in the catalog.
type SequenceIDAssigner struct {
	last int64
}

func NewSequenceIDAssigner() *SequenceIDAssigner {
	return &SequenceIDAssigner{}
}

func (a *SequenceIDAssigner) AssignID(catalog []domain.Product) int64 {
	a.Observe(catalog)
	next := max(a.last+1, int64(len(catalog))+customIDOffset)
	a.last = next
	return next
}

func (a *SequenceIDAssigner) Observe(catalog []domain.Product) {
	for _, p := range catalog {
		a.last = max(a.last, p.ID)
	}
}

type SnowflakeIDAssigner struct {
	node *snowflake.Node
}

func NewSnowflakeIDAssigner(node int64) (SnowflakeIDAssigner, error) {
	const op = "NewSnowflakeIDAssigner"

	n, err := snowflake.NewNode(node)
	if err != nil {
		return SnowflakeIDAssigner{}, fmt.Errorf("%s: %w", op, err)
	}
	return SnowflakeIDAssigner{n}, nil
}

func (a SnowflakeIDAssigner) AssignID([]domain.Product) int64 {
	return a.node.Generate().Int64()
}

func (SnowflakeIDAssigner) Observe([]domain.Product) {}

const (
	IDPolicyLegacy    = "legacy"
	IDPolicySequence  = "sequence"
	IDPolicySnowflake = "snowflake"
)

// NewIDAssigner maps a config policy name to an [IDAssigner].
func NewIDAssigner(policy string, node int64) (IDAssigner, error) {
	const op = "NewIDAssigner"

	switch policy {
	case "", IDPolicyLegacy:
		return NewLegacyIDAssigner(), nil
	case IDPolicySequence:
		return NewSequenceIDAssigner(), nil
	case IDPolicySnowflake:
		return NewSnowflakeIDAssigner(node)
	}
	return nil, fmt.Errorf("%s: unknown id policy %q", op, policy)
}

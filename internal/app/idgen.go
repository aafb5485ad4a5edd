package app

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDStrategy selects how new identifiers are produced.
type IDStrategy string

// IDStrategyUUID and related constants define the supported strategies.
const (
	IDStrategyUUID    IDStrategy = "uuid"
	IDStrategyCounter IDStrategy = "counter"
)

// UUIDGenerator returns random v4 UUID strings.
func UUIDGenerator() IDGenerator {
	return uuid.NewString
}

// CounterGenerator returns "<prefix>-1", "<prefix>-2", ... It never repeats
// within the process.
func CounterGenerator(prefix string) IDGenerator {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "id"
	}
	var next atomic.Uint64
	return func() string {
		return prefix + "-" + strconv.FormatUint(next.Add(1), 10)
	}
}

// NewIDGenerator resolves a configured strategy.
func NewIDGenerator(strategy IDStrategy) (IDGenerator, error) {
	switch IDStrategy(strings.ToLower(strings.TrimSpace(string(strategy)))) {
	case "", IDStrategyUUID:
		return UUIDGenerator(), nil
	case IDStrategyCounter:
		return CounterGenerator("e"), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidIDStrategy, strategy)
	}
}

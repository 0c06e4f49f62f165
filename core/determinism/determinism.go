// Package determinism provides the injectable clock and ID sources used by
// normalizers, the pricing engine and the snapshot store, so their output is
// reproducible under test.
package determinism

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns time.Now in UTC
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant
type FixedClock time.Time

// Now returns the fixed instant
func (c FixedClock) Now() time.Time { return time.Time(c) }

// IDGenerator synthesizes identifiers for records that carry none
type IDGenerator interface {
	NewID(prefix string) string
}

// UUIDGenerator produces "<prefix>-<uuid>" identifiers
type UUIDGenerator struct{}

// NewID returns a random identifier
func (UUIDGenerator) NewID(prefix string) string {
	if prefix == "" {
		return uuid.NewString()
	}
	return prefix + "-" + uuid.NewString()
}

// SequenceGenerator produces "<prefix>-1", "<prefix>-2", ... per prefix.
type SequenceGenerator struct {
	mu   sync.Mutex
	next map[string]int
}

// NewSequenceGenerator creates a SequenceGenerator
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{next: make(map[string]int)}
}

// NewID returns the next identifier for prefix
func (g *SequenceGenerator) NewID(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next[prefix]++
	return prefix + "-" + strconv.Itoa(g.next[prefix])
}

// ContentID derives a stable 16-hex-digit identifier from a namespace and parts.
// Identical inputs always give the same id.
func ContentID(namespace string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(namespace))
	h.Write([]byte{0})
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// SortedKeys returns a sorted copy of map keys
func SortedKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})
	return keys
}

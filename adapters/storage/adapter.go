// Package storage keeps calculation results as immutable snapshots.
// Supports two backends: a directory of JSON files and an in-memory map.
package storage

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"multicloud-cost/core/determinism"
	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
)

// Backend is a storage backend type
type Backend string

const (
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

// Store is the storage interface. Snapshots are written once and never
// updated.
type Store interface {
	// Save assigns an id and timestamp and persists the snapshot
	Save(ctx context.Context, snap *Snapshot) error

	// Get retrieves a snapshot by id
	Get(ctx context.Context, id string) (*Snapshot, error)

	// List returns snapshots newest first
	List(ctx context.Context, filter *ListFilter) ([]*Snapshot, error)

	// Compare compares the cheapest totals of two snapshots
	Compare(ctx context.Context, oldID, newID string) (*CompareResult, error)

	// Close closes the store
	Close() error
}

// Snapshot is a stored calculation result with a summary for listings
type Snapshot struct {
	ID        string    `json:"id"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	Currency       types.Currency  `json:"currency"`
	Cheapest       types.Provider  `json:"cheapest"`
	CheapestTotal  decimal.Decimal `json:"cheapestTotal"`
	MultiCloudCost decimal.Decimal `json:"multiCloudCost"`
	TableVersion   string          `json:"tableVersion"`

	Metadata map[string]string        `json:"metadata,omitempty"`
	Result   *types.CalculationResult `json:"result"`
}

// NewSnapshot summarizes result under label
func NewSnapshot(result *types.CalculationResult, label string) *Snapshot {
	return &Snapshot{
		Label:          label,
		Currency:       result.Metadata.Currency,
		Cheapest:       result.Cheapest.Provider,
		CheapestTotal:  result.Cheapest.Total,
		MultiCloudCost: result.MultiCloudOption.Cost,
		TableVersion:   result.Metadata.TableVersion,
		Result:         result,
	}
}

// ListFilter filters snapshot listing
type ListFilter struct {
	Label    string
	Currency types.Currency
	Since    time.Time
	Until    time.Time
	Limit    int
	Offset   int
}

func (f *ListFilter) match(s *Snapshot) bool {
	if f == nil {
		return true
	}
	if f.Label != "" && s.Label != f.Label {
		return false
	}
	if f.Currency != "" && s.Currency != f.Currency {
		return false
	}
	if !f.Since.IsZero() && s.CreatedAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && s.CreatedAt.After(f.Until) {
		return false
	}
	return true
}

// page orders newest first and applies offset and limit
func (f *ListFilter) page(results []*Snapshot) []*Snapshot {
	sort.SliceStable(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		}
		return results[i].ID < results[j].ID
	})
	if f == nil {
		return results
	}
	if f.Offset > 0 {
		if f.Offset >= len(results) {
			return nil
		}
		results = results[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(results) {
		results = results[:f.Limit]
	}
	return results
}

// CompareResult is a comparison between two snapshots
type CompareResult struct {
	OldID        string          `json:"oldId"`
	NewID        string          `json:"newId"`
	Currency     types.Currency  `json:"currency"`
	OldCost      decimal.Decimal `json:"oldCost"`
	NewCost      decimal.Decimal `json:"newCost"`
	Delta        decimal.Decimal `json:"delta"`
	DeltaPercent decimal.Decimal `json:"deltaPercent"`
	OldCheapest  types.Provider  `json:"oldCheapest"`
	NewCheapest  types.Provider  `json:"newCheapest"`
}

func compare(oldSnap, newSnap *Snapshot) (*CompareResult, error) {
	if oldSnap.Currency != newSnap.Currency {
		return nil, errors.Inputf("cannot compare snapshots in %s and %s", oldSnap.Currency, newSnap.Currency).
			WithContext("old", oldSnap.ID).
			WithContext("new", newSnap.ID)
	}
	delta := newSnap.CheapestTotal.Sub(oldSnap.CheapestTotal)
	pct := decimal.Zero
	if oldSnap.CheapestTotal.IsPositive() {
		pct = delta.Div(oldSnap.CheapestTotal).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return &CompareResult{
		OldID:        oldSnap.ID,
		NewID:        newSnap.ID,
		Currency:     newSnap.Currency,
		OldCost:      oldSnap.CheapestTotal,
		NewCost:      newSnap.CheapestTotal,
		Delta:        delta,
		DeltaPercent: pct,
		OldCheapest:  oldSnap.Cheapest,
		NewCheapest:  newSnap.Cheapest,
	}, nil
}

// Option configures a store
type Option func(*base)

// WithClock sets the clock used for CreatedAt
func WithClock(c determinism.Clock) Option {
	return func(b *base) { b.clock = c }
}

// WithIDs sets the snapshot id generator
func WithIDs(ids determinism.IDGenerator) Option {
	return func(b *base) { b.ids = ids }
}

type base struct {
	clock determinism.Clock
	ids   determinism.IDGenerator
}

func newBase(opts []Option) base {
	b := base{clock: determinism.SystemClock{}, ids: determinism.UUIDGenerator{}}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b base) stamp(snap *Snapshot) error {
	if snap == nil || snap.Result == nil {
		return errors.Input("snapshot has no calculation result")
	}
	if snap.ID != "" {
		return errors.Inputf("snapshot %s is already stored", snap.ID)
	}
	snap.ID = b.ids.NewID("snap")
	snap.CreatedAt = b.clock.Now()
	return nil
}

// FileStore keeps one JSON file per snapshot in a directory
type FileStore struct {
	base
	basePath string
	mu       sync.RWMutex
}

// NewFileStore creates a file store, creating the directory if needed
func NewFileStore(basePath string, opts ...Option) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, errors.Config("failed to create snapshot directory", err).WithContext("path", basePath)
	}
	return &FileStore{base: newBase(opts), basePath: basePath}, nil
}

func (s *FileStore) path(id string) (string, bool) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return "", false
	}
	return filepath.Join(s.basePath, id+".json"), true
}

func (s *FileStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.stamp(snap); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.Internal("failed to marshal snapshot", err)
	}
	path, _ := s.path(snap.ID)

	// O_EXCL keeps snapshots write-once even across processes
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.Parsing("failed to create snapshot file", err).WithContext("path", path)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return errors.Parsing("failed to write snapshot", err).WithContext("path", path)
	}
	if err := f.Close(); err != nil {
		return errors.Parsing("failed to write snapshot", err).WithContext("path", path)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, ok := s.path(id)
	if !ok {
		return nil, errors.NotFound("snapshot", id)
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.NotFound("snapshot", id)
	}
	if err != nil {
		return nil, errors.Parsing("failed to read snapshot", err).WithContext("path", path)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Parsing("failed to decode snapshot", err).WithContext("path", path)
	}
	return &snap, nil
}

// List skips files that are not readable snapshots
func (s *FileStore) List(ctx context.Context, filter *ListFilter) ([]*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, errors.Parsing("failed to read snapshot directory", err).WithContext("path", s.basePath)
	}

	var results []*Snapshot
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.basePath, entry.Name()))
		if err != nil {
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil || snap.ID == "" {
			continue
		}
		if filter.match(&snap) {
			results = append(results, &snap)
		}
	}
	return filter.page(results), nil
}

func (s *FileStore) Compare(ctx context.Context, oldID, newID string) (*CompareResult, error) {
	oldSnap, err := s.Get(ctx, oldID)
	if err != nil {
		return nil, err
	}
	newSnap, err := s.Get(ctx, newID)
	if err != nil {
		return nil, err
	}
	return compare(oldSnap, newSnap)
}

func (s *FileStore) Close() error {
	return nil
}

// MemoryStore is an in-memory storage backend
type MemoryStore struct {
	base
	results map[string]*Snapshot
	mu      sync.RWMutex
}

// NewMemoryStore creates a memory store
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		base:    newBase(opts),
		results: make(map[string]*Snapshot),
	}
}

func (s *MemoryStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.stamp(snap); err != nil {
		return err
	}
	stored := *snap
	s.results[snap.ID] = &stored
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.results[id]
	if !ok {
		return nil, errors.NotFound("snapshot", id)
	}
	out := *snap
	return &out, nil
}

func (s *MemoryStore) List(ctx context.Context, filter *ListFilter) ([]*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*Snapshot
	for _, snap := range s.results {
		if filter.match(snap) {
			out := *snap
			results = append(results, &out)
		}
	}
	return filter.page(results), nil
}

func (s *MemoryStore) Compare(ctx context.Context, oldID, newID string) (*CompareResult, error) {
	oldSnap, err := s.Get(ctx, oldID)
	if err != nil {
		return nil, err
	}
	newSnap, err := s.Get(ctx, newID)
	if err != nil {
		return nil, err
	}
	return compare(oldSnap, newSnap)
}

func (s *MemoryStore) Close() error {
	return nil
}

// StoreFactory creates stores by backend type
func StoreFactory(backend Backend, directory string, opts ...Option) (Store, error) {
	switch backend {
	case BackendFile, "":
		if directory == "" {
			return nil, errors.New(errors.TypeConfig, "file snapshot store needs a directory")
		}
		return NewFileStore(directory, opts...)
	case BackendMemory:
		return NewMemoryStore(opts...), nil
	default:
		return nil, errors.NotSupported("snapshot backend " + string(backend))
	}
}

// Ensure interfaces are implemented
var (
	_ Store     = (*FileStore)(nil)
	_ Store     = (*MemoryStore)(nil)
	_ io.Closer = (*FileStore)(nil)
)

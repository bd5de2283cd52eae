package collection

// This file contains shared test fakes used across the engine, adapter, and
// CLI tests. They are exported so downstream code can test against the same
// gateway and store contracts.

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MockGateway is an in-memory remote authority. It records every call in
// completion order and supports per-record failure injection, which is how
// the flush tests exercise isolated per-item errors.
type MockGateway[T any] struct {
	mu        sync.Mutex
	desc      Descriptor[T]
	records   []T
	calls     []string
	fetchErr  error
	createErr map[string]error
	updateErr map[string]error
	deleteErr map[string]error
	assignIDs bool
}

// NewMockGateway creates a mock gateway that assigns server-side ids on
// create, replacing any optimistic local id.
func NewMockGateway[T any](desc Descriptor[T]) *MockGateway[T] {
	return &MockGateway[T]{
		desc:      desc,
		createErr: make(map[string]error),
		updateErr: make(map[string]error),
		deleteErr: make(map[string]error),
		assignIDs: true,
	}
}

// Seed loads records into the remote collection without recording calls.
func (g *MockGateway[T]) Seed(items ...T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.records = append(g.records, items...)
}

// FailFetch makes FetchAll return err.
func (g *MockGateway[T]) FailFetch(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetchErr = err
}

// FailCreate makes Create fail for the record with the given (local) id.
func (g *MockGateway[T]) FailCreate(id string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createErr[id] = err
}

// FailUpdate makes Update fail for the record with the given id.
func (g *MockGateway[T]) FailUpdate(id string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updateErr[id] = err
}

// FailDelete makes Delete fail for the given id.
func (g *MockGateway[T]) FailDelete(id string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleteErr[id] = err
}

// KeepLocalIDs disables server-side id assignment on create.
func (g *MockGateway[T]) KeepLocalIDs() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.assignIDs = false
}

// Records returns a copy of the remote collection.
func (g *MockGateway[T]) Records() []T {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]T, len(g.records))
	copy(out, g.records)
	return out
}

// Calls returns the operations performed, in completion order. Entries look
// like "fetch", "create <id>", "update <id>", "delete <id>".
func (g *MockGateway[T]) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.calls))
	copy(out, g.calls)
	return out
}

// Operations exposes the mock as the gateway contract.
func (g *MockGateway[T]) Operations() Operations[T] {
	return Operations[T]{
		FetchAll: g.fetchAll,
		Create:   g.create,
		Update:   g.update,
		Delete:   g.delete,
	}
}

func (g *MockGateway[T]) fetchAll(ctx context.Context) ([]T, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "fetch")
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	out := make([]T, len(g.records))
	copy(out, g.records)
	return out, nil
}

func (g *MockGateway[T]) create(ctx context.Context, item T) (T, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var zero T
	id := ""
	if g.desc.ID != nil {
		id = g.desc.ID(item)
	}
	g.calls = append(g.calls, "create "+id)

	if err := g.createErr[id]; err != nil {
		return zero, err
	}

	if g.assignIDs && g.desc.WithID != nil && (id == "" || strings.HasPrefix(id, "local-")) {
		item = g.desc.WithID(item, uuid.NewString())
	}
	if g.desc.WithOfflineCreated != nil {
		item = g.desc.WithOfflineCreated(item, false)
	}

	g.records = append(g.records, item)
	return item, nil
}

func (g *MockGateway[T]) update(ctx context.Context, item T) (T, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var zero T
	id := ""
	if g.desc.ID != nil {
		id = g.desc.ID(item)
	}
	g.calls = append(g.calls, "update "+id)

	if err := g.updateErr[id]; err != nil {
		return zero, err
	}

	for i := range g.records {
		if g.desc.ID != nil && g.desc.ID(g.records[i]) == id {
			g.records[i] = item
			return item, nil
		}
	}
	return zero, NewGatewayError("Update", 404, "record not found").WithRecordID(id)
}

func (g *MockGateway[T]) delete(ctx context.Context, id string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "delete "+id)

	if err := g.deleteErr[id]; err != nil {
		return "", err
	}

	for i := range g.records {
		if g.desc.ID != nil && g.desc.ID(g.records[i]) == id {
			g.records = append(g.records[:i], g.records[i+1:]...)
			return id, nil
		}
	}
	return "", NewGatewayError("Delete", 404, "record not found").WithRecordID(id)
}

// MockStore is an in-memory Store with failure injection.
type MockStore struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
	setErr error
	sets   int
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string]string)}
}

// Put seeds a value without counting as a write.
func (s *MockStore) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Value returns the current value under key, or "" when absent.
func (s *MockStore) Value(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key]
}

// Writes returns how many Set calls have completed.
func (s *MockStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

// FailGet makes every Get return err.
func (s *MockStore) FailGet(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getErr = err
}

// FailSet makes every Set return err.
func (s *MockStore) FailSet(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErr = err
}

// Get implements Store.
func (s *MockStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

// Set implements Store.
func (s *MockStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	s.sets++
	return nil
}

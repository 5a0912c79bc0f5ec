// Package store provides an in-memory Store implementation for tests and
// development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/Parthee-Vijaya/BP2/allowance"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	entries    map[string]allowance.Entry
	children   map[string]allowance.Child
	caregivers map[string]allowance.Caregiver
	intervals  []allowance.MonthInterval

	lockMu     sync.Mutex
	childLocks map[string]*sync.Mutex
}

func NewMemory() *Memory {
	return &Memory{
		entries:    make(map[string]allowance.Entry),
		children:   make(map[string]allowance.Child),
		caregivers: make(map[string]allowance.Caregiver),
		childLocks: make(map[string]*sync.Mutex),
	}
}

var _ allowance.Store = (*Memory)(nil)

// =============================================================================
// ENTRIES
// =============================================================================

func (m *Memory) CreateEntry(_ context.Context, e allowance.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.ID] = e
	return nil
}

func (m *Memory) Entry(_ context.Context, id string) (allowance.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return allowance.Entry{}, &allowance.NotFoundError{Kind: "entry", ID: id}
	}
	return e, nil
}

func (m *Memory) Entries(_ context.Context, f allowance.EntryFilter) ([]allowance.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []allowance.Entry
	for _, e := range m.entries {
		if matches(e, f) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func matches(e allowance.Entry, f allowance.EntryFilter) bool {
	if f.ChildID != "" && e.ChildID != f.ChildID {
		return false
	}
	if f.CaregiverID != "" && e.CaregiverID != f.CaregiverID {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if !f.From.IsZero() && e.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.Date.After(f.To) {
		return false
	}
	return true
}

func (m *Memory) UpdateEntryStatus(_ context.Context, id string, status allowance.EntryStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return &allowance.NotFoundError{Kind: "entry", ID: id}
	}
	e.Status = status
	m.entries[id] = e
	return nil
}

// =============================================================================
// CHILDREN / CAREGIVERS
// =============================================================================

func (m *Memory) CreateChild(_ context.Context, c allowance.Child) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.children[c.ID] = c
	return nil
}

func (m *Memory) UpdateChild(_ context.Context, c allowance.Child) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.children[c.ID]; !ok {
		return &allowance.NotFoundError{Kind: "child", ID: c.ID}
	}
	m.children[c.ID] = c
	return nil
}

func (m *Memory) Child(_ context.Context, id string) (allowance.Child, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.children[id]
	if !ok {
		return allowance.Child{}, &allowance.NotFoundError{Kind: "child", ID: id}
	}
	return c, nil
}

func (m *Memory) Children(_ context.Context, caregiverID string) ([]allowance.Child, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []allowance.Child
	for _, c := range m.children {
		if caregiverID == "" || c.CaregiverID == caregiverID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) CreateCaregiver(_ context.Context, c allowance.Caregiver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caregivers[c.ID] = c
	return nil
}

func (m *Memory) Caregiver(_ context.Context, id string) (allowance.Caregiver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.caregivers[id]
	if !ok {
		return allowance.Caregiver{}, &allowance.NotFoundError{Kind: "caregiver", ID: id}
	}
	return c, nil
}

func (m *Memory) Caregivers(_ context.Context) ([]allowance.Caregiver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]allowance.Caregiver, 0, len(m.caregivers))
	for _, c := range m.caregivers {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// =============================================================================
// SETTINGS
// =============================================================================

func (m *Memory) MonthIntervals(_ context.Context) ([]allowance.MonthInterval, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return allowance.SortedMonthIntervals(m.intervals), nil
}

func (m *Memory) AddMonthInterval(_ context.Context, mi allowance.MonthInterval) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intervals = append(m.intervals, mi)
	return nil
}

// =============================================================================
// PER-CHILD SERIALIZATION
// =============================================================================

// WithChildLock serializes read-consumption-then-insert per child.
func (m *Memory) WithChildLock(ctx context.Context, childID string, fn func(ctx context.Context) error) error {
	m.lockMu.Lock()
	lock, ok := m.childLocks[childID]
	if !ok {
		lock = &sync.Mutex{}
		m.childLocks[childID] = lock
	}
	m.lockMu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn(ctx)
}

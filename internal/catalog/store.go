// Package catalog implements the equipment catalog service: an in-memory
// store of gear, batteries and aircraft with filterable, offset-paginated
// search, exposed over HTTP by the router in server.go.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"hangarview/internal/domain"
)

// Store holds the catalog data. All access is mutex-guarded; search results
// are copies, never views into internal slices.
type Store struct {
	mu        sync.RWMutex
	gear      []domain.GearItem
	batteries []domain.Battery
	aircraft  []domain.Aircraft
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// AddGear inserts a gear item, assigning an ID when absent, and returns the
// stored value
func (s *Store) AddGear(g domain.GearItem) domain.GearItem {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Status == "" {
		g.Status = domain.StatusPending
	}
	s.mu.Lock()
	s.gear = append(s.gear, g)
	s.mu.Unlock()
	return g
}

// AddBattery inserts a battery pack, assigning an ID when absent
func (s *Store) AddBattery(b domain.Battery) domain.Battery {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.batteries = append(s.batteries, b)
	s.mu.Unlock()
	return b
}

// AddAircraft inserts an airframe, assigning an ID when absent
func (s *Store) AddAircraft(a domain.Aircraft) domain.Aircraft {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.aircraft = append(s.aircraft, a)
	s.mu.Unlock()
	return a
}

// ModerateGear approves or rejects a pending gear item
func (s *Store) ModerateGear(id string, approve bool) (domain.GearItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.gear {
		if s.gear[i].ID == id {
			if approve {
				s.gear[i].Status = domain.StatusApproved
			} else {
				s.gear[i].Status = domain.StatusRejected
			}
			return s.gear[i], nil
		}
	}
	return domain.GearItem{}, fmt.Errorf("gear item not found: %s", id)
}

// SearchGear returns one page of gear matching the filters plus the total
// match count
func (s *Store) SearchGear(f domain.SearchFilters, limit, offset int) ([]domain.GearItem, int) {
	s.mu.RLock()
	matched := make([]domain.GearItem, 0, len(s.gear))
	for _, g := range s.gear {
		if !matchesText(f.Query, g.Name, g.Brand) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(f.Category, g.Category) {
			continue
		}
		if f.Status != "" && f.Status != g.Status {
			continue
		}
		matched = append(matched, g)
	}
	s.mu.RUnlock()

	switch f.Sort {
	case domain.SortByNewest:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	case domain.SortByWeight:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].WeightGrams < matched[j].WeightGrams })
	default:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	}

	return window(matched, limit, offset), len(matched)
}

// SearchBatteries returns one page of battery packs matching the filters.
// The category filter selects the chemistry.
func (s *Store) SearchBatteries(f domain.SearchFilters, limit, offset int) ([]domain.Battery, int) {
	s.mu.RLock()
	matched := make([]domain.Battery, 0, len(s.batteries))
	for _, b := range s.batteries {
		if !matchesText(f.Query, b.Name, b.Brand) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(f.Category, b.Chemistry) {
			continue
		}
		matched = append(matched, b)
	}
	s.mu.RUnlock()

	switch f.Sort {
	case domain.SortByNewest:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	case domain.SortByWeight:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].WeightGrams < matched[j].WeightGrams })
	default:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	}

	return window(matched, limit, offset), len(matched)
}

// SearchAircraft returns one page of airframes matching the filters.
// The category filter selects the frame type.
func (s *Store) SearchAircraft(f domain.SearchFilters, limit, offset int) ([]domain.Aircraft, int) {
	s.mu.RLock()
	matched := make([]domain.Aircraft, 0, len(s.aircraft))
	for _, a := range s.aircraft {
		if !matchesText(f.Query, a.Name, a.Frame) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(f.Category, a.Frame) {
			continue
		}
		matched = append(matched, a)
	}
	s.mu.RUnlock()

	switch f.Sort {
	case domain.SortByNewest:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	case domain.SortByWeight:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].WeightGrams < matched[j].WeightGrams })
	default:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	}

	return window(matched, limit, offset), len(matched)
}

// Counts returns the unfiltered collection sizes
func (s *Store) Counts() (gear, batteries, aircraft int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.gear), len(s.batteries), len(s.aircraft)
}

// matchesText reports whether the query is a case-insensitive substring of
// any of the fields. An empty query matches everything.
func matchesText(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// window applies offset/limit to a matched result set
func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	page := make([]T, end-offset)
	copy(page, items[offset:end])
	return page
}

package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hangarview/internal/domain"
)

func testStore() *Store {
	s := NewStore()
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	s.AddGear(domain.GearItem{Name: "Zorro", Brand: "RadioMaster", Category: "radio", WeightGrams: 350, Status: domain.StatusApproved, CreatedAt: base})
	s.AddGear(domain.GearItem{Name: "TX16S", Brand: "RadioMaster", Category: "radio", WeightGrams: 736, Status: domain.StatusPending, CreatedAt: base.Add(time.Hour)})
	s.AddGear(domain.GearItem{Name: "D8 Duo", Brand: "ToolkitRC", Category: "charger", WeightGrams: 338, Status: domain.StatusApproved, CreatedAt: base.Add(2 * time.Hour)})
	return s
}

func TestSearchGearTextQuery(t *testing.T) {
	s := testStore()

	items, total := s.SearchGear(domain.SearchFilters{Query: "radiomaster"}, 30, 0)
	assert.Equal(t, 2, total)
	require.Len(t, items, 2)
	// Default sort is by name.
	assert.Equal(t, "TX16S", items[0].Name)
	assert.Equal(t, "Zorro", items[1].Name)

	_, total = s.SearchGear(domain.SearchFilters{Query: "no such thing"}, 30, 0)
	assert.Equal(t, 0, total)
}

func TestSearchGearCategoryAndStatus(t *testing.T) {
	s := testStore()

	items, total := s.SearchGear(domain.SearchFilters{Category: "RADIO", Status: domain.StatusApproved}, 30, 0)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Zorro", items[0].Name)
}

func TestSearchGearSortOrders(t *testing.T) {
	s := testStore()

	items, _ := s.SearchGear(domain.SearchFilters{Sort: domain.SortByNewest}, 30, 0)
	require.Len(t, items, 3)
	assert.Equal(t, "D8 Duo", items[0].Name)

	items, _ = s.SearchGear(domain.SearchFilters{Sort: domain.SortByWeight}, 30, 0)
	require.Len(t, items, 3)
	assert.Equal(t, "D8 Duo", items[0].Name)
	assert.Equal(t, "TX16S", items[2].Name)
}

func TestSearchWindowing(t *testing.T) {
	s := testStore()

	items, total := s.SearchGear(domain.SearchFilters{}, 2, 0)
	assert.Equal(t, 3, total)
	assert.Len(t, items, 2)

	items, total = s.SearchGear(domain.SearchFilters{}, 2, 2)
	assert.Equal(t, 3, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Zorro", items[0].Name)

	// Offset past the end yields an empty page, not an error.
	items, total = s.SearchGear(domain.SearchFilters{}, 2, 10)
	assert.Equal(t, 3, total)
	assert.Empty(t, items)
}

func TestModerateGear(t *testing.T) {
	s := testStore()
	items, _ := s.SearchGear(domain.SearchFilters{Status: domain.StatusPending}, 30, 0)
	require.Len(t, items, 1)

	updated, err := s.ModerateGear(items[0].ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Status)

	_, total := s.SearchGear(domain.SearchFilters{Status: domain.StatusPending}, 30, 0)
	assert.Equal(t, 0, total)

	_, err = s.ModerateGear("missing-id", false)
	assert.Error(t, err)
}

func TestSeedPopulatesAllCollections(t *testing.T) {
	s := NewStore()
	Seed(s)
	gear, batteries, aircraft := s.Counts()
	assert.Greater(t, gear, 60, "gear must paginate past two default pages")
	assert.Greater(t, batteries, 30)
	assert.Equal(t, 12, aircraft)
}

func TestBatteryChemistryFilter(t *testing.T) {
	s := NewStore()
	Seed(s)
	items, total := s.SearchBatteries(domain.SearchFilters{Category: "lipo"}, 100, 0)
	require.NotZero(t, total)
	for _, b := range items {
		assert.Equal(t, "LiPo", b.Chemistry)
	}
}

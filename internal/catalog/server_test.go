package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hangarview/internal/domain"
)

type gearPage struct {
	Items []domain.GearItem `json:"items"`
	Total int               `json:"total"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := NewStore()
	Seed(store)
	srv := httptest.NewServer(NewRouter(store))
	t.Cleanup(srv.Close)
	return srv
}

func getPage(t *testing.T, url string) (gearPage, *http.Response) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var page gearPage
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	}
	return page, resp
}

func TestListGearPagination(t *testing.T) {
	srv := newTestServer(t)

	first, resp := getPage(t, srv.URL+"/api/v1/gear?limit=30&offset=0")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, first.Items, 30)
	assert.Equal(t, 65, first.Total)

	last, _ := getPage(t, srv.URL+"/api/v1/gear?limit=30&offset=60")
	assert.Len(t, last.Items, 5)
	assert.Equal(t, 65, last.Total)
}

func TestListGearFilters(t *testing.T) {
	srv := newTestServer(t)

	page, resp := getPage(t, srv.URL+"/api/v1/gear?q=radiomaster&category=radio")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, page.Items)
	for _, g := range page.Items {
		assert.Equal(t, "RadioMaster", g.Brand)
		assert.Equal(t, "radio", g.Category)
	}
	assert.Equal(t, len(page.Items), page.Total)
}

func TestListGearBadParams(t *testing.T) {
	srv := newTestServer(t)

	_, resp := getPage(t, srv.URL+"/api/v1/gear?limit=zero")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, resp = getPage(t, srv.URL+"/api/v1/gear?offset=-1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestModerationEndpoints(t *testing.T) {
	srv := newTestServer(t)

	pending, _ := getPage(t, srv.URL+"/api/v1/gear?status=pending&limit=1")
	require.NotEmpty(t, pending.Items)
	id := pending.Items[0].ID

	resp, err := http.Post(srv.URL+"/api/v1/gear/"+id+"/approve", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var item domain.GearItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&item))
	assert.Equal(t, domain.StatusApproved, item.Status)

	missing, err := http.Post(srv.URL+"/api/v1/gear/nope/reject", "application/json", nil)
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

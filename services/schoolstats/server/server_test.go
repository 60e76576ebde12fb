package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"edustats-backend/lib/scrapers/edugis"
	"edustats-backend/services/schoolstats"

	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	snapshot  schoolstats.Snapshot
	err       error
	lastForce bool
	calls     int
}

func (p *stubProvider) GetData(ctx context.Context, forceRefresh bool) (schoolstats.Snapshot, error) {
	p.calls++
	p.lastForce = forceRefresh
	if p.err != nil {
		return schoolstats.Snapshot{}, p.err
	}
	return p.snapshot, nil
}

func newTestServer(t *testing.T, provider *stubProvider) *httptest.Server {
	mux := http.NewServeMux()
	NewService(provider).RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testSnapshot() schoolstats.Snapshot {
	return schoolstats.Snapshot{
		Records: []edugis.Record{
			{
				District:   edugis.DistrictHualienCity,
				SchoolName: "某國小",
				Classes:    12, Students: 350, Teachers: 28,
				CampusArea: 5000, BuildingArea: 3200, Buildings: 4,
			},
		},
		FetchedAt: time.Unix(1700000000, 0),
	}
}

func getJson(t *testing.T, url string) (int, map[string]any) {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()

	var body map[string]any
	err = json.NewDecoder(res.Body).Decode(&body)
	require.NoError(t, err)
	return res.StatusCode, body
}

func TestApiData(t *testing.T) {
	provider := &stubProvider{snapshot: testSnapshot()}
	server := newTestServer(t, provider)

	status, body := getJson(t, server.URL+"/api/data")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])
	require.Equal(t, float64(1), body["count"])
	require.Equal(t, false, body["stale"])
	require.False(t, provider.lastForce)

	rows := body["data"].([]any)
	row := rows[0].(map[string]any)
	require.Equal(t, "花蓮市", row["鄉鎮市區"])
	require.Equal(t, "某國小", row["學校名稱"])
	require.Equal(t, float64(350), row["學生數"])
}

func TestApiRefreshForcesPipeline(t *testing.T) {
	provider := &stubProvider{snapshot: testSnapshot()}
	server := newTestServer(t, provider)

	status, body := getJson(t, server.URL+"/api/refresh")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])
	require.True(t, provider.lastForce)
}

func TestApiDataPipelineFailure(t *testing.T) {
	provider := &stubProvider{
		err: fmt.Errorf("%w: portal unreachable", schoolstats.ErrPipeline),
	}
	server := newTestServer(t, provider)

	status, body := getJson(t, server.URL+"/api/data")
	require.Equal(t, http.StatusServiceUnavailable, status)
	require.Equal(t, false, body["success"])
	require.Contains(t, body["error"], "portal unreachable")
}

func TestApiDataStaleSnapshot(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.Stale = true
	provider := &stubProvider{snapshot: snapshot}
	server := newTestServer(t, provider)

	status, body := getJson(t, server.URL+"/api/data")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])
	require.Equal(t, true, body["stale"])
}

func TestDownloadCsv(t *testing.T) {
	provider := &stubProvider{snapshot: testSnapshot()}
	server := newTestServer(t, provider)

	res, err := http.Get(server.URL + "/download/csv")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "text/csv; charset=utf-8", res.Header.Get("Content-Type"))
	require.Contains(t, res.Header.Get("Content-Disposition"), "attachment")
	require.Contains(t, res.Header.Get("Content-Disposition"), ".csv")

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(body), "\ufeff"))
	require.Contains(t, string(body), "某國小")
}

func TestDownloadCsvEmptyDataset(t *testing.T) {
	provider := &stubProvider{snapshot: schoolstats.Snapshot{}}
	server := newTestServer(t, provider)

	res, err := http.Get(server.URL + "/download/csv")
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestIndexPage(t *testing.T) {
	provider := &stubProvider{snapshot: testSnapshot()}
	server := newTestServer(t, provider)

	res, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "國小統計資料")
}

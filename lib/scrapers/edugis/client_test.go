package edugis

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"edustats-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

const landingPage = `
<html><body>
<form method="post" action="./default.aspx">
	<input type="hidden" name="__VIEWSTATE" value="dDwtMTg2" />
	<input type="hidden" name="__EVENTVALIDATION" value="/wEWBA" />
	<select name="CityName"><option value="花蓮縣">花蓮縣</option></select>
</form>
</body></html>
`

type fakePortal struct {
	gets  atomic.Int64
	posts atomic.Int64
}

func (p *fakePortal) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/edugissys/default.aspx", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			p.gets.Add(1)
			fmt.Fprint(w, landingPage)
			return
		}
		p.posts.Add(1)

		err := r.ParseForm()
		if err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		// the portal rejects submissions that lose the session tokens
		if r.PostFormValue("__VIEWSTATE") != "dDwtMTg2" ||
			r.PostFormValue("__EVENTVALIDATION") != "/wEWBA" {
			http.Error(w, "view state mismatch", http.StatusInternalServerError)
			return
		}
		if r.PostFormValue("CityName") != "花蓮縣" {
			http.Error(w, "unknown city", http.StatusBadRequest)
			return
		}

		switch r.PostFormValue("DistName") {
		case "花蓮市":
			fmt.Fprint(w, resultsPage)
		case "吉安鄉":
			fmt.Fprint(w, emptyResultsPage)
		default:
			// recognizable page with no results section
			fmt.Fprint(w, `<html><body><p>查無資料來源</p></body></html>`)
		}
	})
	return mux
}

func newTestClient(t *testing.T, baseUrl string) *Client {
	client, err := NewClient(ClientOptions{
		BaseUrl:    baseUrl,
		Timeout:    time.Second * 5,
		RetryCount: 1,
	})
	require.NoError(t, err)
	return client
}

func TestFetchDistrict(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/edugis")
	defer cleanup()

	portal := &fakePortal{}
	server := httptest.NewServer(portal.handler())
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	html, err := client.FetchDistrict(ctx, DistrictHualienCity)
	require.NoError(t, err)
	require.Equal(t, int64(1), portal.gets.Load())
	require.Equal(t, int64(1), portal.posts.Load())

	records, err := ParseSchoolTable(html, DistrictHualienCity)
	require.NoError(t, err)
	require.Len(t, records, 3)
}

func TestFetchDistrictEmptyResult(t *testing.T) {
	portal := &fakePortal{}
	server := httptest.NewServer(portal.handler())
	defer server.Close()

	client := newTestClient(t, server.URL)

	html, err := client.FetchDistrict(context.Background(), DistrictJianTownship)
	require.NoError(t, err)

	records, err := ParseSchoolTable(html, DistrictJianTownship)
	require.NoError(t, err)
	require.Len(t, records, 0)
}

func TestFetchDistrictFormStateMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>no form here</body></html>`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.FetchDistrict(context.Background(), DistrictHualienCity)
	require.ErrorIs(t, err, ErrFormState)
}

func TestFetchDistrictUnexpectedContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, landingPage)
			return
		}
		fmt.Fprint(w, `<html><body><p>系統維護中</p></body></html>`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.FetchDistrict(context.Background(), DistrictHualienCity)
	require.ErrorIs(t, err, ErrUnexpectedContent)
}

func TestFetchDistrictServerError(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.FetchDistrict(context.Background(), DistrictHualienCity)
	require.ErrorIs(t, err, ErrNetwork)
	// initial attempt plus the single configured retry
	require.Equal(t, int64(2), hits.Load())
}

func TestFetchDistrictConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.FetchDistrict(context.Background(), DistrictHualienCity)
	require.ErrorIs(t, err, ErrNetwork)
}

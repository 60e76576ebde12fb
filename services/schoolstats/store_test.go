package schoolstats

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"edustats-backend/lib/scrapers/edugis"
	schooldb "edustats-backend/services/schoolstats/db"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	database, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = database.Exec(schooldb.Schema)
	require.NoError(t, err)

	return NewStore(database)
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	records := []edugis.Record{
		{
			District:   edugis.DistrictHualienCity,
			SchoolName: "某國小",
			Classes:    12, Students: 350, Teachers: 28,
			CampusArea: 5000, BuildingArea: 3200.5, Buildings: 4,
		},
		{
			District:   edugis.DistrictJianTownship,
			SchoolName: "明義國小",
			Classes:    18, Students: 410, Teachers: 35,
			CampusArea: 12000, BuildingArea: 6100, Buildings: 6,
		},
	}
	fetchedAt := time.Unix(1700000000, 0)

	err := store.RecordRun(ctx, records, fetchedAt)
	require.NoError(t, err)

	got, err := store.Schools(ctx)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(records, got))

	runTime, count, ok, err := store.LatestRun(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, fetchedAt.Unix(), runTime.Unix())
	require.Equal(t, 2, count)
}

func TestStoreRecordRunReplacesSchools(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first := []edugis.Record{
		{District: edugis.DistrictHualienCity, SchoolName: "某國小", Classes: 12},
		{District: edugis.DistrictJianTownship, SchoolName: "明義國小", Classes: 18},
	}
	err := store.RecordRun(ctx, first, time.Unix(1700000000, 0))
	require.NoError(t, err)

	second := []edugis.Record{
		{District: edugis.DistrictHualienCity, SchoolName: "某國小", Classes: 13},
	}
	err = store.RecordRun(ctx, second, time.Unix(1700003600, 0))
	require.NoError(t, err)

	got, err := store.Schools(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 13, got[0].Classes)

	runTime, count, ok, err := store.LatestRun(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1700003600), runTime.Unix())
	require.Equal(t, 1, count)
}

func TestStoreLatestRunEmpty(t *testing.T) {
	store := newTestStore(t)

	_, _, ok, err := store.LatestRun(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStoreFailedRunsDoNotShadowSuccess(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	records := []edugis.Record{
		{District: edugis.DistrictHualienCity, SchoolName: "某國小"},
	}
	err := store.RecordRun(ctx, records, time.Unix(1700000000, 0))
	require.NoError(t, err)

	err = store.RecordFailure(ctx, fmt.Errorf("portal down"), time.Unix(1700003600, 0))
	require.NoError(t, err)

	runTime, count, ok, err := store.LatestRun(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1700000000), runTime.Unix())
	require.Equal(t, 1, count)

	got, err := store.Schools(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

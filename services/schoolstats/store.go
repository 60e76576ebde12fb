package schoolstats

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"edustats-backend/lib/scrapers/edugis"
	"edustats-backend/services/schoolstats/db"
)

// Store keeps the latest scraped dataset and a run log in sqlite, so
// history survives restarts even though serving goes through the
// in-memory cache.
type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) *Store {
	return &Store{
		db:  database,
		qry: db.New(database),
	}
}

// RecordRun replaces the persisted school rows with this run's records
// and appends to the run log, all in one transaction.
func (s *Store) RecordRun(ctx context.Context, records []edugis.Record, fetchedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	err = txqry.DeleteAllSchools(ctx)
	if err != nil {
		return err
	}
	for _, r := range records {
		err = txqry.CreateSchool(ctx, db.CreateSchoolParams{
			District:     r.District.String(),
			SchoolName:   r.SchoolName,
			Classes:      int64(r.Classes),
			Students:     int64(r.Students),
			Teachers:     int64(r.Teachers),
			CampusArea:   r.CampusArea,
			BuildingArea: r.BuildingArea,
			Buildings:    int64(r.Buildings),
		})
		if err != nil {
			return err
		}
	}

	err = txqry.CreateScrapeRun(ctx, db.CreateScrapeRunParams{
		ScrapeTime:  fetchedAt.Unix(),
		SchoolCount: int64(len(records)),
		Status:      "success",
	})
	if err != nil {
		return err
	}

	return tx.Commit()
}

// RecordFailure appends a failed run to the log without touching the
// persisted school rows.
func (s *Store) RecordFailure(ctx context.Context, cause error, at time.Time) error {
	return s.qry.CreateScrapeRun(ctx, db.CreateScrapeRunParams{
		ScrapeTime: at.Unix(),
		Status:     "error",
		Error:      cause.Error(),
	})
}

// Schools returns the persisted dataset from the most recent run.
func (s *Store) Schools(ctx context.Context) ([]edugis.Record, error) {
	rows, err := s.qry.ListSchools(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]edugis.Record, 0, len(rows))
	for _, row := range rows {
		district, ok := edugis.ParseDistrict(row.District)
		if !ok {
			return nil, fmt.Errorf("unknown district in store: %q", row.District)
		}
		records = append(records, edugis.Record{
			District:     district,
			SchoolName:   row.SchoolName,
			Classes:      int(row.Classes),
			Students:     int(row.Students),
			Teachers:     int(row.Teachers),
			CampusArea:   row.CampusArea,
			BuildingArea: row.BuildingArea,
			Buildings:    int(row.Buildings),
		})
	}
	return records, nil
}

// LatestRun returns the time and size of the most recent successful
// run, or ok=false when nothing was ever persisted.
func (s *Store) LatestRun(ctx context.Context) (time.Time, int, bool, error) {
	run, err := s.qry.GetLatestScrapeRun(ctx)
	if err == sql.ErrNoRows {
		return time.Time{}, 0, false, nil
	}
	if err != nil {
		return time.Time{}, 0, false, err
	}
	return time.Unix(run.ScrapeTime, 0), int(run.SchoolCount), true, nil
}

package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"edustats-backend/lib/scrapers/edugis"
	"edustats-backend/lib/timezone"
	"edustats-backend/services/schoolstats"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:embed index.html
var indexHtml string

var indexTemplate = template.Must(template.New("index").Parse(indexHtml))

// DataProvider is the pipeline side of the http surface.
type DataProvider interface {
	GetData(ctx context.Context, forceRefresh bool) (schoolstats.Snapshot, error)
}

type Service struct {
	provider DataProvider
}

func NewService(provider DataProvider) Service {
	return Service{provider: provider}
}

func (s Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/data", s.handleApiData)
	mux.HandleFunc("GET /api/refresh", s.handleApiRefresh)
	mux.HandleFunc("GET /download/csv", s.handleDownloadCsv)
}

// recordJson mirrors the column names of the csv export so api
// consumers and spreadsheet users see the same field names.
type recordJson struct {
	District     string  `json:"鄉鎮市區"`
	SchoolName   string  `json:"學校名稱"`
	Classes      int     `json:"班級數"`
	Students     int     `json:"學生數"`
	Teachers     int     `json:"教師數"`
	CampusArea   float64 `json:"校地面積"`
	BuildingArea float64 `json:"校舍面積"`
	Buildings    int     `json:"棟數"`
}

type dataResponse struct {
	Success   bool         `json:"success"`
	Data      []recordJson `json:"data"`
	Count     int          `json:"count"`
	Timestamp string       `json:"timestamp"`
	Stale     bool         `json:"stale"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func toRecordJson(records []edugis.Record) []recordJson {
	out := make([]recordJson, len(records))
	for i, r := range records {
		out[i] = recordJson{
			District:     r.District.String(),
			SchoolName:   r.SchoolName,
			Classes:      r.Classes,
			Students:     r.Students,
			Teachers:     r.Teachers,
			CampusArea:   r.CampusArea,
			BuildingArea: r.BuildingArea,
			Buildings:    r.Buildings,
		}
	}
	return out
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Warn("failed to write json response", "err", err)
	}
}

func (s Service) writeSnapshot(ctx context.Context, w http.ResponseWriter, forceRefresh bool) {
	snapshot, err := s.provider.GetData(ctx, forceRefresh)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get school data", "err", err)
		status := http.StatusInternalServerError
		if errors.Is(err, schoolstats.ErrPipeline) {
			status = http.StatusServiceUnavailable
		}
		writeJson(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJson(w, http.StatusOK, dataResponse{
		Success:   true,
		Data:      toRecordJson(snapshot.Records),
		Count:     len(snapshot.Records),
		Timestamp: snapshot.FetchedAt.Format(time.RFC3339),
		Stale:     snapshot.Stale,
	})
}

func (s Service) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTemplate.Execute(w, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "failed to render index", "err", err)
	}
}

func (s Service) handleApiData(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "ApiData")
	defer span.End()

	s.writeSnapshot(ctx, w, false)
}

func (s Service) handleApiRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "ApiRefresh")
	defer span.End()

	s.writeSnapshot(ctx, w, true)
}

func (s Service) handleDownloadCsv(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "DownloadCsv")
	defer span.End()

	snapshot, err := s.provider.GetData(ctx, false)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get school data")
		slog.ErrorContext(ctx, "failed to get school data", "err", err)
		status := http.StatusInternalServerError
		if errors.Is(err, schoolstats.ErrPipeline) {
			status = http.StatusServiceUnavailable
		}
		writeJson(w, status, errorResponse{Error: err.Error()})
		return
	}
	if len(snapshot.Records) == 0 {
		writeJson(w, http.StatusNotFound, errorResponse{Error: "沒有可用的資料"})
		return
	}

	filename := fmt.Sprintf("花蓮市吉安鄉國小資料_%s.csv", timezone.Now().Format("20060102"))
	span.SetAttributes(attribute.String("filename", filename))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(
		`attachment; filename="schools.csv"; filename*=UTF-8''%s`,
		url.PathEscape(filename),
	))
	err = schoolstats.WriteCSV(w, snapshot.Records)
	if err != nil {
		slog.WarnContext(ctx, "failed to write csv export", "err", err)
	}
}

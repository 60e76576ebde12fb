package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"edustats-backend/lib/configutil"
	"edustats-backend/lib/scrapers/edugis"
	"edustats-backend/lib/telemetry"
	"edustats-backend/lib/util/serviceutil"
	"edustats-backend/services/schoolstats"
	schooldb "edustats-backend/services/schoolstats/db"
	"edustats-backend/services/schoolstats/server"
)

func main() {
	ctx := serviceutil.SignalContext()

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	t, err := telemetry.SetupFromEnv(ctx, "schoolstats")
	if err != nil {
		slog.Warn("telemetry disabled", "err", err)
	} else {
		defer t.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)
	}

	districtCodes, err := config.districtCodes()
	if err != nil {
		serviceutil.Fatal("invalid district codes", err)
	}
	client, err := edugis.NewClient(edugis.ClientOptions{
		BaseUrl:       config.baseUrl(),
		CityCode:      config.CityCode,
		DistrictCodes: districtCodes,
		Timeout:       time.Duration(config.TimeoutSeconds) * time.Second,
		RetryCount:    config.RetryCount,
	})
	if err != nil {
		serviceutil.Fatal("failed to create portal client", err)
	}

	opts := schoolstats.Options{CacheTTL: config.cacheTtl()}
	if config.Database != nil {
		db, err := config.Database.OpenDB(schooldb.Schema)
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		opts.Store = schoolstats.NewStore(db)
	}
	if config.Smtp != nil {
		opts.Mailer = schoolstats.NewMailer(*config.Smtp)
	}
	service := schoolstats.NewService(client, opts)

	mux := http.NewServeMux()
	server.NewService(service).RegisterRoutes(mux)
	go serviceutil.StartHttpServer(config.port(), mux)

	<-ctx.Done()
}

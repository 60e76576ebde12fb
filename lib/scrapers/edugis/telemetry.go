package edugis

import (
	"edustats-backend/lib/telemetry"
)

var tracer = telemetry.Tracer("edustats.lib.scrapers.edugis")

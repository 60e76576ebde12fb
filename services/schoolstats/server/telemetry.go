package server

import "edustats-backend/lib/telemetry"

var tracer = telemetry.Tracer("edustats.services.schoolstats.server")

package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Session Routes
	RouteSessions   = "/api/sessions"
	RouteSession    = "/api/sessions/{id}"
	RouteSessionLog = "/api/sessions/{id}/log"

	// Tenant Routes
	RouteTenants = "/api/tenants"

	// Health
	RouteHealthz = "/healthz"
)

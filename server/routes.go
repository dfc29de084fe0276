package server

func (s *Server) initRoutes() {
	// Session API routes (admin API key required for mutations)
	s.RegisterRouteHandler("POST "+RouteSessions, ChainMiddleware(s.CreateSessionHandler(), s.APIMiddleware(s.RequireAPIKey())...))
	s.RegisterRouteHandler("DELETE "+RouteSession, ChainMiddleware(s.RemoveSessionHandler(), s.APIMiddleware(s.RequireAPIKey())...))

	// Inspection
	s.RegisterRouteHandler("GET "+RouteSessionLog, ChainMiddleware(s.SessionLogHandler(), s.APIMiddleware()...))

	// Tenant administration
	s.RegisterRouteHandler("POST "+RouteTenants, ChainMiddleware(s.UpsertTenantHandler(), s.APIMiddleware(s.RequireAPIKey())...))
	s.RegisterRouteHandler("GET "+RouteTenants, ChainMiddleware(s.ListTenantsHandler(), s.APIMiddleware()...))

	s.RegisterRouteFunc("GET "+RouteHealthz, s.HealthHandler())
}

package server

import (
	"net/http"

	"github.com/jrsteele09/go-token-service/users"
)

func (s *Server) initRoutes() {
	// Browser preflights never match the method-specific patterns below;
	// CorsMiddleware answers them.
	s.RegisterRouteHandler("OPTIONS /", ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, s.APIMiddleware()...))

	// AUTH
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware(s.RequireAuth())...))
	// Validate only requires the bearer to be present: it reports on bad
	// tokens rather than rejecting the request.
	s.RegisterRouteHandler("GET "+RouteAuthValidate, ChainMiddleware(s.ValidateHandler(), s.APIMiddleware(s.RequireBearer())...))

	// DATA (app-gated: User-Agent must be present)
	s.RegisterRouteHandler("GET "+RouteDataUserInfo, ChainMiddleware(s.UserInfoHandler(), s.DataMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteDataAdminData, ChainMiddleware(s.AdminDataHandler(), s.DataMiddleware(s.RequireAuth(), s.RequireRole(users.RoleAdmin))...))
	s.RegisterRouteHandler("GET "+RouteDataStats, ChainMiddleware(s.StatsHandler(), s.DataMiddleware(s.RequireAuth())...))

	// PUBLIC
	s.RegisterRouteHandler("GET "+RoutePublicInfo, ChainMiddleware(s.PublicInfoHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RoutePublicHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))
}

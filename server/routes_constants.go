package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteAuthLogin    = "/api/auth/login"
	RouteAuthLogout   = "/api/auth/logout"
	RouteAuthValidate = "/api/auth/validate"

	// Protected Data Routes
	RouteDataUserInfo  = "/api/data/user-info"
	RouteDataAdminData = "/api/data/admin-data"
	RouteDataStats     = "/api/data/stats"

	// Public Routes
	RoutePublicInfo   = "/api/public/info"
	RoutePublicHealth = "/api/public/health"
)

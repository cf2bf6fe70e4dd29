package presets

import (
	"net/http"

	"project-service/internal/domain/user"
	"project-service/internal/rbac"
)

const (
	PathHealth         = "/health"
	PathAuthLogin      = "/api/users/auth/login"
	PathAuthRegister   = "/api/users/auth/register"
	PathAuthTest       = "/api/users/auth/test"
	PathAuthMe         = "/api/users/auth/me"
	PathProfile        = "/api/users/profile"
	PathUsers          = "/api/users"
	PathUser           = "/api/users/:id"
	PathChangePassword = "/api/users/:id/change-password"
	PathPassword       = "/api/users/:id/password"
	PathProjects       = "/api/projects/**"
	PathAssignments    = "/api/projects/project-assignments/**"
	PathTasks          = "/api/auth/tasks/**"
	PathDebug          = "/debug/**"
	PathCatchAll       = "/**"
)

var (
	anyRole   = rbac.RequireRoles(user.RoleUser, user.RoleAdmin)
	adminOnly = rbac.RequireRoles(user.RoleAdmin)
)

// ProjectManagement returns the route policy for the project service.
func ProjectManagement() rbac.Config {
	return rbac.Config{
		Rules: []rbac.RouteRule{
			{Method: rbac.MethodAny, Pattern: PathAuthLogin, Access: rbac.Public()},
			{Method: rbac.MethodAny, Pattern: PathAuthRegister, Access: rbac.Public()},
			{Method: rbac.MethodAny, Pattern: PathAuthTest, Access: rbac.Public()},
			{Method: http.MethodGet, Pattern: PathHealth, Access: rbac.Public()},

			{Method: http.MethodGet, Pattern: PathAuthMe, Access: anyRole},
			{Method: http.MethodGet, Pattern: PathProfile, Access: anyRole},

			{Method: http.MethodGet, Pattern: PathUsers, Access: adminOnly},
			{Method: http.MethodPost, Pattern: PathUsers, Access: adminOnly},
			{Method: http.MethodGet, Pattern: PathUser, Access: adminOnly},
			{Method: http.MethodPut, Pattern: PathUser, Access: anyRole},
			{Method: http.MethodDelete, Pattern: PathUser, Access: adminOnly},
			{Method: http.MethodPut, Pattern: PathChangePassword, Access: anyRole},
			{Method: http.MethodPost, Pattern: PathChangePassword, Access: anyRole},
			{Method: http.MethodPut, Pattern: PathPassword, Access: anyRole},
			{Method: http.MethodPost, Pattern: PathPassword, Access: anyRole},

			{Method: http.MethodGet, Pattern: PathProjects, Access: anyRole},
			{Method: http.MethodPost, Pattern: PathProjects, Access: adminOnly},
			{Method: http.MethodPut, Pattern: PathProjects, Access: adminOnly},
			{Method: http.MethodDelete, Pattern: PathProjects, Access: adminOnly},
			{Method: http.MethodGet, Pattern: PathAssignments, Access: anyRole},
			{Method: http.MethodPost, Pattern: PathAssignments, Access: adminOnly},
			{Method: http.MethodDelete, Pattern: PathAssignments, Access: adminOnly},

			{Method: rbac.MethodAny, Pattern: PathTasks, Access: anyRole},
			{Method: rbac.MethodAny, Pattern: PathDebug, Access: adminOnly},
			{Method: rbac.MethodAny, Pattern: PathCatchAll, Access: anyRole},
		},
	}
}

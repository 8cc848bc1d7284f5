package middleware

import (
	"net/http"

	shopAuth "github.com/MrEthical07/shopAuth"
)

// RequireSeller is RequireRole(engine, shopAuth.RoleSeller).
func RequireSeller(engine *shopAuth.Engine) func(http.Handler) http.Handler {
	return RequireRole(engine, shopAuth.RoleSeller)
}

// RequireUser is RequireRole(engine, shopAuth.RoleUser).
func RequireUser(engine *shopAuth.Engine) func(http.Handler) http.Handler {
	return RequireRole(engine, shopAuth.RoleUser)
}

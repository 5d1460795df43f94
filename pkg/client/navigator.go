package client

import "strings"

// LoginRoute is where an expired session is sent.
const LoginRoute = "auth login"

// exemptRoutes never trigger a login redirect.
var exemptRoutes = []string{"auth login", "auth register", "auth logout"}

// Navigator moves the user to another route. The CLI implements it by
// printing a login hint; tests record the calls.
type Navigator interface {
	CurrentRoute() string
	Redirect(route string)
}

// IsAuthExempt reports whether route is one of the auth routes
func IsAuthExempt(route string) bool {
	route = strings.TrimSpace(route)
	for _, r := range exemptRoutes {
		if route == r || strings.HasSuffix(route, " "+r) {
			return true
		}
	}
	return false
}

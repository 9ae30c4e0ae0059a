package auth

import (
	"fmt"
	"net/http"
)

// UserAgent is sent on every request. The platform serves different (or no)
// content to clients that identify themselves as generic HTTP libraries, so
// this is a fixed desktop-browser string rather than a configurable value.
const UserAgent = "Mozilla/5.0 (Windows NT 6.1; WOW64) AppleWebKit/537.21 (KHTML, like Gecko) Mwendo/1.1.5 Safari/537.21"

// bearerHeader is the platform's own auth header. Some endpoints validate it
// instead of the standard Authorization header, so both always carry the same
// bearer value.
const bearerHeader = "x-udemy-authorization"

// Auth holds the opaque access token obtained from the platform login flow.
// The zero value is unauthenticated and only valid for operations that never
// call Apply.
type Auth struct {
	AccessToken string
}

func New(token string) Auth {
	return Auth{AccessToken: token}
}

// Apply sets the authenticated header set on req: the standard bearer
// Authorization header, the platform's secondary auth header and the fixed
// User-Agent. An empty token here is a bug in the caller, not a runtime
// condition; sending the request without the headers would silently change
// the server-side semantics, so Apply panics instead.
func (a Auth) Apply(req *http.Request) {
	if a.AccessToken == "" {
		panic("auth: access token missing for authenticated request")
	}
	bearer := fmt.Sprintf("Bearer %s", a.AccessToken)
	req.Header.Set("Authorization", bearer)
	req.Header.Set(bearerHeader, bearer)
	req.Header.Set("User-Agent", UserAgent)
}

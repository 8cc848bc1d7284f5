package shopAuth

import (
	"net/http"
	"strings"
	"time"
)

// Cookie names per role.
const (
	UserAccessCookie    = "access_token"
	UserRefreshCookie   = "refresh_token"
	SellerAccessCookie  = "seller-access-token"
	SellerRefreshCookie = "seller-refresh-token"
)

// CookiePolicy builds the Set-Cookie plan for session tokens and reads
// tokens back from requests. Obtain one from Engine.Cookies.
type CookiePolicy struct {
	secure     bool
	sameSite   http.SameSite
	domain     string
	path       string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func newCookiePolicy(cfg CookieConfig, accessTTL, refreshTTL time.Duration) CookiePolicy {
	path := cfg.Path
	if path == "" {
		path = "/"
	}
	return CookiePolicy{
		secure:     cfg.Secure,
		sameSite:   cfg.SameSite,
		domain:     cfg.Domain,
		path:       path,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// CookieNames returns the access and refresh cookie names for role.
func CookieNames(role Role) (access, refresh string) {
	if role == RoleSeller {
		return SellerAccessCookie, SellerRefreshCookie
	}
	return UserAccessCookie, UserRefreshCookie
}

func otherRole(role Role) Role {
	if role == RoleSeller {
		return RoleUser
	}
	return RoleSeller
}

func (p CookiePolicy) cookie(name, value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     p.path,
		Domain:   p.domain,
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: p.sameSite,
	}
	if ttl > 0 {
		c.MaxAge = int(ttl / time.Second)
		c.Expires = time.Now().Add(ttl)
	} else {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
	}
	return c
}

func (p CookiePolicy) expire(role Role) []*http.Cookie {
	access, refresh := CookieNames(role)
	return []*http.Cookie{
		p.cookie(access, "", 0),
		p.cookie(refresh, "", 0),
	}
}

// LoginCookies sets pair's cookies for its role and expires the other
// role's pair, so a browser holds at most one session.
func (p CookiePolicy) LoginCookies(pair *SessionPair) []*http.Cookie {
	if pair == nil || pair.Account == nil {
		return nil
	}
	role := pair.Account.AccountRole()
	access, refresh := CookieNames(role)

	out := []*http.Cookie{
		p.cookie(access, pair.AccessToken, p.accessTTL),
		p.cookie(refresh, pair.RefreshToken, p.refreshTTL),
	}
	return append(out, p.expire(otherRole(role))...)
}

// RefreshCookies sets only the new access cookie for role.
func (p CookiePolicy) RefreshCookies(role Role, accessToken string) []*http.Cookie {
	access, _ := CookieNames(role)
	return []*http.Cookie{p.cookie(access, accessToken, p.accessTTL)}
}

// LogoutCookies expires role's pair.
func (p CookiePolicy) LogoutCookies(role Role) []*http.Cookie {
	return p.expire(role)
}

// SetCookies writes cookies to w.
func SetCookies(w http.ResponseWriter, cookies []*http.Cookie) {
	for _, c := range cookies {
		http.SetCookie(w, c)
	}
}

// RefreshTokenFromRequest looks for a refresh cookie, buyer first, and
// reports the role whose cookie carried it. The Authorization header is
// never consulted.
func (p CookiePolicy) RefreshTokenFromRequest(r *http.Request) (string, Role, bool) {
	for _, role := range [...]Role{RoleUser, RoleSeller} {
		_, name := CookieNames(role)
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return c.Value, role, true
		}
	}
	return "", "", false
}

// AccessTokenFromRequest returns the access token from a role cookie
// (buyer first), falling back to "Authorization: Bearer".
func (p CookiePolicy) AccessTokenFromRequest(r *http.Request) string {
	for _, name := range [...]string{UserAccessCookie, SellerAccessCookie} {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return c.Value
		}
	}

	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

package authtransport

import (
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/laxuman02230135/task-management/authsvc"
	"github.com/laxuman02230135/task-management/authsvc/pkg/authservice"
)

// CookieCodec seals the session token into the authsvc.CookieName cookie.
type CookieCodec struct {
	sc     *securecookie.SecureCookie
	secure bool
}

func NewCookieCodec(hashKey, blockKey []byte, ttl time.Duration, secure bool) *CookieCodec {
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(ttl.Seconds()))
	return &CookieCodec{sc: sc, secure: secure}
}

func (c *CookieCodec) SetCookie(w http.ResponseWriter, cred authservice.Credential) error {
	value, err := c.sc.Encode(authsvc.CookieName, cred.Token)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authsvc.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  cred.ExpiresAt,
		MaxAge:   int(time.Until(cred.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (c *CookieCodec) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authsvc.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Credential returns the token sealed in r's session cookie. A missing
// cookie and one that fails to decode both yield "".
func (c *CookieCodec) Credential(r *http.Request) string {
	cookie, err := r.Cookie(authsvc.CookieName)
	if err != nil {
		return ""
	}

	var token string
	if err := c.sc.Decode(authsvc.CookieName, cookie.Value, &token); err != nil {
		return ""
	}
	return token
}

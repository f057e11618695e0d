// Package cookie reads and writes the cookies the web server relies on.
package cookie

import (
	"net/http"
	"time"
)

const (
	SessionName = "session"
	StateName   = "oauth_state"
	FlashName   = "flash"

	stateTTL = 10 * time.Minute
)

// Jar sets HttpOnly, SameSite=Lax cookies scoped to the whole site.
type Jar struct {
	secure bool
	now    func() time.Time
}

// NewJar creates a Jar. Secure cookies are only sent back over HTTPS.
func NewJar(secure bool) *Jar {
	return &Jar{secure: secure, now: time.Now}
}

func (j *Jar) set(w http.ResponseWriter, name, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   j.secure,
		Expires:  expires,
	})
}

func (j *Jar) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   j.secure,
		MaxAge:   -1,
	})
}

func read(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// SetSession stores the signed session token until expiresAt.
func (j *Jar) SetSession(w http.ResponseWriter, token string, expiresAt time.Time) {
	j.set(w, SessionName, token, expiresAt)
}

func (j *Jar) ClearSession(w http.ResponseWriter) {
	j.clear(w, SessionName)
}

func (j *Jar) Session(r *http.Request) string {
	return read(r, SessionName)
}

// SetState stores the signed OAuth state token for the duration of a sign-in.
func (j *Jar) SetState(w http.ResponseWriter, token string) {
	j.set(w, StateName, token, j.now().Add(stateTTL))
}

func (j *Jar) ClearState(w http.ResponseWriter) {
	j.clear(w, StateName)
}

func (j *Jar) State(r *http.Request) string {
	return read(r, StateName)
}

// SetFlash stores a message key shown once on the next rendered page.
func (j *Jar) SetFlash(w http.ResponseWriter, key string) {
	http.SetCookie(w, &http.Cookie{
		Name:     FlashName,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   j.secure,
	})
}

// PopFlash returns the pending flash key and clears it.
func (j *Jar) PopFlash(w http.ResponseWriter, r *http.Request) string {
	key := read(r, FlashName)
	if key != "" {
		j.clear(w, FlashName)
	}
	return key
}

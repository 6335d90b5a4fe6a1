package web

import "net/http"

const noticeCookie = "marklinks_notice"

// notice identifies a one-shot message shown on the page a redirect lands
// on. Only the identifier travels in the cookie, so a forged cookie can
// select a known message but never inject text.
type notice string

const (
	noticeLinkSaved      notice = "link-saved"
	noticeLinkSaveFailed notice = "link-save-failed"
)

var notices = map[notice]struct {
	text  string
	isErr bool
}{
	noticeLinkSaved:      {"Link saved", false},
	noticeLinkSaveFailed: {"Failed to save link", true},
}

func setNotice(w http.ResponseWriter, n notice) {
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookie,
		Value:    string(n),
		Path:     "/",
		MaxAge:   5,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popNotice returns the pending notice, if any, and expires its cookie.
func popNotice(w http.ResponseWriter, r *http.Request) (notice, bool) {
	cookie, err := r.Cookie(noticeCookie)
	if err != nil {
		return "", false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	n := notice(cookie.Value)
	if _, ok := notices[n]; !ok {
		return "", false
	}
	return n, true
}

// apply fills the page's success or error slot unless the handler already
// set one.
func (n notice) apply(data *PageData) {
	msg, ok := notices[n]
	if !ok {
		return
	}
	if msg.isErr {
		if data.Error == "" {
			data.Error = msg.text
		}
		return
	}
	if data.Success == "" {
		data.Success = msg.text
	}
}

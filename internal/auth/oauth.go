// ABOUTME: OAuth 2.0 stub endpoints: consent page and token issuance.
// ABOUTME: Placeholder flow only; issued tokens are recorded, never enforced.

package auth

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
)

// consentPage is the static authorization form. Query values are rendered
// through html/template so hostile client_id or redirect_uri strings cannot
// inject markup.
const consentPage = `<!DOCTYPE html>
<html>
<head><title>Authorize Access</title></head>
<body>
  <h1>Authorize {{.ClientID}}</h1>
  <p>The application above is requesting access to this MCP server.</p>
  <form method="post" action="{{.RedirectURI}}">
    <input type="hidden" name="state" value="{{.State}}">
    <button type="submit">Approve</button>
  </form>
</body>
</html>
`

var consentTemplate = template.Must(template.New("consent").Parse(consentPage))

// OAuth serves the stub authorization flow for the streamable HTTP
// transport. It is not an authorization server: the consent page performs
// no authentication and issued tokens are never checked on requests.
type OAuth struct {
	store  *TokenStore
	logger *slog.Logger
}

// NewOAuth creates the stub with a fresh token store.
func NewOAuth(logger *slog.Logger) *OAuth {
	return &OAuth{
		store:  NewTokenStore(),
		logger: logger.With("component", "oauth"),
	}
}

// Store exposes the issued-token store.
func (o *OAuth) Store() *TokenStore {
	return o.store
}

// Mount registers the stub endpoints on a mux.
func (o *OAuth) Mount(mux *http.ServeMux) {
	mux.HandleFunc("/oauth/authorize", o.handleAuthorize)
	mux.HandleFunc("/oauth/token", o.handleToken)
}

// handleAuthorize renders the consent form with client_id, redirect_uri,
// and state taken from the query string.
func (o *OAuth) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	data := struct {
		ClientID    string
		RedirectURI string
		State       string
	}{
		ClientID:    q.Get("client_id"),
		RedirectURI: q.Get("redirect_uri"),
		State:       q.Get("state"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := consentTemplate.Execute(w, data); err != nil {
		o.logger.Error("consent page render failed", "error", err)
	}
}

// handleToken issues a bearer token for the authorization_code grant and
// rejects every other grant type.
func (o *OAuth) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	if grant := r.FormValue("grant_type"); grant != "authorization_code" {
		o.logger.Debug("token request rejected", "grant_type", grant)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "unsupported_grant_type"})
		return
	}

	tok := o.store.Issue(r.FormValue("client_id"))
	o.logger.Info("bearer token issued", "client_id", tok.ClientID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"access_token": tok.Token,
		"token_type":   "Bearer",
		"expires_in":   tok.ExpiresIn,
	})
}

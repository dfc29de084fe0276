package tenants

// Tenant represents an operator brand embedding games through the gateway.
// Tenants carry the per-brand defaults a session inherits when its config
// omits them, and the protocol-strictness knobs that drifted between
// integration versions.
type Tenant struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Domain      string `json:"domain"`
	CallbackURL string `json:"callback_url"` // Default result-callback endpoint for this tenant's sessions

	DefaultLocale   string `json:"default_locale"`
	DefaultCurrency string `json:"default_currency"`

	// RequireCallbackURL enables the newer protocol variant where a session
	// without a callback URL is rejected at creation time.
	RequireCallbackURL bool `json:"require_callback_url"`
}

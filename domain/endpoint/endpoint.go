// Package endpoint models the remote text-generation services the app can
// dispatch prompts to. Endpoints are process-wide configuration, not scoped
// to any task.
package endpoint

// Endpoint is one configured completion service. At most one endpoint is
// active across the whole configuration.
type Endpoint struct {
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
	Active  bool   `json:"active"`
}

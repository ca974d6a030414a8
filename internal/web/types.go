package web

import "github.com/roach88/hvprm/internal/removal"

// RemoveLibraryRequest is the query string of GET /remove_library.
type RemoveLibraryRequest struct {
	// ID selects the library by id. Takes precedence over Title/Version.
	ID int64 `form:"id"`

	// Title and Version select the library together.
	Title   string `form:"title"`
	Version string `form:"version"`

	// Run commits changes. Without it the request is a preview.
	Run bool `form:"run"`

	// Force proceeds past dependents and activity deletion failures.
	Force bool `form:"force"`

	// Help returns the usage text.
	Help bool `form:"help"`
}

// identity returns the library selector carried by the request.
func (r RemoveLibraryRequest) identity() removal.Identity {
	return removal.Identity{ID: r.ID, Title: r.Title, Version: r.Version}
}

// RemoveLibraryResponse is the outcome of one removal request.
type RemoveLibraryResponse struct {
	RunID    string        `json:"run_id"`
	Messages []string      `json:"messages"`
	Success  bool          `json:"success"`
	State    removal.State `json:"state"`
	Plan     *removal.Plan `json:"plan,omitempty"`

	// Error and Code are set when Err is set on the workflow result.
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// UsageResponse is returned for help requests and requests with no identity.
type UsageResponse struct {
	Usage string `json:"usage"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is returned when the request cannot be processed at all.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is the error code (optional).
	Code string `json:"code,omitempty"`
}

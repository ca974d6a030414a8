package web

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/roach88/hvprm/internal/ir"
	"github.com/roach88/hvprm/internal/removal"
)

// Usage is the help text served for help requests.
const Usage = `Remove an installed content library together with the activities using it.

Parameters:
  id=<id>             Library id. Takes precedence over title and version.
  title=<title>       Library title. Requires version.
  version=<version>   Library version as major.minor.patch, e.g. 2.4.1.
  run=true            Commit changes. Without it nothing is modified.
  force=true          Delete the library even if other libraries depend on
                      it or some activities could not be deleted.
  help=true           Print this help.

Examples:
  /remove_library?id=12
  /remove_library?title=Interactive%20Video&version=1.21.3&run=true`

// Handlers serves the removal endpoints over a store.
type Handlers struct {
	store  removal.Store
	runIDs removal.RunIDGenerator
}

// NewHandlers creates handlers over st. Run ids are UUIDv7.
func NewHandlers(st removal.Store) *Handlers {
	return &Handlers{store: st}
}

// WithRunIDs overrides the run id generator (for testing).
func (h *Handlers) WithRunIDs(g removal.RunIDGenerator) *Handlers {
	h.runIDs = g
	return h
}

// HandleRemoveLibrary handles GET /remove_library.
//
// Without run=true the response previews what would be deleted. Requests
// with help=true or without any identity parameter get the usage text.
//
// Response:
//
//	200 OK: RemoveLibraryResponse (success) or UsageResponse
//	400 Bad Request: malformed parameters, bad version, ambiguous identity
//	404 Not Found: no library matches
//	409 Conflict: other libraries depend on the library
//	500 Internal Server Error: activity or library deletion failed
func (h *Handlers) HandleRemoveLibrary(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleRemoveLibrary")

	var req RemoveLibraryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Invalid query parameters", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid query parameters: " + err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	id := req.identity()
	if req.Help || id.IsEmpty() {
		c.JSON(http.StatusOK, UsageResponse{Usage: Usage})
		return
	}

	logger.Info("Removing library", "identity", id.String(), "run", req.Run, "force", req.Force)

	wf := removal.NewWorkflow(h.store, removal.WebWording, h.runIDs).WithLogger(logger)
	res := wf.Execute(c.Request.Context(), id, removal.Options{Run: req.Run, Force: req.Force})

	resp := RemoveLibraryResponse{
		RunID:    res.RunID,
		Messages: res.Messages,
		Success:  res.Success,
		State:    res.State,
		Plan:     res.Plan,
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
		resp.Code = string(removal.CodeOf(res.Err))
	}

	c.JSON(statusFor(res), resp)
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: ir.AppVersion,
	})
}

// statusFor maps a workflow result to an HTTP status.
func statusFor(res *removal.Result) int {
	if res.Success {
		return http.StatusOK
	}

	switch removal.CodeOf(res.Err) {
	case removal.CodeNoIdentityProvided, removal.CodeInvalidVersionFormat, removal.CodeAmbiguousLibrary:
		return http.StatusBadRequest
	case removal.CodeLibraryNotFound:
		return http.StatusNotFound
	case removal.CodeDependencyConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// getOrCreateRequestID returns the X-Request-ID header, generating one if
// absent, and echoes it on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}

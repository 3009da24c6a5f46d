// Package mcp exposes the learner's ledgers as Model Context Protocol tools.
package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/bobmcallan/paisa-buddy/internal/auth"
	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/config"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	sessions   *auth.Sessions
	logger     *common.Logger
	tools      int
}

// NewHandler creates a new MCP handler with every tool registered.
func NewHandler(deps Deps, sessions *auth.Sessions, logger *common.Logger) *Handler {
	mcpSrv := mcpserver.NewMCPServer(
		"paisa-buddy",
		config.Version,
		mcpserver.WithToolCapabilities(true),
	)

	count := RegisterTools(mcpSrv, deps)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().Int("tools", count).Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		sessions:   sessions,
		logger:     logger,
		tools:      count,
	}
}

// Tools reports how many tools are registered.
func (h *Handler) Tools() int { return h.tools }

// ServeHTTP resolves the acting user from the bearer token or session
// cookie and delegates to the StreamableHTTPServer. Without a user it
// answers 401 with a WWW-Authenticate challenge.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	uid, _ := h.sessions.Resolve(r)
	if uid == "" {
		host := sanitizeHost(r.Host)
		w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Bearer realm="%s"`, host))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{
			"error":             "unauthorized",
			"error_description": "Authentication required to access MCP endpoint",
		})
		return
	}

	h.streamable.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), uid)))
}

// sanitizeHost strips CR, LF and quotes so the host cannot break out of the header value.
func sanitizeHost(host string) string {
	host = strings.ReplaceAll(host, "\r", "")
	host = strings.ReplaceAll(host, "\n", "")
	host = strings.ReplaceAll(host, `"`, "")
	return host
}

package transport

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hartwell-build/siteline/internal/api"
)

// APIHandler handles dashboard JSON-RPC method dispatch.
type APIHandler interface {
	Handle(ctx context.Context, tenantID, method string, params json.RawMessage) (any, error)
}

// Server wires HTTP handlers.
type Server struct {
	handler APIHandler
}

// NewServer creates the HTTP router: /rpc for the dashboard JSON-RPC API,
// /mcp for the streamable MCP transport, /health unauthenticated.
func NewServer(apiHandler APIHandler, mcpHandler http.Handler, authMiddleware func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	srv := &Server{handler: apiHandler}
	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		r.Use(SessionMiddleware)

		r.Post("/rpc", srv.handleRPC)
		if mcpHandler != nil {
			r.Handle("/mcp", mcpHandler)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		WriteError(w, nil, ErrInvalidReq, "invalid request", nil)
		return
	}

	tenantID, ok := TenantFromContext(r.Context())
	if !ok || tenantID == "" {
		http.Error(w, "missing tenant", http.StatusUnauthorized)
		return
	}

	result, err := s.handler.Handle(r.Context(), tenantID, req.Method, req.Params)
	if err != nil {
		apiErr := api.MapError(err)
		WriteError(w, req.ID, apiErr.Code, apiErr.Message, apiErr.Data)
		return
	}

	WriteResult(w, req.ID, result)
}

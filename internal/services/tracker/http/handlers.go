// Package http provides http transport for the tracker
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"guia/internal/platform/logger"
	pnet "guia/internal/platform/net"
	nethttp "guia/internal/platform/net/http"
	"guia/internal/services/tracker/domain"
	svc "guia/internal/services/tracker/service"
)

// Register mounts the tracker routes
func Register(r nethttp.Router, s svc.Service) {
	h := &handlers{svc: s}

	r.Post("/sessions", nethttp.JSONHandlerNoBody(h.createSession))

	r.Route("/sessions/{id}", func(r nethttp.Router) {
		r.Use(sessionCtx)

		r.Delete("/", nethttp.JSONHandlerNoBody(h.deleteSession))

		nethttp.PostJSON[domain.PositionInput](r, "/positions", h.position)
		nethttp.PostJSON[domain.AddressInput](r, "/addresses", h.address)

		nethttp.GetJSON(r, "/address", h.addressState)
		nethttp.GetJSON(r, "/changes", h.changes)
		nethttp.GetJSON(r, "/queue", h.queue)
	})
}

// sessionCtx stamps the routed session id onto the request context so log
// lines below this point carry it
func sessionCtx(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		id := chi.URLParam(r, "id")
		ctx := pnet.WithRequest(r.Context(), "", id)
		ctx = logger.WithRequest(ctx, pnet.RequestID(ctx), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type handlers struct{ svc svc.Service }

func sessionID(r *stdhttp.Request) string { return chi.URLParam(r, "id") }

// immediate selects the bypass path on update requests
func immediate(r *stdhttp.Request) bool {
	return r.URL.Query().Get("immediate") == "true"
}

func (h *handlers) createSession(r *stdhttp.Request) (any, error) {
	return h.svc.CreateSession(r.Context())
}

func (h *handlers) deleteSession(r *stdhttp.Request) (any, error) {
	if err := h.svc.DeleteSession(r.Context(), sessionID(r)); err != nil {
		return nil, err
	}
	return map[string]string{"deleted": sessionID(r)}, nil
}

func (h *handlers) position(r *stdhttp.Request, in domain.PositionInput) (any, error) {
	logger.C(r.Context()).Debug().
		Float64("lat", in.Latitude).Float64("lon", in.Longitude).Bool("immediate", immediate(r)).
		Msg("position update")
	return h.svc.ProcessPosition(r.Context(), sessionID(r), in, immediate(r))
}

func (h *handlers) address(r *stdhttp.Request, in domain.AddressInput) (any, error) {
	logger.C(r.Context()).Debug().Bool("immediate", immediate(r)).Msg("address update")
	return h.svc.ProcessAddress(r.Context(), sessionID(r), in, immediate(r))
}

func (h *handlers) addressState(r *stdhttp.Request) (any, error) {
	return h.svc.AddressState(r.Context(), sessionID(r))
}

func (h *handlers) changes(r *stdhttp.Request) (any, error) {
	return h.svc.Changes(r.Context(), sessionID(r))
}

func (h *handlers) queue(r *stdhttp.Request) (any, error) {
	return h.svc.Queue(r.Context(), sessionID(r))
}

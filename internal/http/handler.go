package httpapp

import (
	"context"
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ratemymusic/rmm-api/internal/app"
	"github.com/ratemymusic/rmm-api/internal/domain"
	"github.com/ratemymusic/rmm-api/internal/http/dto"
	"github.com/ratemymusic/rmm-api/internal/logger"
	"github.com/ratemymusic/rmm-api/internal/ratelimit"
)

type Handler struct {
	Services *app.Services
	Limiter  *ratelimit.Limiter
	Logger   *logger.Logger
	// TrustedProxies may set the client address through forwarding headers.
	TrustedProxies []netip.Prefix
}

func NewHandler(services *app.Services, limiter *ratelimit.Limiter, log *logger.Logger) *Handler {
	return &Handler{
		Services: services,
		Limiter:  limiter,
		Logger:   log.WithComponent("http"),
	}
}

// NewRouter returns the API with its middleware stack applied.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(h.realIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	r.Group(func(r chi.Router) {
		r.Use(h.rateLimit)
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)

		r.Route("/artists", func(r chi.Router) {
			r.Get("/", h.ListArtists)
			r.Post("/", h.CreateArtist)
			r.Get("/{id}", h.GetArtist)
			r.Put("/{id}", h.UpdateArtist)
			r.Delete("/{id}", h.DeleteArtist)
		})

		r.Get("/genres", h.ListGenres)

		r.Route("/songs", func(r chi.Router) {
			r.Get("/", h.ListSongs)
			r.Post("/", h.CreateSong)
			r.Get("/{id}", h.GetSong)
			r.Put("/{id}", h.UpdateSong)
			r.Delete("/{id}", h.DeleteSong)
		})

		r.Route("/lists", func(r chi.Router) {
			r.Get("/", h.ListLists)
			r.Post("/", h.CreateList)
			r.Get("/{id}", h.GetList)
			r.Put("/{id}", h.UpdateList)
			r.Delete("/{id}", h.DeleteList)
			r.Post("/{id}/favorite", h.FavoriteList)
			r.Delete("/{id}/favorite", h.UnfavoriteList)
		})

		r.Route("/ratings", func(r chi.Router) {
			r.Get("/", h.ListRatings)
			r.Post("/", h.CreateRating)
			r.Get("/{id}", h.GetRating)
			r.Put("/{id}", h.UpdateRating)
			r.Delete("/{id}", h.DeleteRating)
		})

		r.Get("/raters", h.CurrentRater)
		r.Get("/raters/{id}", h.GetRater)
		r.Get("/search", h.Search)
		r.Get("/stats", h.Stats)
	})
}

type authorizer func(ctx context.Context, caller *domain.RaterProfile, id int64, action app.Action) error

// decodeCreate checks that the body carries every required key, then decodes
// it into dst. It writes the error response and returns false on failure.
func (h *Handler) decodeCreate(w http.ResponseWriter, r *http.Request, required []string, dst interface{}) bool {
	body, err := readBody(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return false
	}
	return h.decodeBody(w, r, body, required, dst)
}

// decodeUpdate runs the checks shared by PUT handlers in order: the target
// must exist, caller must be its creator, and the body must carry every
// required key.
func (h *Handler) decodeUpdate(w http.ResponseWriter, r *http.Request, resource string, authorize authorizer, required []string, dst interface{}) (int64, bool) {
	id, ok := h.pathID(w, r, resource)
	if !ok {
		return 0, false
	}
	if err := authorize(r.Context(), RaterFromContext(r.Context()), id, app.ActionUpdate); err != nil {
		h.writeError(w, r, err)
		return 0, false
	}
	body, err := readBody(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return 0, false
	}
	return id, h.decodeBody(w, r, body, required, dst)
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, body dto.Body, required []string, dst interface{}) bool {
	if missing := dto.MissingKeys(body, required); len(missing) > 0 {
		writeMessage(w, http.StatusBadRequest, dto.MissingKeysMessage(missing))
		return false
	}
	if err := body.Decode(dst); err != nil {
		h.writeError(w, r, err)
		return false
	}
	return true
}

// deleteByID handles DELETE /{id} for a resource.
func (h *Handler) deleteByID(w http.ResponseWriter, r *http.Request, resource string, del func(ctx context.Context, caller *domain.RaterProfile, id int64) error) {
	id, ok := h.pathID(w, r, resource)
	if !ok {
		return
	}
	if err := del(r.Context(), RaterFromContext(r.Context()), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeNoContent(w)
}

package httpapp

import (
	"net/http"

	"github.com/ratemymusic/rmm-api/internal/app"
	"github.com/ratemymusic/rmm-api/internal/http/dto"
)

var registerRequiredKeys = []string{"username", "email", "password", "first_name", "last_name", "bio"}

var loginRequiredKeys = []string{"username", "password"}

// firstMissing returns the first required key absent from body, or "".
func firstMissing(body dto.Body, required []string) string {
	if missing := dto.MissingKeys(body, required); len(missing) > 0 {
		return missing[0]
	}
	return ""
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if field := firstMissing(body, registerRequiredKeys); field != "" {
		writeMessage(w, http.StatusBadRequest, dto.MissingFieldMessage(field))
		return
	}
	var in app.RegisterInput
	if err := body.Decode(&in); err != nil {
		h.writeError(w, r, err)
		return
	}

	token, err := h.Services.Auth.Register(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TokenResponse{Token: token})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if field := firstMissing(body, loginRequiredKeys); field != "" {
		writeMessage(w, http.StatusBadRequest, dto.MissingFieldMessage(field))
		return
	}
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := body.Decode(&in); err != nil {
		h.writeError(w, r, err)
		return
	}

	token, ok, err := h.Services.Auth.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.LoginResponse{Valid: false})
		return
	}
	writeJSON(w, http.StatusOK, dto.LoginResponse{Valid: true, Token: token})
}

func (h *Handler) ListGenres(w http.ResponseWriter, r *http.Request) {
	q := dto.NewQuery(r.URL.Query())
	page, pageSize := q.Paging()
	if err := q.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}

	genres, count, err := h.Services.Genres.List(r.Context(), q.String("q"), app.Paging{Page: page, PageSize: pageSize})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Paged[dto.GenreResponse]{Data: dto.NewGenreResponses(genres), Count: count})
}

// CurrentRater returns the authenticated caller.
func (h *Handler) CurrentRater(w http.ResponseWriter, r *http.Request) {
	rater, err := h.Services.Raters.Get(r.Context(), RaterFromContext(r.Context()).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewRaterResponse(rater))
}

func (h *Handler) GetRater(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "rater")
	if !ok {
		return
	}
	rater, err := h.Services.Raters.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewRaterResponse(rater))
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	res, err := h.Services.Search.Search(r.Context(), RaterFromContext(r.Context()), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewSearchResponse(res.Artists, res.Songs, res.Lists))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Services.Stats.Get(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewStatsResponse(stats))
}

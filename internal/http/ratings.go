package httpapp

import (
	"net/http"

	"github.com/ratemymusic/rmm-api/internal/app"
	"github.com/ratemymusic/rmm-api/internal/http/dto"
)

var ratingRequiredKeys = []string{"rating", "review", "song_id"}

func (h *Handler) ListRatings(w http.ResponseWriter, r *http.Request) {
	q := dto.NewQuery(r.URL.Query())
	query := app.RatingQuery{
		UserID:  q.ID("userId"),
		SongID:  q.ID("songId"),
		OrderBy: q.String("orderBy"),
		Desc:    q.Desc(),
	}
	if err := q.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}

	ratings, err := h.Services.Ratings.List(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewRatingResponses(ratings))
}

func (h *Handler) CreateRating(w http.ResponseWriter, r *http.Request) {
	var in app.RatingInput
	if !h.decodeCreate(w, r, ratingRequiredKeys, &in) {
		return
	}
	rating, err := h.Services.Ratings.Create(r.Context(), RaterFromContext(r.Context()), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewRatingResponse(rating))
}

func (h *Handler) GetRating(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "rating")
	if !ok {
		return
	}
	rating, err := h.Services.Ratings.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewRatingResponse(rating))
}

func (h *Handler) UpdateRating(w http.ResponseWriter, r *http.Request) {
	var in app.RatingInput
	id, ok := h.decodeUpdate(w, r, "rating", h.Services.Ratings.Authorize, ratingRequiredKeys, &in)
	if !ok {
		return
	}
	rating, err := h.Services.Ratings.Update(r.Context(), RaterFromContext(r.Context()), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewRatingResponse(rating))
}

func (h *Handler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "rating", h.Services.Ratings.Delete)
}

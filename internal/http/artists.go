package httpapp

import (
	"net/http"

	"github.com/ratemymusic/rmm-api/internal/app"
	"github.com/ratemymusic/rmm-api/internal/http/dto"
)

var artistRequiredKeys = []string{"name", "description", "founded_year"}

func (h *Handler) ListArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := h.Services.Artists.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewArtistResponses(artists))
}

func (h *Handler) CreateArtist(w http.ResponseWriter, r *http.Request) {
	var in app.ArtistInput
	if !h.decodeCreate(w, r, artistRequiredKeys, &in) {
		return
	}
	artist, err := h.Services.Artists.Create(r.Context(), RaterFromContext(r.Context()), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewArtistResponse(artist))
}

func (h *Handler) GetArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "artist")
	if !ok {
		return
	}
	artist, err := h.Services.Artists.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewArtistResponse(artist))
}

func (h *Handler) UpdateArtist(w http.ResponseWriter, r *http.Request) {
	var in app.ArtistInput
	id, ok := h.decodeUpdate(w, r, "artist", h.Services.Artists.Authorize, artistRequiredKeys, &in)
	if !ok {
		return
	}
	artist, err := h.Services.Artists.Update(r.Context(), RaterFromContext(r.Context()), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewArtistResponse(artist))
}

func (h *Handler) DeleteArtist(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "artist", h.Services.Artists.Delete)
}

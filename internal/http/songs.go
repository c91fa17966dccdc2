package httpapp

import (
	"net/http"

	"github.com/ratemymusic/rmm-api/internal/app"
	"github.com/ratemymusic/rmm-api/internal/http/dto"
)

var songRequiredKeys = []string{"name", "year", "artist_id", "genre_ids", "sources"}

// ListSongs serves GET /songs. Filters combine; the count ignores paging.
func (h *Handler) ListSongs(w http.ResponseWriter, r *http.Request) {
	q := dto.NewQuery(r.URL.Query())
	query := app.SongQuery{
		StartYear: q.Int("startYear"),
		EndYear:   q.Int("endYear"),
		GenreIDs:  q.IDList("genres"),
		ArtistID:  q.ID("artist"),
		Q:         q.String("q"),
		OrderBy:   q.String("orderBy"),
		Desc:      q.Desc(),
	}
	query.Paging.Page, query.Paging.PageSize = q.Paging()
	if err := q.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}

	songs, count, err := h.Services.Songs.List(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Paged[dto.SongResponse]{Data: dto.NewSongResponses(songs), Count: count})
}

func (h *Handler) CreateSong(w http.ResponseWriter, r *http.Request) {
	var in app.SongInput
	if !h.decodeCreate(w, r, songRequiredKeys, &in) {
		return
	}
	song, err := h.Services.Songs.Create(r.Context(), RaterFromContext(r.Context()), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewSongResponse(song))
}

func (h *Handler) GetSong(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "song")
	if !ok {
		return
	}
	song, err := h.Services.Songs.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewSongResponse(song))
}

func (h *Handler) UpdateSong(w http.ResponseWriter, r *http.Request) {
	var in app.SongInput
	id, ok := h.decodeUpdate(w, r, "song", h.Services.Songs.Authorize, songRequiredKeys, &in)
	if !ok {
		return
	}
	song, err := h.Services.Songs.Update(r.Context(), RaterFromContext(r.Context()), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewSongResponse(song))
}

func (h *Handler) DeleteSong(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "song", h.Services.Songs.Delete)
}

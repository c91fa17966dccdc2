package httpapp

import (
	"net/http"

	"github.com/ratemymusic/rmm-api/internal/app"
	"github.com/ratemymusic/rmm-api/internal/http/dto"
)

var listRequiredKeys = []string{"name", "description", "songs"}

func (h *Handler) ListLists(w http.ResponseWriter, r *http.Request) {
	q := dto.NewQuery(r.URL.Query())
	query := app.ListQuery{
		SongID:      q.ID("songId"),
		UserID:      q.ID("userId"),
		FavoritedBy: q.ID("favoritedBy"),
	}
	query.Paging.Page, query.Paging.PageSize = q.Paging()
	if err := q.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}

	lists, count, err := h.Services.Lists.List(r.Context(), RaterFromContext(r.Context()), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Paged[dto.ListResponse]{Data: dto.NewListResponses(lists), Count: count})
}

func (h *Handler) CreateList(w http.ResponseWriter, r *http.Request) {
	var in app.ListInput
	if !h.decodeCreate(w, r, listRequiredKeys, &in) {
		return
	}
	list, err := h.Services.Lists.Create(r.Context(), RaterFromContext(r.Context()), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewListResponse(list))
}

func (h *Handler) GetList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "list")
	if !ok {
		return
	}
	list, err := h.Services.Lists.Get(r.Context(), RaterFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewListResponse(list))
}

func (h *Handler) UpdateList(w http.ResponseWriter, r *http.Request) {
	var in app.ListInput
	id, ok := h.decodeUpdate(w, r, "list", h.Services.Lists.Authorize, listRequiredKeys, &in)
	if !ok {
		return
	}
	list, err := h.Services.Lists.Update(r.Context(), RaterFromContext(r.Context()), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewListResponse(list))
}

func (h *Handler) DeleteList(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "list", h.Services.Lists.Delete)
}

func (h *Handler) FavoriteList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "list")
	if !ok {
		return
	}
	if err := h.Services.Lists.Favorite(r.Context(), RaterFromContext(r.Context()), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeNoContent(w)
}

func (h *Handler) UnfavoriteList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "list")
	if !ok {
		return
	}
	if err := h.Services.Lists.Unfavorite(r.Context(), RaterFromContext(r.Context()), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeNoContent(w)
}

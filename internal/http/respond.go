package httpapp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ratemymusic/rmm-api/internal/app"
	"github.com/ratemymusic/rmm-api/internal/http/dto"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Message: message})
}

func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// writeError maps a service error onto a status code. Errors without a client
// message are logged and reported as a generic server error.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var bodyErr *dto.BodyError
	var queryErr *dto.ValidationError
	switch {
	case errors.As(err, &bodyErr), errors.As(err, &queryErr):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrInvalid):
		writeMessage(w, http.StatusBadRequest, app.Message(err, "Bad request."))
	case errors.Is(err, app.ErrNotFound):
		writeMessage(w, http.StatusNotFound, app.Message(err, "Not found."))
	case errors.Is(err, app.ErrForbidden):
		writeMessage(w, http.StatusForbidden, app.Message(err, "Forbidden."))
	case errors.Is(err, app.ErrUnauthorized):
		w.Header().Set("WWW-Authenticate", "Token")
		writeMessage(w, http.StatusUnauthorized, app.Message(err, "Unauthorized."))
	default:
		h.Logger.WithRequest(middleware.GetReqID(r.Context())).Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeMessage(w, http.StatusInternalServerError, "Internal server error.")
	}
}

// readBody reads the request body as a JSON object.
func readBody(w http.ResponseWriter, r *http.Request) (dto.Body, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &dto.BodyError{Message: "Request body is too large."}
		}
		return nil, err
	}
	return dto.ParseBody(data)
}

// pathID reads the {id} route parameter. An id that cannot exist is reported
// as the resource not being found.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, resource string) (int64, bool) {
	id, ok := dto.ParseID(chi.URLParam(r, "id"))
	if !ok {
		writeMessage(w, http.StatusNotFound, "No "+resource+" was found with that ID.")
		return 0, false
	}
	return id, true
}

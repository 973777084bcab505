package webserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pytouch377/online-music-website/src/covers"
	"github.com/pytouch377/online-music-website/src/library"
)

// ReplaceCoverHandler re-rolls the automatically selected cover of a
// song. The album of the current cover is excluded from the search so
// that repeated requests cycle through different covers. The fallback
// provider is enabled which means the search always finds something as
// long as at least one provider is reachable.
type ReplaceCoverHandler struct {
	library library.Library
	finder  covers.Finder
}

// NewReplaceCoverHandler returns a handler for the
// POST /v1/songs/{songID}/cover endpoint.
func NewReplaceCoverHandler(lib library.Library, finder covers.Finder) *ReplaceCoverHandler {
	return &ReplaceCoverHandler{
		library: lib,
		finder:  finder,
	}
}

func (h *ReplaceCoverHandler) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	userID, err := requestUserID(req)
	if err != nil {
		writeJSON(writer, http.StatusUnauthorized, errorResponse{
			Error: err.Error(),
		})
		return
	}

	vars := mux.Vars(req)
	songID, err := strconv.ParseInt(vars["songID"], 10, 64)
	if err != nil {
		writeJSON(writer, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("malformed song ID: %s", err),
		})
		return
	}

	song, err := h.library.GetSong(req.Context(), songID)
	if errors.Is(err, library.ErrSongNotFound) {
		writeJSON(writer, http.StatusNotFound, errorResponse{
			Error: "no such song",
		})
		return
	}
	if err != nil {
		writeJSON(writer, http.StatusInternalServerError, errorResponse{
			Error: err.Error(),
		})
		return
	}

	if song.UserID != userID {
		writeJSON(writer, http.StatusForbidden, errorResponse{
			Error: "only the owner of a song may change its cover",
		})
		return
	}

	if err := req.ParseForm(); err != nil {
		writeJSON(writer, http.StatusBadRequest, errorResponse{
			Error: "malformed form",
		})
		return
	}

	exclude := append([]string{}, req.Form["exclude"]...)
	if song.CoverAlbum != "" {
		exclude = append(exclude, song.CoverAlbum)
	}

	q := covers.NewQuery(song.Artist, song.Title, exclude)
	q.BestEffort = true

	resolved, err := h.finder.ResolveCover(req.Context(), q)
	if errors.Is(err, covers.ErrCoverNotFound) {
		writeJSON(writer, http.StatusOK, coverSearchResponse{Found: false})
		return
	}
	if err != nil {
		writeJSON(writer, http.StatusInternalServerError, errorResponse{
			Error: err.Error(),
		})
		return
	}

	err = h.library.UpdateSongCover(req.Context(), songID, resolved.Path, resolved.Album)
	if err != nil {
		writeJSON(writer, http.StatusInternalServerError, errorResponse{
			Error: err.Error(),
		})
		return
	}

	writeJSON(writer, http.StatusOK, coverSearchResponse{
		Found:    true,
		Path:     resolved.Path,
		Provider: string(resolved.Provider),
		Album:    resolved.Album,
	})
}

package webserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pytouch377/online-music-website/src/library"
)

// SongHandler returns the stored record of a single song.
type SongHandler struct {
	library library.Library
}

// NewSongHandler returns a handler for the GET /v1/songs/{songID} endpoint.
func NewSongHandler(lib library.Library) *SongHandler {
	return &SongHandler{library: lib}
}

func (h *SongHandler) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
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

	writeJSON(writer, http.StatusOK, song)
}

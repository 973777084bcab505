package webserver

import (
	"net/http"
	"strconv"

	"github.com/pytouch377/online-music-website/src/library"
)

const defaultListLimit = 20

// SongsListHandler lists songs. With a "q" parameter it searches the
// library, without one it returns the most recently uploaded songs.
type SongsListHandler struct {
	library library.Library
}

// NewSongsListHandler returns a handler for the GET /v1/songs endpoint.
func NewSongsListHandler(lib library.Library) *SongsListHandler {
	return &SongsListHandler{library: lib}
}

func (h *SongsListHandler) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()

	var songs []library.Song
	if term := query.Get("q"); term != "" {
		songs = h.library.Search(req.Context(), term)
	} else {
		limit := defaultListLimit
		if rawLimit := query.Get("limit"); rawLimit != "" {
			parsed, err := strconv.Atoi(rawLimit)
			if err != nil || parsed < 1 {
				writeJSON(writer, http.StatusBadRequest, errorResponse{
					Error: "malformed limit parameter",
				})
				return
			}
			limit = parsed
		}
		songs = h.library.RecentSongs(req.Context(), limit)
	}

	if songs == nil {
		songs = []library.Song{}
	}

	writeJSON(writer, http.StatusOK, songsListResponse{Songs: songs})
}

type songsListResponse struct {
	Songs []library.Song `json:"songs"`
}

package webserver

import (
	"errors"
	"net/http"

	"github.com/pytouch377/online-music-website/src/covers"
)

// CoverSearchHandler resolves an album cover for an artist and title
// without touching the library. It is used by the upload form to show
// the user what cover their song would get.
type CoverSearchHandler struct {
	finder covers.Finder
}

// NewCoverSearchHandler returns a handler for the GET /v1/covers endpoint.
func NewCoverSearchHandler(finder covers.Finder) *CoverSearchHandler {
	return &CoverSearchHandler{finder: finder}
}

func (h *CoverSearchHandler) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()

	artist := query.Get("artist")
	if artist == "" {
		writeJSON(writer, http.StatusBadRequest, errorResponse{
			Error: "artist parameter is required",
		})
		return
	}

	q := covers.NewQuery(artist, query.Get("title"), query["exclude"])

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

	writeJSON(writer, http.StatusOK, coverSearchResponse{
		Found:    true,
		Path:     resolved.Path,
		Provider: string(resolved.Provider),
		Album:    resolved.Album,
	})
}

type coverSearchResponse struct {
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Provider string `json:"provider,omitempty"`
	Album    string `json:"album,omitempty"`
}

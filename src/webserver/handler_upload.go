package webserver

import (
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/pytouch377/online-music-website/src/covers"
	"github.com/pytouch377/online-music-website/src/library"
)

// uploadMaxMemory is how much of a multipart upload is kept in memory
// before spilling into temporary files.
const uploadMaxMemory = 32 << 20

// UploadHandler is a http.Handler which ingests a new song upload. With the
// auto_cover form flag the covers pipeline is asked for a cover before the
// ingestion. A cover search which finds nothing degrades to a coverless
// upload, it never fails the upload itself.
type UploadHandler struct {
	library library.Library
	finder  covers.Finder
}

// NewUploadHandler returns a new song upload handler.
func NewUploadHandler(lib library.Library, finder covers.Finder) *UploadHandler {
	return &UploadHandler{
		library: lib,
		finder:  finder,
	}
}

// ServeHTTP is required by the http.Handler's interface.
func (uh UploadHandler) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	userID, err := requestUserID(req)
	if err != nil {
		writer.WriteHeader(http.StatusUnauthorized)
		return
	}

	if err := req.ParseMultipartForm(uploadMaxMemory); err != nil {
		writeJSON(writer, http.StatusBadRequest, errorResponse{
			Error: "malformed multipart form",
		})
		return
	}

	audioFile, audioHeader, err := req.FormFile("song")
	if err != nil {
		writeJSON(writer, http.StatusBadRequest, errorResponse{
			Error: "the song file is required",
		})
		return
	}
	defer audioFile.Close()

	song := library.NewSong{
		Title:    req.FormValue("title"),
		Artist:   req.FormValue("artist"),
		Album:    req.FormValue("album"),
		Genre:    req.FormValue("genre"),
		UserID:   userID,
		Audio:    audioFile,
		AudioExt: strings.ToLower(filepath.Ext(audioHeader.Filename)),
	}

	if coverFile, _, err := req.FormFile("cover"); err == nil {
		defer coverFile.Close()
		song.Cover = coverFile
	} else if autoCoverRequested(req) {
		q := covers.NewQuery(song.Artist, song.Title, nil)
		resolved, err := uh.finder.ResolveCover(req.Context(), q)
		if err != nil && !errors.Is(err, covers.ErrCoverNotFound) {
			log.Printf("cover auto-search during upload failed: %s\n", err)
		}
		if err == nil {
			song.CoverPath = resolved.Path
			song.CoverAlbum = resolved.Album
		}
	}

	id, err := uh.library.AddSong(req.Context(), song)
	if err != nil {
		log.Printf("song ingestion failed: %s\n", err)
		writeJSON(writer, http.StatusInternalServerError, errorResponse{
			Error: "storing the song failed",
		})
		return
	}

	stored, err := uh.library.GetSong(req.Context(), id)
	if err != nil {
		log.Printf("reading back song %d failed: %s\n", id, err)
		stored = library.Song{ID: id}
	}

	writeJSON(writer, http.StatusCreated, stored)
}

// autoCoverRequested tells whether the upload form asked for a cover
// auto-search. The value comes from an HTML checkbox, hence "on".
func autoCoverRequested(req *http.Request) bool {
	val := strings.ToLower(req.FormValue("auto_cover"))
	return val == "on" || val == "true" || val == "1"
}

type errorResponse struct {
	Error string `json:"error"`
}

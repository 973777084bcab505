package library

import "errors"

// ErrSongNotFound is returned when a song with the requested ID is not in
// the database.
var ErrSongNotFound = errors.New("song was not found")

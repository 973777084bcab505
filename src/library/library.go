// Package library deals with the song library of the website. It owns the
// records database and the uploaded files on the storage.
//
// Adding a song is a two-phase affair. The uploaded files are persisted on
// the storage first and the database record referencing them is committed
// second. When the record commit fails every file written by the same call
// is removed again so that a failed upload leaves nothing behind.
package library

import (
	"context"
	"io"
	"time"
)

// Will be used in case some metadata is missing from both the upload form
// and the audio file's tags.
const unknownLabel = "Unknown"

// Song is a record of one uploaded song.
type Song struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	Genre      string `json:"genre,omitempty"`
	FsPath     string `json:"file_path"`
	CoverPath  string `json:"cover_path,omitempty"`
	CoverAlbum string `json:"-"`
	UserID     int64  `json:"user_id"`
	CreatedAt  time.Time
}

// NewSong is the input of one song ingestion.
type NewSong struct {
	Title  string
	Artist string
	Album  string
	Genre  string
	UserID int64

	// Audio is the uploaded audio payload. When it is seekable and some of
	// the metadata above is empty, the metadata is filled in from the audio
	// file's own tags.
	Audio io.Reader

	// AudioExt is the extension for the stored audio file, ".mp3" and the
	// like. The stored name itself is always freshly generated.
	AudioExt string

	// Cover is a cover image uploaded alongside the audio. Optional.
	Cover io.Reader

	// CoverPath is the storage path of a cover which was already resolved
	// by the covers pipeline during this upload. The ingestion takes
	// ownership of the file: it is removed on rollback. Ignored when Cover
	// is set. Optional, a song without a cover is perfectly fine.
	CoverPath string

	// CoverAlbum is the album name the resolved cover came from.
	CoverAlbum string
}

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

//counterfeiter:generate . Library

// Library is the interface the rest of the application uses for working with
// song records and their files.
type Library interface {
	// AddSong ingests a new song: persists its files and commits its record.
	// Returns the ID of the new record.
	AddSong(ctx context.Context, song NewSong) (int64, error)

	// GetSong returns the song record with this ID. Returns ErrSongNotFound
	// when there is no such record.
	GetSong(ctx context.Context, id int64) (Song, error)

	// UpdateSongCover points the song record to a new stored cover and
	// removes the previously stored cover file if there was one. The call
	// takes ownership of the new cover file: when the update fails the
	// file is removed and does not stay behind unreferenced.
	UpdateSongCover(ctx context.Context, songID int64, coverPath, coverAlbum string) error

	// Search matches the term against song titles, artists and albums.
	Search(ctx context.Context, term string) []Song

	// RecentSongs returns the latest uploaded songs, newest first.
	RecentSongs(ctx context.Context, limit int) []Song
}

package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/afero"
)

// LocalLibrary implements the Library interface with a sqlite database for
// the records and an afero filesystem for the uploaded files.
type LocalLibrary struct {
	database    string
	db          *sql.DB
	fs          afero.Fs
	storagePath string

	// sqlFilesFS contains the SQL migration files. Typically embedded in the
	// binary from the sqls directory in the project root.
	sqlFilesFS fs.FS
}

// NewLocalLibrary returns a LocalLibrary which stores its database in the
// file specified by databasePath and the uploaded files under storagePath in
// the appFS filesystem. Also creates the database connection so you does not
// need to worry about that.
func NewLocalLibrary(
	databasePath string,
	appFS afero.Fs,
	storagePath string,
	sqlFilesFS fs.FS,
) (*LocalLibrary, error) {
	lib := &LocalLibrary{
		database:    databasePath,
		fs:          appFS,
		storagePath: storagePath,
		sqlFilesFS:  sqlFilesFS,
	}

	var err error
	lib.db, err = sql.Open("sqlite3", lib.database)
	if err != nil {
		return nil, err
	}

	if databasePath == ":memory:" {
		// Every new connection to :memory: would be a separate database.
		lib.db.SetMaxOpenConns(1)
	}

	return lib, nil
}

// Initialize brings the database schema up to date.
func (lib *LocalLibrary) Initialize() error {
	if lib.db == nil {
		return errors.New("library is not opened, call NewLocalLibrary first")
	}

	return lib.applyMigrations()
}

// Close closes the database connection. It is safe to call it as many times
// as you want.
func (lib *LocalLibrary) Close() {
	if lib.db != nil {
		lib.db.Close()
		lib.db = nil
	}
}

// GetSong implements Library.GetSong for the local library.
func (lib *LocalLibrary) GetSong(ctx context.Context, id int64) (Song, error) {
	smt, err := lib.db.PrepareContext(ctx, `
		SELECT
			id, title, artist, album, genre,
			fs_path, COALESCE(cover_path, ''), cover_album,
			user_id, created_at
		FROM
			songs
		WHERE
			id = ?
	`)
	if err != nil {
		return Song{}, fmt.Errorf("preparing song query failed: %w", err)
	}
	defer smt.Close()

	var (
		song      Song
		createdAt int64
	)
	err = smt.QueryRowContext(ctx, id).Scan(
		&song.ID,
		&song.Title,
		&song.Artist,
		&song.Album,
		&song.Genre,
		&song.FsPath,
		&song.CoverPath,
		&song.CoverAlbum,
		&song.UserID,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Song{}, ErrSongNotFound
	}
	if err != nil {
		return Song{}, fmt.Errorf("scanning song row failed: %w", err)
	}

	song.CreatedAt = time.Unix(createdAt, 0)
	return song, nil
}

// UpdateSongCover implements Library.UpdateSongCover for the local library.
// The call owns the file at coverPath: when the record update does not go
// through, the new cover file is removed again so that a failed update
// leaves nothing unreferenced on the storage. On success the record is
// updated first and only then is the previous cover file removed. A
// leftover file on a failed removal is merely logged, the new cover is
// already committed at this point.
func (lib *LocalLibrary) UpdateSongCover(
	ctx context.Context,
	songID int64,
	coverPath string,
	coverAlbum string,
) error {
	song, err := lib.GetSong(ctx, songID)
	if err != nil {
		lib.removeStored(coverPath)
		return err
	}

	smt, err := lib.db.PrepareContext(ctx, `
		UPDATE
			songs
		SET
			cover_path = ?,
			cover_album = ?
		WHERE
			id = ?
	`)
	if err != nil {
		lib.removeStored(coverPath)
		return fmt.Errorf("preparing cover update failed: %w", err)
	}
	defer smt.Close()

	if _, err := smt.ExecContext(ctx, coverPath, coverAlbum, songID); err != nil {
		lib.removeStored(coverPath)
		return fmt.Errorf("updating song cover failed: %w", err)
	}

	if song.CoverPath != "" && song.CoverPath != coverPath {
		lib.removeStored(song.CoverPath)
	}

	return nil
}

// removeStored deletes one stored file by its forward-slash relative path.
// Removal failures are logged, there is nothing more a caller could do
// about them.
func (lib *LocalLibrary) removeStored(relPath string) {
	if relPath == "" {
		return
	}

	full := filepath.Join(lib.storagePath, filepath.FromSlash(relPath))
	if err := lib.fs.Remove(full); err != nil {
		log.Printf("removing stored file %s failed: %s\n", relPath, err)
	}
}

// Search implements Library.Search for the local library. Problems with the
// database are logged and an empty result is returned, a search box should
// not explode in the user's face.
func (lib *LocalLibrary) Search(ctx context.Context, term string) []Song {
	like := "%" + term + "%"

	rows, err := lib.db.QueryContext(ctx, `
		SELECT
			id, title, artist, album, genre,
			fs_path, COALESCE(cover_path, ''), cover_album,
			user_id, created_at
		FROM
			songs
		WHERE
			title LIKE ? OR
			artist LIKE ? OR
			album LIKE ?
		ORDER BY
			created_at DESC, id DESC
	`, like, like, like)
	if err != nil {
		log.Printf("song search query failed: %s\n", err)
		return nil
	}
	defer rows.Close()

	return scanSongs(rows)
}

// RecentSongs implements Library.RecentSongs for the local library.
func (lib *LocalLibrary) RecentSongs(ctx context.Context, limit int) []Song {
	rows, err := lib.db.QueryContext(ctx, `
		SELECT
			id, title, artist, album, genre,
			fs_path, COALESCE(cover_path, ''), cover_album,
			user_id, created_at
		FROM
			songs
		ORDER BY
			created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		log.Printf("recent songs query failed: %s\n", err)
		return nil
	}
	defer rows.Close()

	return scanSongs(rows)
}

func scanSongs(rows *sql.Rows) []Song {
	var output []Song
	for rows.Next() {
		var (
			song      Song
			createdAt int64
		)
		err := rows.Scan(
			&song.ID,
			&song.Title,
			&song.Artist,
			&song.Album,
			&song.Genre,
			&song.FsPath,
			&song.CoverPath,
			&song.CoverAlbum,
			&song.UserID,
			&createdAt,
		)
		if err != nil {
			log.Printf("scanning song row failed: %s\n", err)
			continue
		}
		song.CreatedAt = time.Unix(createdAt, 0)
		output = append(output, song)
	}

	if err := rows.Err(); err != nil {
		log.Printf("iterating song rows failed: %s\n", err)
	}

	return output
}

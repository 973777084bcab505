package library

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"time"

	"github.com/dhowden/tag"
	"github.com/pborman/uuid"
)

const (
	// audioDir is the storage subdirectory for uploaded audio files.
	audioDir = "audio"

	// coversDir is the storage subdirectory for cover images. The covers
	// pipeline writes into the same directory.
	coversDir = "covers"
)

// AddSong implements Library.AddSong for the local library.
//
// Phase one writes the files on the storage, phase two commits the record
// in a database transaction. When either phase fails, every file this call
// owns is removed before the error is returned, a cover already resolved
// for the upload included. A song without any cover is a normal ingestion,
// never a reason for rollback.
func (lib *LocalLibrary) AddSong(ctx context.Context, song NewSong) (int64, error) {
	var written []string
	rollback := func() {
		for _, relPath := range written {
			lib.removeStored(relPath)
		}
	}

	coverPath := song.CoverPath
	coverAlbum := song.CoverAlbum
	if coverPath != "" {
		// A cover resolved during this call. This call owns its file from
		// the very start so that no failure below leaves it behind.
		written = append(written, coverPath)
	}

	if song.Audio == nil {
		rollback()
		return 0, fmt.Errorf("no audio payload in the new song")
	}

	if err := fillMissingTags(&song); err != nil {
		rollback()
		return 0, err
	}

	audioPath, err := lib.storeFile(audioDir, song.AudioExt, song.Audio)
	if err != nil {
		rollback()
		return 0, fmt.Errorf("storing the audio file failed: %w", err)
	}
	written = append(written, audioPath)

	if song.Cover != nil {
		coverPath, err = lib.storeFile(coversDir, ".jpg", song.Cover)
		if err != nil {
			rollback()
			return 0, fmt.Errorf("storing the cover image failed: %w", err)
		}
		coverAlbum = ""
		written = append(written, coverPath)
	}

	id, err := lib.insertSong(ctx, song, audioPath, coverPath, coverAlbum)
	if err != nil {
		rollback()
		return 0, fmt.Errorf("committing the song record failed: %w", err)
	}

	return id, nil
}

// insertSong is the record phase of the ingestion.
func (lib *LocalLibrary) insertSong(
	ctx context.Context,
	song NewSong,
	audioPath string,
	coverPath string,
	coverAlbum string,
) (int64, error) {
	tx, err := lib.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	var storedCover interface{}
	if coverPath != "" {
		storedCover = coverPath
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO
			songs (title, artist, album, genre, fs_path,
				cover_path, cover_album, user_id, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		song.Title,
		song.Artist,
		song.Album,
		song.Genre,
		audioPath,
		storedCover,
		coverAlbum,
		song.UserID,
		time.Now().Unix(),
	)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return id, nil
}

// storeFile writes the contents under the storage root in dir with a freshly
// generated collision-free name and returns the forward-slash relative path
// of the new file.
func (lib *LocalLibrary) storeFile(
	dir string,
	ext string,
	contents io.Reader,
) (string, error) {
	name := hex.EncodeToString(uuid.NewRandom()) + ext
	relPath := path.Join(dir, name)
	full := filepath.Join(lib.storagePath, filepath.FromSlash(relPath))

	if err := lib.fs.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", err
	}

	out, err := lib.fs.Create(full)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(out, contents); err != nil {
		_ = out.Close()
		_ = lib.fs.Remove(full)
		return "", err
	}

	if err := out.Close(); err != nil {
		_ = lib.fs.Remove(full)
		return "", err
	}

	return relPath, nil
}

// fillMissingTags reads the audio file's own tags for every metadata field
// the upload form left empty. Uploads with no readable tags are fine, the
// unknown label is used as the last resort.
func fillMissingTags(song *NewSong) error {
	needTags := song.Title == "" || song.Artist == "" || song.Album == ""

	seeker, seekable := song.Audio.(io.ReadSeeker)
	if needTags && seekable {
		metadata, err := tag.ReadFrom(seeker)

		// Whatever the tag reader did with the reader, the audio has to be
		// written from its very beginning afterwards.
		if _, serr := seeker.Seek(0, io.SeekStart); serr != nil {
			return fmt.Errorf("rewinding the audio payload failed: %w", serr)
		}

		if err == nil {
			if song.Title == "" {
				song.Title = metadata.Title()
			}
			if song.Artist == "" {
				song.Artist = metadata.Artist()
			}
			if song.Album == "" {
				song.Album = metadata.Album()
			}
			if song.Genre == "" {
				song.Genre = metadata.Genre()
			}
		}
	}

	if song.Title == "" {
		song.Title = unknownLabel
	}
	if song.Artist == "" {
		song.Artist = unknownLabel
	}

	return nil
}

package webserver_test

import (
	"context"

	"github.com/pytouch377/online-music-website/src/covers"
	"github.com/pytouch377/online-music-website/src/library"
)

// fakeLibrary implements library.Library with overridable behaviour per
// test. Methods without an installed function return their zero values.
type fakeLibrary struct {
	addSong         func(ctx context.Context, song library.NewSong) (int64, error)
	getSong         func(ctx context.Context, id int64) (library.Song, error)
	updateSongCover func(ctx context.Context, songID int64, coverPath, coverAlbum string) error
	search          func(ctx context.Context, term string) []library.Song
	recentSongs     func(ctx context.Context, limit int) []library.Song
}

func (f *fakeLibrary) AddSong(ctx context.Context, song library.NewSong) (int64, error) {
	if f.addSong == nil {
		return 0, nil
	}
	return f.addSong(ctx, song)
}

func (f *fakeLibrary) GetSong(ctx context.Context, id int64) (library.Song, error) {
	if f.getSong == nil {
		return library.Song{}, library.ErrSongNotFound
	}
	return f.getSong(ctx, id)
}

func (f *fakeLibrary) UpdateSongCover(
	ctx context.Context,
	songID int64,
	coverPath, coverAlbum string,
) error {
	if f.updateSongCover == nil {
		return nil
	}
	return f.updateSongCover(ctx, songID, coverPath, coverAlbum)
}

func (f *fakeLibrary) Search(ctx context.Context, term string) []library.Song {
	if f.search == nil {
		return nil
	}
	return f.search(ctx, term)
}

func (f *fakeLibrary) RecentSongs(ctx context.Context, limit int) []library.Song {
	if f.recentSongs == nil {
		return nil
	}
	return f.recentSongs(ctx, limit)
}

// fakeFinder implements covers.Finder for the handler tests.
type fakeFinder struct {
	resolveCover func(ctx context.Context, q covers.Query) (*covers.Resolved, error)
}

func (f *fakeFinder) ResolveCover(
	ctx context.Context,
	q covers.Query,
) (*covers.Resolved, error) {
	if f.resolveCover == nil {
		return nil, covers.ErrCoverNotFound
	}
	return f.resolveCover(ctx, q)
}

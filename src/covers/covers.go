package covers

import (
	"context"
	"errors"
	"image/color"
	"net/http"
	"strings"
	"time"

	lastfm "github.com/shkh/lastfm-go/lastfm"
	"github.com/spf13/afero"
)

// ErrCoverNotFound is returned by ResolveCover when every provider has been
// tried and none of them produced a usable cover image. It is a normal
// outcome of a search, not a failure of the pipeline.
var ErrCoverNotFound = errors.New("cover image not found")

// ErrImageTooBig is returned when a provider reported an image but it was
// deemed too big for the server to handle.
var ErrImageTooBig = errors.New("cover image is too big")

// errNoLastFMAuth signals that no Last.fm API key is configured. The Last.fm
// provider is doomed from the get-go in this case so it is skipped silently.
var errNoLastFMAuth = errors.New("authentication with Last.fm is not configured")

const (
	// searchTimeout bounds a single provider search request.
	searchTimeout = 10 * time.Second

	// downloadTimeout bounds the download of a single cover image.
	downloadTimeout = 30 * time.Second

	// scoreTitleMatch is the score of a candidate whose track title contains
	// the queried song title.
	scoreTitleMatch = 100

	// scoreArtistMatch is the score of a candidate which matched the query
	// only by its artist.
	scoreArtistMatch = 50

	// coversDir is the subdirectory of the storage path where all resolved
	// covers are stored.
	coversDir = "covers"
)

// ProviderKind identifies the catalogue which produced a candidate or a
// resolved cover.
type ProviderKind string

// All the catalogues known to this package in no particular order. The
// priority order among them is set by NewClient.
const (
	ProviderNetEase    ProviderKind = "netease"
	ProviderQQMusic    ProviderKind = "qqmusic"
	ProviderAppleMusic ProviderKind = "applemusic"
	ProviderLastFM     ProviderKind = "lastfm"
	ProviderFallback   ProviderKind = "fallback"
)

// Query is the immutable input for one cover resolution attempt.
type Query struct {
	// Artist is the name of the artist performing the song.
	Artist string

	// Title is the title of the song. May be empty for artist-only searches.
	Title string

	// Exclude is the set of album names which must not be returned again.
	// It grows during a "try another cover" session and is never shared
	// between resolution calls for different songs.
	Exclude map[string]struct{}

	// BestEffort enables the non-network fallback provider which synthesizes
	// a generic cover when every catalogue came up empty.
	BestEffort bool
}

// NewQuery returns a Query for the given artist and title with all the albums
// in exclude marked as already seen.
func NewQuery(artist, title string, exclude []string) Query {
	q := Query{
		Artist:  artist,
		Title:   title,
		Exclude: make(map[string]struct{}, len(exclude)),
	}
	for _, album := range exclude {
		if album == "" {
			continue
		}
		q.Exclude[album] = struct{}{}
	}
	return q
}

// Candidate is a cover image reported by one of the catalogues together with
// its match metadata. Candidates live only for the duration of a single
// resolution call and are never persisted.
type Candidate struct {
	// URL is the location of the cover image. Empty for candidates
	// synthesized by the fallback provider.
	URL string

	// Album is the name of the album the image belongs to according to the
	// provider.
	Album string

	// Track is the track title reported by the provider, when it has one.
	Track string

	// Score is either scoreTitleMatch or scoreArtistMatch. There are no
	// intermediate values.
	Score int

	// Provider is the catalogue which reported this candidate.
	Provider ProviderKind

	// fill is the colour of a synthesized fallback cover.
	fill color.RGBA
}

// Resolved is a cover image which has been downloaded and stored. Its file
// persists until the owning song is deleted or the ingestion which requested
// it is rolled back.
type Resolved struct {
	// Filename is a freshly generated collision-free name. It is never
	// derived from user or provider input.
	Filename string

	// Path is the path of the stored image relative to the storage root. It
	// always uses forward slashes so that recorded paths are portable.
	Path string

	// Provider is the catalogue the image came from.
	Provider ProviderKind

	// Album is the album name of the winning candidate. Callers record it so
	// that a later re-roll can exclude it.
	Album string
}

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

//counterfeiter:generate . Finder

// Finder defines a type which is capable of finding and storing a cover
// image for a song.
type Finder interface {
	// ResolveCover finds the best cover for the query, downloads it and
	// stores it under the storage directory. It returns ErrCoverNotFound
	// when no catalogue produced a usable image.
	ResolveCover(ctx context.Context, q Query) (*Resolved, error)
}

// provider is the uniform contract implemented once per external catalogue.
// Implementations do exactly one search request per call and report zero or
// more candidates which already passed the artist match gate.
type provider interface {
	// kind identifies the catalogue.
	kind() ProviderKind

	// search queries the catalogue for covers matching the artist and title.
	search(ctx context.Context, artist, title string) ([]Candidate, error)
}

// Client resolves cover images by querying external catalogues in priority
// order. It is safe for concurrent use: resolution calls share nothing but
// the storage filesystem and stored filenames are random per call.
//
// It implements Finder.
type Client struct {
	useragent   string
	httpClient  *http.Client
	fs          afero.Fs
	storagePath string

	netease     *neteaseProvider
	qqmusic     *qqmusicProvider
	itunes      *itunesProvider
	lastfm      *lastfmProvider
	placeholder *placeholderProvider

	providers []provider
}

// NewClient returns a fully configured Client which stores resolved covers
// under storagePath in the appFS filesystem.
//
// The useragent is sent with every catalogue request so that the kind people
// running those services can tell applications apart. The Last.fm provider
// needs an API key and secret; when lastfmKey is empty it reports no
// candidates and the pipeline degrades to the remaining providers.
func NewClient(
	useragent string,
	lastfmKey string,
	lastfmSecret string,
	appFS afero.Fs,
	storagePath string,
) *Client {
	c := &Client{
		useragent:   useragent,
		httpClient:  http.DefaultClient,
		fs:          appFS,
		storagePath: storagePath,
	}

	c.netease = &neteaseProvider{
		apiHost:   "https://music.163.com",
		useragent: useragent,
		client:    c.httpClient,
	}
	c.qqmusic = &qqmusicProvider{
		apiHost:   "https://c.y.qq.com",
		imageHost: "https://y.gtimg.cn",
		useragent: useragent,
		client:    c.httpClient,
	}
	c.itunes = &itunesProvider{
		apiHost:   "https://itunes.apple.com",
		useragent: useragent,
		client:    c.httpClient,
	}
	c.lastfm = &lastfmProvider{}
	if lastfmKey != "" {
		c.lastfm.api = lastfm.New(lastfmKey, lastfmSecret)
	}
	c.placeholder = &placeholderProvider{}

	// The priority order of the providers. The regional catalogues have the
	// richest metadata for the music shared on this site so they go first.
	// Last.fm knows only artists and the placeholder is not a catalogue at
	// all, so both are last resorts.
	c.providers = []provider{
		c.netease,
		c.qqmusic,
		c.itunes,
		c.lastfm,
		c.placeholder,
	}

	return c
}

// artistMatches is the gate every provider result has to pass before it
// becomes a candidate. It is a case-insensitive substring match in either
// direction so that "Artist feat. Somebody" still matches "Artist" without
// requiring exact equality.
func artistMatches(queried, reported string) bool {
	if queried == "" || reported == "" {
		return false
	}

	q := strings.ToLower(queried)
	r := strings.ToLower(reported)
	return strings.Contains(q, r) || strings.Contains(r, q)
}

// matchScore returns the score for a candidate with the given reported track
// title. The scoring is deliberately binary: an exact title hit or not.
func matchScore(queriedTitle, reportedTitle string) int {
	if queriedTitle == "" || reportedTitle == "" {
		return scoreArtistMatch
	}

	if strings.Contains(
		strings.ToLower(reportedTitle),
		strings.ToLower(queriedTitle),
	) {
		return scoreTitleMatch
	}

	return scoreArtistMatch
}

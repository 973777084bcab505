package covers

import (
	"context"
	"fmt"

	lastfm "github.com/shkh/lastfm-go/lastfm"
)

// lastfmProvider queries the Last.fm charts for the top albums of the
// queried artist. It is the last network provider before giving up: the
// charts are keyed by artist only, so there is no track title to match
// against and every candidate gets the lower score tier.
type lastfmProvider struct {
	api *lastfm.Api
}

func (p *lastfmProvider) kind() ProviderKind {
	return ProviderLastFM
}

func (p *lastfmProvider) search(
	ctx context.Context,
	artist,
	title string,
) ([]Candidate, error) {
	if p.api == nil {
		return nil, errNoLastFMAuth
	}

	// The Last.fm client does not take a context so the call is made in a
	// goroutine and abandoned when the deadline passes. The buffered channel
	// makes sure the goroutine does not leak in that case.
	type topAlbums struct {
		res lastfm.ArtistGetTopAlbums
		err error
	}
	resCh := make(chan topAlbums, 1)

	go func() {
		res, err := p.api.Artist.GetTopAlbums(lastfm.P{
			"artist": artist,
			"limit":  10,
		})
		resCh <- topAlbums{res: res, err: err}
	}()

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	var answer topAlbums
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case answer = <-resCh:
	}

	if answer.err != nil {
		return nil, fmt.Errorf("Last.fm top albums query failed: %w", answer.err)
	}

	var found []Candidate
	for _, album := range answer.res.Albums {
		if !artistMatches(artist, album.Artist.Name) {
			continue
		}

		var imgURL string
		for _, img := range album.Images {
			if img.Url == "" {
				continue
			}
			imgURL = img.Url
			if img.Size == "extralarge" {
				break
			}
		}
		if imgURL == "" {
			continue
		}

		found = append(found, Candidate{
			URL:      imgURL,
			Album:    album.Name,
			Score:    scoreArtistMatch,
			Provider: ProviderLastFM,
		})
	}

	return found, nil
}

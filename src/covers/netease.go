package covers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	neteaseSearchEndpoint = "%s/api/search/get/web"
	neteaseReferer        = "https://music.163.com"
)

// neteaseProvider searches the NetEase Cloud Music catalogue. It is the
// primary provider since it has the richest metadata for the music shared
// on this site.
type neteaseProvider struct {
	apiHost   string
	useragent string
	client    *http.Client
}

func (p *neteaseProvider) kind() ProviderKind {
	return ProviderNetEase
}

func (p *neteaseProvider) search(
	ctx context.Context,
	artist,
	title string,
) ([]Candidate, error) {
	searchURL := fmt.Sprintf(neteaseSearchEndpoint, p.apiHost)
	req, err := http.NewRequest(http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating NetEase search req: %w", err)
	}

	query := req.URL.Query()
	query.Add("s", fmt.Sprintf("%s %s", artist, title))
	query.Add("type", "1")
	query.Add("limit", "10")
	req.URL.RawQuery = query.Encode()

	// The search endpoint rejects requests with no referer.
	req.Header.Set("User-Agent", p.useragent)
	req.Header.Set("Referer", neteaseReferer)

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()
	req = req.WithContext(ctx)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("NetEase search API returned HTTP %d", resp.StatusCode)
	}

	root := neteaseSearchData{}
	dec := json.NewDecoder(resp.Body)

	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decoding NetEase search API response: %w", err)
	}

	var found []Candidate
	for _, song := range root.Result.Songs {
		if song.Album.PicURL == "" {
			continue
		}

		var reported string
		if len(song.Artists) > 0 {
			reported = song.Artists[0].Name
		}
		if !artistMatches(artist, reported) {
			continue
		}

		found = append(found, Candidate{
			URL:      song.Album.PicURL,
			Album:    song.Album.Name,
			Track:    song.Name,
			Score:    matchScore(title, song.Name),
			Provider: ProviderNetEase,
		})
	}

	return found, nil
}

// The following are structures only used to decode the JSON response from
// the NetEase search API. And only the stuff we are interested in and
// nothing more.
type neteaseSearchData struct {
	Result neteaseSearchResult `json:"result"`
}

type neteaseSearchResult struct {
	Songs []neteaseSong `json:"songs"`
}

type neteaseSong struct {
	Name    string          `json:"name"`
	Artists []neteaseArtist `json:"artists"`
	Album   neteaseAlbum    `json:"album"`
}

type neteaseArtist struct {
	Name string `json:"name"`
}

type neteaseAlbum struct {
	Name   string `json:"name"`
	PicURL string `json:"picUrl"`
}

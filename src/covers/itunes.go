package covers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const itunesSearchEndpoint = "%s/search"

// itunesProvider searches the iTunes catalogue. A global store with decent
// coverage but less metadata for regional releases, which is why it comes
// after the regional catalogues.
type itunesProvider struct {
	apiHost   string
	useragent string
	client    *http.Client
}

func (p *itunesProvider) kind() ProviderKind {
	return ProviderAppleMusic
}

func (p *itunesProvider) search(
	ctx context.Context,
	artist,
	title string,
) ([]Candidate, error) {
	searchURL := fmt.Sprintf(itunesSearchEndpoint, p.apiHost)
	req, err := http.NewRequest(http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating iTunes search req: %w", err)
	}

	query := req.URL.Query()
	query.Add("term", fmt.Sprintf("%s %s", artist, title))
	query.Add("media", "music")
	query.Add("entity", "song")
	query.Add("limit", "10")
	req.URL.RawQuery = query.Encode()
	req.Header.Set("User-Agent", p.useragent)

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()
	req = req.WithContext(ctx)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("iTunes search API returned HTTP %d", resp.StatusCode)
	}

	root := itunesSearchData{}
	dec := json.NewDecoder(resp.Body)

	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decoding iTunes search API response: %w", err)
	}

	var found []Candidate
	for _, result := range root.Results {
		if result.ArtworkURL == "" {
			continue
		}
		if !artistMatches(artist, result.ArtistName) {
			continue
		}

		found = append(found, Candidate{
			// The search API reports thumbnail URLs only but the image
			// server has the same file in bigger sizes too.
			URL:      strings.Replace(result.ArtworkURL, "100x100", "600x600", 1),
			Album:    result.CollectionName,
			Track:    result.TrackName,
			Score:    matchScore(title, result.TrackName),
			Provider: ProviderAppleMusic,
		})
	}

	return found, nil
}

// The following are structures only used to decode the JSON response from
// the iTunes search API.
type itunesSearchData struct {
	Results []itunesResult `json:"results"`
}

type itunesResult struct {
	ArtistName     string `json:"artistName"`
	TrackName      string `json:"trackName"`
	CollectionName string `json:"collectionName"`
	ArtworkURL     string `json:"artworkUrl100"`
}

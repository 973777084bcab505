package covers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	qqmusicSearchEndpoint = "%s/soso/fcgi-bin/client_search_cp"
	qqmusicImageEndpoint  = "%s/music/photo_new/T002R500x500M000%s.jpg"
	qqmusicReferer        = "https://y.qq.com"
)

// qqmusicProvider searches the QQ Music catalogue. QQ Music does not report
// image URLs directly, instead every album has a "mid" from which the cover
// URL is derived. Results without an album mid produce no candidate.
type qqmusicProvider struct {
	apiHost   string
	imageHost string
	useragent string
	client    *http.Client
}

func (p *qqmusicProvider) kind() ProviderKind {
	return ProviderQQMusic
}

func (p *qqmusicProvider) search(
	ctx context.Context,
	artist,
	title string,
) ([]Candidate, error) {
	searchURL := fmt.Sprintf(qqmusicSearchEndpoint, p.apiHost)
	req, err := http.NewRequest(http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating QQ Music search req: %w", err)
	}

	query := req.URL.Query()
	query.Add("w", fmt.Sprintf("%s %s", artist, title))
	query.Add("format", "json")
	query.Add("n", "10")
	req.URL.RawQuery = query.Encode()

	req.Header.Set("User-Agent", p.useragent)
	req.Header.Set("Referer", qqmusicReferer)

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()
	req = req.WithContext(ctx)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("QQ Music search API returned HTTP %d", resp.StatusCode)
	}

	root := qqmusicSearchData{}
	dec := json.NewDecoder(resp.Body)

	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decoding QQ Music search API response: %w", err)
	}

	var found []Candidate
	for _, song := range root.Data.Song.List {
		if song.AlbumMID == "" {
			continue
		}

		var reported string
		if len(song.Singers) > 0 {
			reported = song.Singers[0].Name
		}
		if !artistMatches(artist, reported) {
			continue
		}

		found = append(found, Candidate{
			URL:      fmt.Sprintf(qqmusicImageEndpoint, p.imageHost, song.AlbumMID),
			Album:    song.AlbumName,
			Track:    song.SongName,
			Score:    matchScore(title, song.SongName),
			Provider: ProviderQQMusic,
		})
	}

	return found, nil
}

// The following are structures only used to decode the JSON response from
// the QQ Music search API.
type qqmusicSearchData struct {
	Data qqmusicData `json:"data"`
}

type qqmusicData struct {
	Song qqmusicSongList `json:"song"`
}

type qqmusicSongList struct {
	List []qqmusicSong `json:"list"`
}

type qqmusicSong struct {
	SongName  string          `json:"songname"`
	AlbumName string          `json:"albumname"`
	AlbumMID  string          `json:"albummid"`
	Singers   []qqmusicSinger `json:"singer"`
}

type qqmusicSinger struct {
	Name string `json:"name"`
}

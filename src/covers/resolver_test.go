package covers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
)

// stubProvider is a provider with canned results used for exercising the
// resolver state machine.
type stubProvider struct {
	k          ProviderKind
	candidates []Candidate
	err        error
	calls      int
}

func (s *stubProvider) kind() ProviderKind {
	return s.k
}

func (s *stubProvider) search(
	ctx context.Context,
	artist,
	title string,
) ([]Candidate, error) {
	s.calls++
	return s.candidates, s.err
}

func newTestClient(appFS afero.Fs, providers ...provider) *Client {
	return &Client{
		useragent:   "online-music-website/testing",
		httpClient:  http.DefaultClient,
		fs:          appFS,
		storagePath: "app_storage",
		providers:   providers,
	}
}

// newImageServer returns a test server which serves imgBytes on every path
// and a counter of how many times it was hit.
func newImageServer(imgBytes []byte) (*httptest.Server, *int) {
	hits := new(int)
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, req *http.Request) {
			*hits++
			_, _ = w.Write(imgBytes)
		},
	))
	return srv, hits
}

// TestResolveUsesFirstProviderWithResults makes sure the second provider's
// candidate wins when the first returns nothing and that providers after a
// success are never queried.
func TestResolveUsesFirstProviderWithResults(t *testing.T) {
	imgServer, _ := newImageServer([]byte("image bytes"))
	defer imgServer.Close()

	p1 := &stubProvider{k: ProviderNetEase}
	p2 := &stubProvider{k: ProviderQQMusic, candidates: []Candidate{
		{
			URL:      imgServer.URL + "/cover.jpg",
			Album:    "Found Album",
			Score:    scoreTitleMatch,
			Provider: ProviderQQMusic,
		},
	}}
	p3 := &stubProvider{k: ProviderAppleMusic, candidates: []Candidate{
		{URL: imgServer.URL, Album: "Should Not Be Used", Provider: ProviderAppleMusic},
	}}

	appFS := afero.NewMemMapFs()
	c := newTestClient(appFS, p1, p2, p3)

	resolved, err := c.ResolveCover(context.Background(), NewQuery("artist", "title", nil))
	if err != nil {
		t.Fatalf("expected no error but got `%s`", err)
	}

	if resolved.Provider != ProviderQQMusic {
		t.Errorf("expected provenance %s but got %s", ProviderQQMusic, resolved.Provider)
	}
	if resolved.Album != "Found Album" {
		t.Errorf("wrong album in resolved cover: %s", resolved.Album)
	}

	if p1.calls != 1 || p2.calls != 1 {
		t.Errorf("expected one call to p1 and p2, got %d and %d", p1.calls, p2.calls)
	}
	if p3.calls != 0 {
		t.Errorf("provider after a successful one was queried %d times", p3.calls)
	}
}

// TestResolveAllProvidersExhausted makes sure exhaustion is reported with
// the ErrCoverNotFound sentinel and nothing else.
func TestResolveAllProvidersExhausted(t *testing.T) {
	p1 := &stubProvider{k: ProviderNetEase, err: errors.New("network down")}
	p2 := &stubProvider{k: ProviderQQMusic}
	p3 := &stubProvider{k: ProviderAppleMusic, err: fmt.Errorf("HTTP 502")}

	c := newTestClient(afero.NewMemMapFs(), p1, p2, p3)

	resolved, err := c.ResolveCover(context.Background(), NewQuery("artist", "title", nil))
	if !errors.Is(err, ErrCoverNotFound) {
		t.Fatalf("expected ErrCoverNotFound but got `%v`", err)
	}
	if resolved != nil {
		t.Errorf("expected no resolved cover but got %+v", resolved)
	}

	for i, p := range []*stubProvider{p1, p2, p3} {
		if p.calls != 1 {
			t.Errorf("provider %d queried %d times, expected exactly once", i, p.calls)
		}
	}
}

// TestResolveFetchFailureAdvancesProvider checks that a provider whose image
// cannot be downloaded degrades to the next provider instead of aborting.
func TestResolveFetchFailureAdvancesProvider(t *testing.T) {
	brokenServer := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
	))
	defer brokenServer.Close()

	imgServer, _ := newImageServer([]byte("image bytes"))
	defer imgServer.Close()

	p1 := &stubProvider{k: ProviderNetEase, candidates: []Candidate{
		{URL: brokenServer.URL, Album: "Broken Album", Provider: ProviderNetEase},
	}}
	p2 := &stubProvider{k: ProviderQQMusic, candidates: []Candidate{
		{URL: imgServer.URL, Album: "Good Album", Provider: ProviderQQMusic},
	}}

	c := newTestClient(afero.NewMemMapFs(), p1, p2)

	resolved, err := c.ResolveCover(context.Background(), NewQuery("artist", "title", nil))
	if err != nil {
		t.Fatalf("expected no error but got `%s`", err)
	}
	if resolved.Provider != ProviderQQMusic {
		t.Errorf("expected fallback to %s but got %s", ProviderQQMusic, resolved.Provider)
	}
}

// TestResolveAllCandidatesExcluded makes sure a provider whose every
// candidate is excluded is treated like an empty one.
func TestResolveAllCandidatesExcluded(t *testing.T) {
	imgServer, _ := newImageServer([]byte("image bytes"))
	defer imgServer.Close()

	p1 := &stubProvider{k: ProviderNetEase, candidates: []Candidate{
		{URL: imgServer.URL, Album: "Seen Already", Provider: ProviderNetEase},
	}}
	p2 := &stubProvider{k: ProviderQQMusic, candidates: []Candidate{
		{URL: imgServer.URL, Album: "Fresh Album", Provider: ProviderQQMusic},
	}}

	c := newTestClient(afero.NewMemMapFs(), p1, p2)

	q := NewQuery("artist", "title", []string{"Seen Already"})
	resolved, err := c.ResolveCover(context.Background(), q)
	if err != nil {
		t.Fatalf("expected no error but got `%s`", err)
	}
	if resolved.Album != "Fresh Album" {
		t.Errorf("expected the non-excluded album but got %s", resolved.Album)
	}
}

// TestResolveReRollNeverRepeats simulates a "try another cover" session:
// after the first resolution its album is added to the exclusion set and the
// second resolution must return a different album.
func TestResolveReRollNeverRepeats(t *testing.T) {
	imgServer, _ := newImageServer([]byte("image bytes"))
	defer imgServer.Close()

	p1 := &stubProvider{k: ProviderNetEase, candidates: []Candidate{
		{URL: imgServer.URL, Album: "Album One", Score: scoreTitleMatch, Provider: ProviderNetEase},
		{URL: imgServer.URL, Album: "Album Two", Score: scoreArtistMatch, Provider: ProviderNetEase},
	}}

	c := newTestClient(afero.NewMemMapFs(), p1)

	first, err := c.ResolveCover(context.Background(), NewQuery("artist", "title", nil))
	if err != nil {
		t.Fatalf("first resolution failed: %s", err)
	}

	q := NewQuery("artist", "title", []string{first.Album})
	second, err := c.ResolveCover(context.Background(), q)
	if err != nil {
		t.Fatalf("second resolution failed: %s", err)
	}

	if second.Album == first.Album {
		t.Errorf("re-roll returned the excluded album %s again", second.Album)
	}
}

// TestResolvePlaceholderOnlyOnBestEffort checks that the fallback provider
// is consulted for best-effort queries only.
func TestResolvePlaceholderOnlyOnBestEffort(t *testing.T) {
	p1 := &stubProvider{k: ProviderNetEase}

	appFS := afero.NewMemMapFs()
	c := newTestClient(appFS, p1, &placeholderProvider{})

	_, err := c.ResolveCover(context.Background(), NewQuery("artist", "title", nil))
	if !errors.Is(err, ErrCoverNotFound) {
		t.Fatalf("expected ErrCoverNotFound without best effort, got `%v`", err)
	}

	q := NewQuery("artist", "title", nil)
	q.BestEffort = true

	resolved, err := c.ResolveCover(context.Background(), q)
	if err != nil {
		t.Fatalf("expected a placeholder cover but got error `%s`", err)
	}
	if resolved.Provider != ProviderFallback {
		t.Errorf("expected provenance %s but got %s", ProviderFallback, resolved.Provider)
	}

	st, err := appFS.Stat("app_storage/covers/" + resolved.Filename)
	if err != nil {
		t.Fatalf("placeholder cover was not stored: %s", err)
	}
	if st.Size() < 1 {
		t.Error("placeholder cover file is empty")
	}
}

// TestResolveCancelledContext makes sure caller cancellation stops the
// provider walk instead of degrading to the next provider.
func TestResolveCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p1 := &stubProvider{k: ProviderNetEase, err: ctx.Err()}
	p2 := &stubProvider{k: ProviderQQMusic}

	c := newTestClient(afero.NewMemMapFs(), p1, p2)

	_, err := c.ResolveCover(ctx, NewQuery("artist", "title", nil))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled but got `%v`", err)
	}
	if p2.calls != 0 {
		t.Error("providers were queried after the caller went away")
	}
}

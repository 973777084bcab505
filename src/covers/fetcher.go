package covers

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"

	"github.com/pborman/uuid"
	"github.com/spf13/afero"
)

// imageLimitSize is the maximum accepted size of a downloaded cover image.
const imageLimitSize = 1024 * 1024 * 5

// fetch downloads the image of the selected candidate and stores it under
// the covers directory with a freshly generated name. For candidates of the
// fallback provider no download happens, the image is synthesized locally.
func (c *Client) fetch(ctx context.Context, cand Candidate) (*Resolved, error) {
	var (
		imgBytes []byte
		err      error
	)

	if cand.Provider == ProviderFallback {
		imgBytes, err = placeholderImage(cand.fill)
	} else {
		imgBytes, err = c.downloadImage(ctx, cand)
	}
	if err != nil {
		return nil, err
	}

	filename := coverFilename()
	relPath := path.Join(coversDir, filename)

	if err := c.storeCover(relPath, imgBytes); err != nil {
		return nil, fmt.Errorf("storing cover image failed: %w", err)
	}

	return &Resolved{
		Filename: filename,
		Path:     relPath,
		Provider: cand.Provider,
		Album:    cand.Album,
	}, nil
}

// downloadImage makes a single GET request for the candidate image with the
// provider-appropriate headers set.
func (c *Client) downloadImage(
	ctx context.Context,
	cand Candidate,
) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, cand.URL, nil)
	if err != nil {
		return nil, fmt.Errorf(
			"malformed image URL reported by %s (%s): %w",
			cand.Provider,
			cand.URL,
			err,
		)
	}

	req.Header.Set("User-Agent", c.useragent)

	// The regional catalogues serve their images only to requests which look
	// like they came from their own web players.
	switch cand.Provider {
	case ProviderNetEase:
		req.Header.Set("Referer", neteaseReferer)
	case ProviderQQMusic:
		req.Header.Set("Referer", qqmusicReferer)
	}

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()
	req = req.WithContext(ctx)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cover image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cover image server returned HTTP %d", resp.StatusCode)
	}

	imgBytes, err := io.ReadAll(io.LimitReader(resp.Body, imageLimitSize))
	if (err == nil || errors.Is(err, io.EOF)) && len(imgBytes) == imageLimitSize {
		return nil, ErrImageTooBig
	}
	if err != nil {
		return nil, fmt.Errorf("reading cover image failed: %w", err)
	}

	return imgBytes, nil
}

// storeCover writes the image bytes under the storage root. The write is
// done in a temporary file first so that a resolved cover either exists
// whole or not at all.
func (c *Client) storeCover(relPath string, data []byte) error {
	full := filepath.Join(c.storagePath, filepath.FromSlash(relPath))

	if err := c.fs.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return err
	}

	tmp := full + ".part"
	if err := afero.WriteFile(c.fs, tmp, data, 0666); err != nil {
		return err
	}

	if err := c.fs.Rename(tmp, full); err != nil {
		_ = c.fs.Remove(tmp)
		return err
	}

	return nil
}

// coverFilename generates the storage name for a new cover. Every call
// returns a fresh random 128-bit hex name so concurrent resolutions cannot
// collide and nothing of the remote filename survives.
func coverFilename() string {
	return hex.EncodeToString(uuid.NewRandom()) + ".jpg"
}

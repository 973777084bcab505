package covers

import (
	"context"
	"errors"
	"log"
)

// ResolveCover implements Finder by walking the providers in priority order.
//
// A provider which errors out, returns nothing, or returns only excluded or
// undownloadable candidates does not abort the resolution. The pipeline
// simply degrades to the next provider and only reports ErrCoverNotFound
// once all of them are exhausted. Providers are queried strictly one after
// another: an earlier catalogue is preferred even when it is slower.
func (c *Client) ResolveCover(ctx context.Context, q Query) (*Resolved, error) {
	for _, prov := range c.providers {
		if prov.kind() == ProviderFallback && !q.BestEffort {
			continue
		}

		candidates, err := prov.search(ctx, q.Artist, q.Title)
		if errors.Is(err, context.Canceled) {
			// The caller is gone. No point in asking anyone else.
			return nil, err
		} else if errors.Is(err, errNoLastFMAuth) {
			// Nothing to log, this is a result of the server configuration.
			continue
		} else if err != nil {
			log.Printf("cover search with %s failed: %s\n", prov.kind(), err)
			continue
		}

		selected := selectCandidate(candidates, q.Exclude)
		if selected == nil {
			continue
		}

		resolved, err := c.fetch(ctx, *selected)
		if errors.Is(err, context.Canceled) {
			return nil, err
		} else if err != nil {
			log.Printf(
				"downloading cover %s from %s failed: %s\n",
				selected.URL,
				prov.kind(),
				err,
			)
			continue
		}

		return resolved, nil
	}

	return nil, ErrCoverNotFound
}

package covers

import "context"

// Disabled is a Finder for servers which turned the cover pipeline off. It
// reports every cover as not found, which the callers already treat as a
// normal outcome.
type Disabled struct{}

// ResolveCover implements Finder by finding nothing.
func (Disabled) ResolveCover(_ context.Context, _ Query) (*Resolved, error) {
	return nil, ErrCoverNotFound
}

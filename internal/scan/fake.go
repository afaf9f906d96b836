package scan

import "context"

// FakeSource replays a fixed list of adverts.
type FakeSource struct {
	Adverts []Advert

	// ScanError, if set, is returned after the adverts are replayed.
	ScanError error
}

// Scan delivers each advert in order, stopping early if ctx is done.
func (f *FakeSource) Scan(ctx context.Context, fn func(Advert)) error {
	for _, a := range f.Adverts {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(a)
	}
	if f.ScanError != nil {
		return f.ScanError
	}
	return ctx.Err()
}

package layout

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ChaseRain/deckgen/internal/deck"
	"github.com/ChaseRain/deckgen/internal/draw"
)

// Page is the laid-out form of one slide in render order.
type Page struct {
	Index    int            `json:"index"`
	Kind     deck.Kind      `json:"kind"`
	Notes    string         `json:"notes,omitempty"`
	Commands []draw.Command `json:"commands"`
}

// Deck lays out every slide of d in render order, including the generated
// title slide. Slides are laid out concurrently with at most workers
// goroutines; workers <= 0 means no limit.
func Deck(ctx context.Context, d deck.Deck, compact bool, workers int) ([]Page, error) {
	slides := d.Sequence()
	pages := make([]Page, len(slides))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, s := range slides {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			page := Page{Index: i, Kind: deck.KindBullets}
			if s != nil {
				page.Kind = s.Kind()
				page.Notes = s.Common().Notes
			}
			page.Commands = Slide(s, d.Theme, i, compact)
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

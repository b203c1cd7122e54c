// Package export builds the printable, self-contained HTML rendition of a deck.
//
//go:generate go run github.com/a-h/templ/cmd/templ generate
package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"PitchDeck/internal/domain/models"
	"PitchDeck/pkg/format"
)

const dateLayout = "January 2, 2006"

// Options controls a document build. Charts maps chart id to rendered SVG;
// a chart missing from the map is drawn as a placeholder.
type Options struct {
	Company    string
	Date       time.Time
	PrintDelay time.Duration
	AutoPrint  bool
	Charts     map[string][]byte
}

// BuildDocument renders the whole export document into memory.
func BuildDocument(ctx context.Context, deck *models.Deck, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Document(deck, opts).Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("build export document: %w", err)
	}
	return buf.Bytes(), nil
}

func companyName(deck *models.Deck, opts Options) string {
	if opts.Company != "" {
		return opts.Company
	}
	return deck.Company
}

func generatedOn(opts Options) time.Time {
	if opts.Date.IsZero() {
		return time.Now()
	}
	return opts.Date
}

func ebitdaMargin(r models.FinancialRow) string {
	if r.Revenue == 0 {
		return format.NotAvailable
	}
	return format.FormatPercentage(r.EBITDA / r.Revenue * 100)
}

func changeDirection(change float64) string {
	if change < 0 {
		return "down"
	}
	return "up"
}

func styleTag() string {
	return "<style>" + documentCSS + "</style>"
}

func printScript(delay time.Duration) string {
	if delay < 0 {
		delay = 0
	}
	return fmt.Sprintf(`<script>window.addEventListener("load",function(){setTimeout(function(){window.print()},%d)});</script>`, delay.Milliseconds())
}

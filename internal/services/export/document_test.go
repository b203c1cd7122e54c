package export

import (
	"context"
	"strings"
	"testing"
	"time"

	"PitchDeck/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDeck() *models.Deck {
	return &models.Deck{
		Title:   "Plan <2025>",
		Company: "Acme",
		Tagline: "Robots & more",
		Financials: []models.FinancialRow{
			{Year: 2025, Revenue: 4_200_000, EBITDA: -1_800_000, Customers: 1200},
			{Year: 2026, Revenue: 0, EBITDA: 0, Customers: 0},
		},
		Slides: []models.Slide{
			{
				ID:      "summary",
				Title:   "Executive Summary",
				Metrics: []models.MetricCard{{Label: "ARR", Value: 4_200_000, Unit: "currency", Change: 12.5}},
				Charts: []models.ChartSpec{
					{ID: "rev", Type: models.ChartBar, Title: "Revenue"},
					{ID: "tam", Type: models.ChartSunburst, Title: "Market"},
				},
			},
		},
	}
}

func TestBuildDocument(t *testing.T) {
	doc, err := BuildDocument(context.Background(), sampleDeck(), Options{
		Date:       time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		PrintDelay: 500 * time.Millisecond,
		AutoPrint:  true,
		Charts:     map[string][]byte{"rev": []byte(`<svg id="rev-svg"></svg>`)},
	})
	require.NoError(t, err)
	html := string(doc)

	assert.True(t, strings.HasPrefix(strings.ToLower(html), "<!doctype html>"))
	assert.Contains(t, html, "<style>")
	assert.Contains(t, html, "Plan &lt;2025&gt;")
	assert.Contains(t, html, "Robots &amp; more")
	assert.Contains(t, html, "Generated March 4, 2025")
	assert.Contains(t, html, "Financial Summary")
	assert.Contains(t, html, "$4.2M")
	assert.Contains(t, html, "-$1.8M")
	assert.Contains(t, html, "-42.9%")
	assert.Contains(t, html, "1,200")
	assert.Contains(t, html, "N/A")
	assert.Contains(t, html, `<svg id="rev-svg"></svg>`)
	assert.Contains(t, html, "Market (interactive chart)")
	assert.Contains(t, html, "+12.5%")
	assert.Contains(t, html, "setTimeout(function(){window.print()},500)")
	assert.Contains(t, html, "grid grid-cols-1")

	assert.NotContains(t, html, "<link")
	assert.NotContains(t, html, "src=")
}

func TestBuildDocument_WithoutAutoPrint(t *testing.T) {
	d := sampleDeck()
	d.Financials = nil

	doc, err := BuildDocument(context.Background(), d, Options{Company: "Override Inc"})
	require.NoError(t, err)
	html := string(doc)

	assert.NotContains(t, html, "window.print")
	assert.NotContains(t, html, "Financial Summary")
	assert.Contains(t, html, "Override Inc")
}

func TestChartFigure_EscapesAttributes(t *testing.T) {
	var buf strings.Builder
	spec := &models.ChartSpec{ID: `x" onload="alert(1)`, Title: "<b>Revenue</b>"}
	require.NoError(t, ChartFigure(spec, nil).Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, `data-chart="x&#34; onload=&#34;alert(1)"`)
	assert.Contains(t, html, "&lt;b&gt;Revenue&lt;/b&gt; (interactive chart)")
	assert.NotContains(t, html, "<b>")
}

func TestMetricCard_ChangeDirection(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, MetricCard(models.MetricCard{Label: "Churn", Value: 2, Change: -0.5}).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), `class="change down"`)
	assert.Contains(t, buf.String(), "-0.5%")
}

package roadmap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PitchDeck/internal/domain/models"
)

func ms(y int, m time.Month, d int) int64 {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).UnixMilli()
}

func TestPrepareData_SinglePhase(t *testing.T) {
	req := models.RoadmapRequest{
		Phases: []models.Phase{{
			Name:       "Alpha",
			Start:      "2025-01-01",
			End:        "2025-06-01",
			Milestones: []models.Milestone{{Name: "M1", Date: "2025-03-01"}},
		}},
		Years: []int{2025},
	}

	got, err := PrepareData(req)
	require.NoError(t, err)

	assert.Equal(t, ms(2025, 1, 1), got.MinDate)
	assert.Equal(t, ms(2025, 6, 1), got.MaxDate)

	require.Len(t, got.TableData, 1)
	row := got.TableData[0]
	assert.Equal(t, "5 months", row.Duration)
	assert.Equal(t, "Jan 2025", row.Start)
	assert.Equal(t, "Jun 2025", row.End)
	assert.Equal(t, 1, row.Milestones)

	require.Len(t, got.Series, 1)
	bar := got.Series[0].Data[0]
	assert.Equal(t, "Alpha", bar.X)
	assert.Equal(t, [2]int64{ms(2025, 1, 1), ms(2025, 6, 1)}, bar.Y)
	assert.Equal(t, "#3B82F6", bar.FillColor)
	require.Len(t, bar.Goals, 1)
	assert.Equal(t, models.Goal{Name: "M1", Value: ms(2025, 3, 1), StrokeColor: "#3B82F6"}, bar.Goals[0])

	require.Len(t, got.Annotations.Points, 1)
	assert.Equal(t, "Alpha", got.Annotations.Points[0].Y)
	assert.Equal(t, []models.YearMarker{{X: ms(2025, 1, 1), Label: "2025"}}, got.Annotations.YearMarkers)

	assert.Equal(t, req.Phases, got.Phases)
	assert.Equal(t, []string{"#3B82F6"}, got.Colors)
}

func TestPrepareData_MilestoneExtendsBounds(t *testing.T) {
	got, err := PrepareData(models.RoadmapRequest{Phases: []models.Phase{
		{Name: "Build", Start: "2025-02-01", End: "2025-04-01", Milestones: []models.Milestone{
			{Name: "Kickoff", Date: "2025-01-15", Color: "#000000"},
		}},
		{Name: "Scale", Start: "2025-04-01", End: "2026-01-01"},
	}})
	require.NoError(t, err)

	assert.Equal(t, ms(2025, 1, 15), got.MinDate)
	assert.Equal(t, ms(2026, 1, 1), got.MaxDate)
	assert.Equal(t, "#000000", got.Series[0].Data[0].Goals[0].StrokeColor)
	assert.Equal(t, "#10B981", got.Series[1].Data[0].FillColor)
	assert.Equal(t, "9 months", got.TableData[1].Duration)
}

func TestPrepareData_Errors(t *testing.T) {
	_, err := PrepareData(models.RoadmapRequest{})
	assert.ErrorIs(t, err, ErrNoPhases)

	_, err = PrepareData(models.RoadmapRequest{Phases: []models.Phase{{Name: "A", Start: "someday", End: "2025-01-01"}}})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = PrepareData(models.RoadmapRequest{Phases: []models.Phase{{Name: "A", Start: "2025-05-01", End: "2025-01-01"}}})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = PrepareData(models.RoadmapRequest{Phases: []models.Phase{{
		Name: "A", Start: "2025-01-01", End: "2025-02-01",
		Milestones: []models.Milestone{{Name: "bad", Date: "2025-02-30"}},
	}}})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestCalculateDuration(t *testing.T) {
	d := func(y int, m time.Month) time.Time { return time.Date(y, m, 20, 0, 0, 0, 0, time.UTC) }

	assert.Equal(t, 0, CalculateDuration(d(2025, 3), d(2025, 3)))
	assert.Equal(t, 5, CalculateDuration(d(2025, 1), d(2025, 6)))
	assert.Equal(t, 14, CalculateDuration(d(2024, 11), d(2026, 1)))

	for sy := 2024; sy <= 2026; sy++ {
		for sm := time.January; sm <= time.December; sm++ {
			for k := 0; k < 30; k++ {
				start := d(sy, sm)
				end := start.AddDate(0, k, 0)
				assert.Equal(t, k, CalculateDuration(start, end))
			}
		}
	}

	assert.Equal(t, "1 month", FormatDuration(1))
	assert.Equal(t, "0 months", FormatDuration(0))
	assert.Equal(t, "12 months", FormatDuration(12))
}

func TestGenerateColors(t *testing.T) {
	for n := 0; n <= 8; n++ {
		assert.Equal(t, BrandColors[:n], GenerateColors(n))
	}

	got := GenerateColors(11)
	require.Len(t, got, 11)
	assert.Equal(t, BrandColors, got[:8])
	// 8*137.5 = 1100 -> 20; 9*137.5 = 1237.5 -> 157.5; 10*137.5 = 1375 -> 295
	assert.Equal(t, []string{"hsl(20, 70%, 50%)", "hsl(157.5, 70%, 50%)", "hsl(295, 70%, 50%)"}, got[8:])
}

func TestResolveColors(t *testing.T) {
	got := ResolveColors(3, []string{"#111111", "", "#333333", "#444444"})
	assert.Equal(t, []string{"#111111", "#10B981", "#333333"}, got)
}

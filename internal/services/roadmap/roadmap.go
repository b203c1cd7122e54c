package roadmap

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"PitchDeck/internal/domain/models"
	"PitchDeck/pkg/util"
)

var (
	ErrNoPhases     = errors.New("roadmap: no phases")
	ErrInvalidDate  = errors.New("roadmap: invalid date")
	ErrInvalidRange = errors.New("roadmap: end before start")
)

// PrepareData reshapes phases, milestones and years into range-bar chart data.
func PrepareData(req models.RoadmapRequest) (*models.RoadmapChartData, error) {
	if len(req.Phases) == 0 {
		return nil, ErrNoPhases
	}

	colors := ResolveColors(len(req.Phases), req.Colors)
	out := &models.RoadmapChartData{
		Series:    make([]models.RoadmapSeries, 0, len(req.Phases)),
		TableData: make([]models.RoadmapTableRow, 0, len(req.Phases)),
		Annotations: models.Annotations{
			Points:      []models.AnnotationPoint{},
			YearMarkers: make([]models.YearMarker, 0, len(req.Years)),
		},
		Phases: req.Phases,
		Colors: colors,
	}

	var lo, hi time.Time
	extend := func(t time.Time) {
		if lo.IsZero() || t.Before(lo) {
			lo = t
		}
		if hi.IsZero() || t.After(hi) {
			hi = t
		}
	}

	for i, p := range req.Phases {
		start, err := parse(p.Start, p.Name, "start")
		if err != nil {
			return nil, err
		}
		end, err := parse(p.End, p.Name, "end")
		if err != nil {
			return nil, err
		}
		if end.Before(start) {
			return nil, fmt.Errorf("phase %q %s > %s: %w", p.Name, p.Start, p.End, ErrInvalidRange)
		}
		extend(start)
		extend(end)

		color := colors[i]
		goals := make([]models.Goal, 0, len(p.Milestones))
		for _, m := range p.Milestones {
			at, err := parse(m.Date, p.Name+"/"+m.Name, "date")
			if err != nil {
				return nil, err
			}
			extend(at)

			stroke := m.Color
			if stroke == "" {
				stroke = color
			}
			goals = append(goals, models.Goal{Name: m.Name, Value: at.UnixMilli(), StrokeColor: stroke})
			out.Annotations.Points = append(out.Annotations.Points, models.AnnotationPoint{
				X:         at.UnixMilli(),
				Y:         p.Name,
				FillColor: stroke,
				Label:     m.Name,
			})
		}

		out.Series = append(out.Series, models.RoadmapSeries{
			Name: p.Name,
			Data: []models.RangeBar{{
				X:         p.Name,
				Y:         [2]int64{start.UnixMilli(), end.UnixMilli()},
				FillColor: color,
				Goals:     goals,
			}},
		})

		months := CalculateDuration(start, end)
		out.TableData = append(out.TableData, models.RoadmapTableRow{
			Phase:      p.Name,
			Start:      util.MonthYear(start),
			End:        util.MonthYear(end),
			Duration:   FormatDuration(months),
			Months:     months,
			Milestones: len(p.Milestones),
		})
	}

	for _, y := range req.Years {
		out.Annotations.YearMarkers = append(out.Annotations.YearMarkers, models.YearMarker{
			X:     util.YearStart(y).UnixMilli(),
			Label: strconv.Itoa(y),
		})
	}

	out.MinDate = lo.UnixMilli()
	out.MaxDate = hi.UnixMilli()
	return out, nil
}

func parse(s, owner, field string) (time.Time, error) {
	t, ok := util.ParseTime(s)
	if !ok {
		return time.Time{}, fmt.Errorf("%s %s %q: %w", owner, field, s, ErrInvalidDate)
	}
	return t, nil
}

// CalculateDuration counts calendar months between start and end; days are ignored.
func CalculateDuration(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
}

func FormatDuration(months int) string {
	if months == 1 {
		return "1 month"
	}
	return strconv.Itoa(months) + " months"
}

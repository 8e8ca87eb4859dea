package dashboard

import (
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/speedwagon-io/crowdwatch/internal/model"
)

var (
	colorDarkOrange = drawing.Color{R: 255, G: 140, B: 0, A: 255}
	colorOrange     = drawing.Color{R: 255, G: 165, B: 0, A: 255}
	colorLightGray  = drawing.Color{R: 211, G: 211, B: 211, A: 255}
)

const (
	chartWidth  = 900
	chartHeight = 300
	areaAlpha   = 90
)

type SeriesSpec struct {
	Name    string
	Color   drawing.Color
	XValues []time.Time
	YValues []float64
}

// ChartSpec describes one sensor chart independently of how it is drawn.
type ChartSpec struct {
	Title      string
	XAxisTitle string
	YAxisTitle string
	TickFormat string
	// Location the tick labels are shown in: the zone of the reading itself.
	Location *time.Location
	YMin       float64
	YMax       float64
	Width      int
	Height     int
	Series     []SeriesSpec
}

// SplitReadTime splits a timestamp on the literal "T" the way the chart
// title shows it.
func SplitReadTime(readTime string) (date, clock string, err error) {
	parts := strings.Split(readTime, "T")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("%w: %q has no \"T\" separator", ErrTimestampFormat, readTime)
	}
	return parts[0], parts[1], nil
}

func ChartTitle(sensorDesc, readTime string) (string, error) {
	date, clock, err := SplitReadTime(readTime)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s | Date: %s | Time: %s", sensorDesc, date, clock), nil
}

func BuildChart(points []model.SeriesPoint, sensorDesc, readTime string) (*ChartSpec, error) {
	title, err := ChartTitle(sensorDesc, readTime)
	if err != nil {
		return nil, err
	}

	loc := time.UTC
	if len(points) > 0 {
		loc = points[0].Time.Location()
	}

	times := make([]time.Time, len(points))
	percentages := make([]float64, len(points))
	intermissions := make([]float64, len(points))
	for i, p := range points {
		times[i] = p.Time
		percentages[i] = p.Percentage
		intermissions[i] = p.Intermission
	}

	return &ChartSpec{
		Title:      title,
		XAxisTitle: "Time of Day",
		YAxisTitle: "Percentage",
		TickFormat: "15:04",
		Location:   loc,
		YMin:       0,
		YMax:       100,
		Width:      chartWidth,
		Height:     chartHeight,
		Series: []SeriesSpec{
			{Name: "Percentage", Color: colorDarkOrange, XValues: times, YValues: percentages},
			{Name: "Intermission", Color: colorOrange, XValues: times, YValues: intermissions},
		},
	}, nil
}

// timeTickFormatter formats x values in loc. go-chart's own time formatter
// converts through time.Unix, which lands in the host's zone.
func timeTickFormatter(format string, loc *time.Location) chart.ValueFormatter {
	if loc == nil {
		loc = time.UTC
	}
	return func(v interface{}) string {
		switch val := v.(type) {
		case time.Time:
			return val.In(loc).Format(format)
		case float64:
			return time.Unix(0, int64(val)).In(loc).Format(format)
		case int64:
			return time.Unix(0, val).In(loc).Format(format)
		default:
			return ""
		}
	}
}

// Chart builds the go-chart definition; both series are drawn as filled areas.
// go-chart writes text into the SVG verbatim, so every label is escaped here.
func (c *ChartSpec) Chart() *chart.Chart {
	series := make([]chart.Series, 0, len(c.Series))
	for _, s := range c.Series {
		series = append(series, chart.TimeSeries{
			Name:    html.EscapeString(s.Name),
			XValues: s.XValues,
			YValues: s.YValues,
			Style: chart.Style{
				StrokeColor: s.Color,
				StrokeWidth: 2,
				FillColor:   s.Color.WithAlpha(areaAlpha),
			},
		})
	}

	grid := chart.Style{StrokeColor: colorLightGray, StrokeWidth: 1}

	ch := &chart.Chart{
		Title:      html.EscapeString(c.Title),
		TitleStyle: chart.Style{FontSize: 18, FontColor: drawing.ColorBlack},
		Width:      c.Width,
		Height:     c.Height,
		Background: chart.Style{
			FillColor: drawing.ColorWhite,
			Padding:   chart.Box{Top: 50, Left: 20, Right: 40, Bottom: 20},
		},
		Canvas: chart.Style{FillColor: drawing.ColorWhite},
		XAxis: chart.XAxis{
			Name:           html.EscapeString(c.XAxisTitle),
			ValueFormatter: timeTickFormatter(c.TickFormat, c.Location),
			GridMajorStyle: grid,
		},
		YAxis: chart.YAxis{
			Name:           html.EscapeString(c.YAxisTitle),
			Range:          &chart.ContinuousRange{Min: c.YMin, Max: c.YMax},
			GridMajorStyle: grid,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.LegendLeft(ch)}

	return ch
}

func (c *ChartSpec) RenderSVG(w io.Writer) error {
	if err := c.Chart().Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render chart %q: %w", c.Title, err)
	}
	return nil
}

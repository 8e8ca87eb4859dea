package dashboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/speedwagon-io/crowdwatch/internal/model"
)

const (
	SeriesLength = 10
	SeriesStep   = 15 * time.Minute
)

var ErrTimestampFormat = errors.New("unrecognised timestamp format")

// Upstream timestamps are ISO-8601 without a guaranteed offset. Naive values
// are taken as UTC.
var readTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func ParseReadTime(value string) (time.Time, error) {
	for _, layout := range readTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrTimestampFormat, value)
}

// Synthesize fabricates a short series around a single reading so the chart
// has something to draw. It is a pure function of the reading.
func Synthesize(sensor model.DisplaySensor) ([]model.SeriesPoint, error) {
	start, err := ParseReadTime(sensor.DataReadTime)
	if err != nil {
		return nil, err
	}

	waitBase := sensor.WaitMinutes()

	points := make([]model.SeriesPoint, SeriesLength)
	for i := range points {
		points[i] = model.SeriesPoint{
			Time:         start.Add(time.Duration(i) * SeriesStep),
			Percentage:   float64(sensor.SensorPercentage + (i*3)%30),
			Intermission: waitBase + float64(i%10),
		}
	}

	return points, nil
}

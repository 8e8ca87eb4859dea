package dashboard

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/speedwagon-io/crowdwatch/internal/config"
	"github.com/speedwagon-io/crowdwatch/internal/model"
)

// BusyThreshold is the first percentage classified as busy.
const BusyThreshold = 50

type Emotion struct {
	Label string
	Color string
}

var (
	EmotionCalm = Emotion{Label: "Calm", Color: "yellow"}
	EmotionBusy = Emotion{Label: "Busy", Color: "red"}
)

func ClassifyEmotion(percentage int) Emotion {
	if percentage < BusyThreshold {
		return EmotionCalm
	}
	return EmotionBusy
}

// Alert is a static banner. Its Color is a Bootstrap contextual class name.
type Alert struct {
	Message string
	Color   string
}

func AlertsFromConfig(alerts []config.AlertConfig) []Alert {
	out := make([]Alert, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, Alert{Message: a.Message, Color: a.Color})
	}
	return out
}

type Card struct {
	Sensor   model.DisplaySensor
	Emotion  Emotion
	WaitTime string
	Chart    *ChartSpec
	ChartSVG template.HTML
	Alerts   []Alert
}

func ComposeCard(sensor model.DisplaySensor, alerts []Alert) (*Card, error) {
	points, err := Synthesize(sensor)
	if err != nil {
		return nil, err
	}

	spec, err := BuildChart(points, sensor.SensorDesc, sensor.DataReadTime)
	if err != nil {
		return nil, err
	}

	var svg bytes.Buffer
	if err := spec.RenderSVG(&svg); err != nil {
		return nil, err
	}

	return &Card{
		Sensor:   sensor,
		Emotion:  ClassifyEmotion(sensor.SensorPercentage),
		WaitTime: formatMinutes(sensor.WaitMinutes()),
		Chart:    spec,
		// Chart escapes every label it hands to go-chart.
		ChartSVG: template.HTML(svg.String()),
		Alerts:   alerts,
	}, nil
}

// formatMinutes always keeps one decimal place for whole numbers: 5 -> "5.0",
// 12.5 -> "12.5".
func formatMinutes(minutes float64) string {
	s := strconv.FormatFloat(minutes, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func cardError(sensor model.DisplaySensor, err error) error {
	return fmt.Errorf("failed to compose card for %q: %w", sensor.SensorDesc, err)
}

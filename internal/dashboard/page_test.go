package dashboard

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedwagon-io/crowdwatch/internal/config"
	"github.com/speedwagon-io/crowdwatch/internal/model"
)

func testPageConfig() config.PageConfig {
	return config.PageConfig{
		Title:     "POC: Real-time Crowd Intelligence",
		LeftLogo:  "/assets/amsys_logo.png",
		RightLogo: "/assets/royal_commission.jpeg",
		Alerts:    config.DefaultAlerts(),
	}
}

func newTestBuilder() *Builder {
	return NewBuilder(slog.New(slog.NewTextHandler(io.Discard, nil)), testPageConfig())
}

func TestBuilder_Build(t *testing.T) {
	snap := model.NewSnapshot("http://upstream", time.Now(), []model.DisplaySensor{
		{SensorDesc: "Jamara 1", NumberInline: 4, SensorPercentage: 30, ServeTimeFrames: 50, DataReadTime: "2024-05-01T14:30:00"},
		{SensorDesc: "BTW Jam 1&2", NumberInline: 9, SensorPercentage: 80, ServeTimeFrames: 125, DataReadTime: "2024-05-01T14:30:00"},
		{SensorDesc: "Jamara 2", NumberInline: 0, SensorPercentage: 50, ServeTimeFrames: 0, DataReadTime: "2024-05-01T14:30:00"},
	})

	page, err := newTestBuilder().Build(snap)
	require.NoError(t, err)
	require.Len(t, page.Cards, 3)
	assert.Equal(t, "BTW Jam 1&2", page.Cards[1].Sensor.SensorDesc)
	assert.Equal(t, EmotionBusy, page.Cards[1].Emotion)

	out, err := page.Render()
	require.NoError(t, err)
	html := string(out)

	assert.Equal(t, 3, strings.Count(html, `class="row mb-4 sensor-card"`))
	assert.Contains(t, html, "POC: Real-time Crowd Intelligence")
	assert.Contains(t, html, `src="/assets/amsys_logo.png"`)
	assert.Contains(t, html, `src="/assets/royal_commission.jpeg"`)
	assert.Contains(t, html, "BTW Jam 1&amp;2")
	assert.Contains(t, html, "Number of people: 9")
	assert.Contains(t, html, "WaitTime: 12.5 Minutes")
	assert.Contains(t, html, "Emotion: Calm")
	assert.Contains(t, html, "Emotion: Busy")
	assert.Equal(t, 3, strings.Count(html, "Alert 2: Another alert message"))
	assert.Equal(t, 3, strings.Count(html, "<svg"))

	first := strings.Index(html, "Jamara 1")
	second := strings.Index(html, "BTW Jam 1&amp;2")
	third := strings.Index(html, "Jamara 2")
	assert.True(t, first < second && second < third, "cards out of order")
}

func TestBuilder_Build_NoSensors(t *testing.T) {
	snap := model.NewSnapshot("http://upstream", time.Now(), nil)

	page, err := newTestBuilder().Build(snap)
	require.NoError(t, err)
	assert.Empty(t, page.Cards)

	out, err := page.Render()
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "POC: Real-time Crowd Intelligence")
	assert.Contains(t, html, "<hr>")
	assert.NotContains(t, html, "sensor-card")
	assert.NotContains(t, html, "<svg")
}

func TestBuilder_Build_FatalTimestamp(t *testing.T) {
	snap := model.NewSnapshot("http://upstream", time.Now(), []model.DisplaySensor{
		{SensorDesc: "Jamara 1", SensorPercentage: 30, ServeTimeFrames: 50, DataReadTime: "2024-05-01 14:30:00"},
	})

	_, err := newTestBuilder().Build(snap)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimestampFormat)
	assert.Contains(t, err.Error(), "Jamara 1")
}

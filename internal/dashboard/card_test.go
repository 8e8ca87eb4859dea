package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedwagon-io/crowdwatch/internal/config"
)

func TestClassifyEmotion(t *testing.T) {
	assert.Equal(t, EmotionCalm, ClassifyEmotion(0))
	assert.Equal(t, EmotionCalm, ClassifyEmotion(49))
	assert.Equal(t, EmotionBusy, ClassifyEmotion(50))
	assert.Equal(t, EmotionBusy, ClassifyEmotion(100))

	assert.Equal(t, "Calm", ClassifyEmotion(49).Label)
	assert.Equal(t, "yellow", ClassifyEmotion(49).Color)
	assert.Equal(t, "Busy", ClassifyEmotion(50).Label)
	assert.Equal(t, "red", ClassifyEmotion(50).Color)
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "5.0", formatMinutes(5))
	assert.Equal(t, "12.5", formatMinutes(12.5))
	assert.Equal(t, "0.7", formatMinutes(0.7))
	assert.Equal(t, "0.0", formatMinutes(0))
}

func TestComposeCard(t *testing.T) {
	alerts := AlertsFromConfig(config.DefaultAlerts())

	card, err := ComposeCard(sensor(49, 50, "2024-05-01T14:30:00"), alerts)
	require.NoError(t, err)

	assert.Equal(t, EmotionCalm, card.Emotion)
	assert.Equal(t, "5.0", card.WaitTime)
	assert.Equal(t, "Jamara 1 | Date: 2024-05-01 | Time: 14:30:00", card.Chart.Title)
	assert.Contains(t, string(card.ChartSVG), "<svg")
	require.Len(t, card.Alerts, 3)
	assert.Equal(t, Alert{Message: "Alert 1: Sample alert message", Color: "warning"}, card.Alerts[0])
	assert.Equal(t, "danger", card.Alerts[1].Color)
	assert.Equal(t, "info", card.Alerts[2].Color)
}

func TestComposeCard_BadTimestamp(t *testing.T) {
	_, err := ComposeCard(sensor(10, 10, "not a time"), nil)
	assert.ErrorIs(t, err, ErrTimestampFormat)
}

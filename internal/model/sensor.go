package model

import "time"

// RawSensorReading is one entry of the upstream SensorList as delivered.
// Numeric fields arrive as numbers or numeric strings depending on the feed.
type RawSensorReading struct {
	NumberInline     any `json:"NumberInline"`
	SensorPercentage any `json:"SensorPercentage"`
	ServeTimeFrames  any `json:"ServeTimeFrames"`
	DataReadTime     any `json:"DataReadTime"`
}

type SensorList struct {
	SensorList []RawSensorReading `json:"SensorList"`
}

type DisplaySensor struct {
	SensorDesc       string `json:"SensorDesc"`
	NumberInline     int    `json:"NumberInline"`
	SensorPercentage int    `json:"SensorPercentage"`
	ServeTimeFrames  int    `json:"ServeTimeFrames"`
	DataReadTime     string `json:"DataReadTime"`
}

// WaitMinutes converts ServeTimeFrames into minutes.
func (s DisplaySensor) WaitMinutes() float64 {
	return float64(s.ServeTimeFrames) / 10
}

type SeriesPoint struct {
	Time         time.Time `json:"time"`
	Percentage   float64   `json:"percentage"`
	Intermission float64   `json:"intermission"`
}

const (
	FieldNumberInline     = "NumberInline"
	FieldSensorPercentage = "SensorPercentage"
	FieldServeTimeFrames  = "ServeTimeFrames"
	FieldDataReadTime     = "DataReadTime"
)

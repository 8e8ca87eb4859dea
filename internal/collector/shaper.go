package collector

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/speedwagon-io/crowdwatch/internal/model"
)

// MaxSensors is how many upstream entries are displayed. Entries past it are
// dropped without inspection.
const MaxSensors = 3

// SensorNames maps a sensor's position in the upstream list to its display
// name. Selection is positional only; upstream carries no stable IDs.
var SensorNames = []string{
	"Jamara 1",
	"BTW Jam 1&2",
	"Jamara 2",
}

var (
	ErrMissingField = errors.New("missing field")
	ErrNonNumeric   = errors.New("non-numeric value")
	ErrInvalidField = errors.New("invalid field")
	ErrUnnamed      = errors.New("no display name for sensor position")
)

// Shape turns the head of the raw list into display records. Any coercion
// failure aborts the whole shape.
func Shape(raw []model.RawSensorReading) ([]model.DisplaySensor, error) {
	if len(raw) > MaxSensors {
		raw = raw[:MaxSensors]
	}

	sensors := make([]model.DisplaySensor, 0, len(raw))
	for idx, reading := range raw {
		sensor, err := shapeOne(idx, reading)
		if err != nil {
			return nil, err
		}
		sensors = append(sensors, sensor)
	}

	return sensors, nil
}

func shapeOne(idx int, r model.RawSensorReading) (model.DisplaySensor, error) {
	if idx >= len(SensorNames) {
		return model.DisplaySensor{}, fmt.Errorf("%w: %d", ErrUnnamed, idx)
	}

	numberInline, err := toInt(r.NumberInline)
	if err != nil {
		return model.DisplaySensor{}, fieldError(idx, model.FieldNumberInline, err)
	}
	percentage, err := toInt(r.SensorPercentage)
	if err != nil {
		return model.DisplaySensor{}, fieldError(idx, model.FieldSensorPercentage, err)
	}
	serveTimeFrames, err := toInt(r.ServeTimeFrames)
	if err != nil {
		return model.DisplaySensor{}, fieldError(idx, model.FieldServeTimeFrames, err)
	}

	var readTime string
	switch v := r.DataReadTime.(type) {
	case nil:
		return model.DisplaySensor{}, fieldError(idx, model.FieldDataReadTime, ErrMissingField)
	case string:
		readTime = v
	default:
		return model.DisplaySensor{}, fieldError(idx, model.FieldDataReadTime,
			fmt.Errorf("%w: expected string, got %T", ErrInvalidField, v))
	}

	return model.DisplaySensor{
		SensorDesc:       SensorNames[idx],
		NumberInline:     numberInline,
		SensorPercentage: percentage,
		ServeTimeFrames:  serveTimeFrames,
		DataReadTime:     readTime,
	}, nil
}

func fieldError(idx int, field string, err error) error {
	return fmt.Errorf("sensor %d field %s: %w", idx, field, err)
}

// toInt follows integer-cast rules: floats truncate toward zero, strings
// must be base-10 integers.
func toInt(v any) (int, error) {
	switch val := v.(type) {
	case nil:
		return 0, ErrMissingField
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNonNumeric, val.String())
		}
		return int(f), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNonNumeric, val)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrNonNumeric, v)
	}
}

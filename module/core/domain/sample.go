package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Movement samples arrive with timestamps in a fixed human-readable format,
// e.g. "July 10, 2025 at 2:00:00 PM UTC-4". The offset is part of the wire
// contract; keep all parsing of it behind ParseSampleTime.
const (
	sampleTimeLayout = "January 2, 2006 at 3:04:05 PM"
	sampleTimeSuffix = " UTC-4"
)

var sampleTimeZone = time.FixedZone("UTC-4", -4*60*60)

var ErrBadTimestamp = errors.New("timestamp does not match expected format")

func ParseSampleTime(s string) (time.Time, error) {
	raw, ok := strings.CutSuffix(s, sampleTimeSuffix)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, s)
	}
	t, err := time.ParseInLocation(sampleTimeLayout, raw, sampleTimeZone)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, s)
	}
	return t, nil
}

type LocationSample struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	SpeedKmh  float64 `json:"speedKmh,omitempty"`
	SpeedMps  float64 `json:"speedMps,omitempty"`
	Timestamp string  `json:"timestamp"`
}

type TransportMode string

const (
	TransportWalking  TransportMode = "walking"
	TransportBicycle  TransportMode = "bicycle"
	TransportCar      TransportMode = "car"
	TransportAirplane TransportMode = "airplane"
)

// UnknownCountry is the sentinel used when reverse geocoding fails.
const UnknownCountry = "Unknown"

type TripSummary struct {
	Transportation TransportMode `json:"transportation"`
	DistanceKm     float64       `json:"distance_km"`
	Country        string        `json:"country"`
}

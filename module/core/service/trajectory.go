package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/CR1SI/CarbonFootPrinters/module/core/domain"
)

const earthRadiusKm = 6371

// Speed thresholds in km/h separating the transport classes.
const (
	walkingMaxKmh = 6
	bicycleMaxKmh = 25
	carMaxKmh     = 200
)

type CountryResolver interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

type TrajectoryService struct {
	geocoder CountryResolver
	logger   zerolog.Logger
}

func NewTrajectoryService(geocoder CountryResolver, logger zerolog.Logger) *TrajectoryService {
	return &TrajectoryService{geocoder: geocoder, logger: logger}
}

// Analyze classifies a recorded trajectory into a trip summary: total
// distance, dominant transport mode, and the country of the first
// sample. An empty trajectory yields a zero summary.
func (s *TrajectoryService) Analyze(ctx context.Context, samples []domain.LocationSample) (domain.TripSummary, error) {
	if len(samples) == 0 {
		return domain.TripSummary{}, nil
	}

	country := s.resolveCountry(ctx, samples[0])

	var totalKm, maxSpeed float64
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		d := haversineKm(prev.Latitude, prev.Longitude, cur.Latitude, cur.Longitude)
		totalKm += d

		speed := cur.SpeedKmh
		if speed <= 0 {
			derived, err := derivedSpeed(prev, cur, d)
			if err != nil {
				return domain.TripSummary{}, err
			}
			speed = derived
		}
		if speed > maxSpeed {
			maxSpeed = speed
		}
	}

	return domain.TripSummary{
		Transportation: classify(maxSpeed),
		DistanceKm:     round2(totalKm),
		Country:        country,
	}, nil
}

func (s *TrajectoryService) resolveCountry(ctx context.Context, first domain.LocationSample) string {
	country, err := s.geocoder.ReverseGeocode(ctx, first.Latitude, first.Longitude)
	if err != nil {
		s.logger.Warn().Err(err).
			Float64("lat", first.Latitude).
			Float64("lon", first.Longitude).
			Msg("reverse geocode failed, using unknown country")
		return domain.UnknownCountry
	}
	if country == "" {
		return domain.UnknownCountry
	}
	return country
}

// derivedSpeed falls back to distance over elapsed time when the
// sample carries no reported speed. Non-positive elapsed time yields
// zero rather than an absurd value.
func derivedSpeed(prev, cur domain.LocationSample, distKm float64) (float64, error) {
	t1, err := domain.ParseSampleTime(prev.Timestamp)
	if err != nil {
		return 0, fmt.Errorf("sample timestamp %q: %w", prev.Timestamp, err)
	}
	t2, err := domain.ParseSampleTime(cur.Timestamp)
	if err != nil {
		return 0, fmt.Errorf("sample timestamp %q: %w", cur.Timestamp, err)
	}

	hours := t2.Sub(t1).Hours()
	if hours <= 0 {
		return 0, nil
	}
	return distKm / hours, nil
}

func classify(maxSpeedKmh float64) domain.TransportMode {
	switch {
	case maxSpeedKmh < walkingMaxKmh:
		return domain.TransportWalking
	case maxSpeedKmh < bicycleMaxKmh:
		return domain.TransportBicycle
	case maxSpeedKmh < carMaxKmh:
		return domain.TransportCar
	default:
		return domain.TransportAirplane
	}
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

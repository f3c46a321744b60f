package weather

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ObservationStore is the append-only cache of past forecast observations.
// Rows are keyed by location and timestamp and never mutated after insert.
type ObservationStore interface {
	WriteBatch(ctx context.Context, observations []HourlyObservation) error
	ReadRecent(ctx context.Context, latitude, longitude float64, limit int) ([]HourlyObservation, error)
}

// PostgresObservationStore implements ObservationStore over Postgres
type PostgresObservationStore struct {
	db *sqlx.DB
}

// NewPostgresObservationStore creates a new Postgres-backed observation store
func NewPostgresObservationStore(db *sqlx.DB) *PostgresObservationStore {
	return &PostgresObservationStore{db: db}
}

// EnsureSchema creates the observation table when it does not exist yet
func (s *PostgresObservationStore) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS weather_observations (
			location_lat         DOUBLE PRECISION NOT NULL,
			location_lon         DOUBLE PRECISION NOT NULL,
			observed_at          TIMESTAMPTZ NOT NULL,
			temperature_2m       DOUBLE PRECISION,
			relative_humidity_2m DOUBLE PRECISION,
			precipitation        DOUBLE PRECISION,
			rain                 DOUBLE PRECISION,
			soil_moisture_0_1cm  DOUBLE PRECISION,
			wind_speed_10m       DOUBLE PRECISION,
			PRIMARY KEY (location_lat, location_lon, observed_at)
		)`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure observation schema: %w", err)
	}
	return nil
}

// WriteBatch appends a batch of hourly observations
func (s *PostgresObservationStore) WriteBatch(ctx context.Context, observations []HourlyObservation) error {
	if len(observations) == 0 {
		return nil
	}

	query := `
		INSERT INTO weather_observations (
			location_lat, location_lon, observed_at,
			temperature_2m, relative_humidity_2m, precipitation, rain,
			soil_moisture_0_1cm, wind_speed_10m
		) VALUES (
			:location_lat, :location_lon, :observed_at,
			:temperature_2m, :relative_humidity_2m, :precipitation, :rain,
			:soil_moisture_0_1cm, :wind_speed_10m
		)
		ON CONFLICT DO NOTHING`

	if _, err := s.db.NamedExecContext(ctx, query, observations); err != nil {
		return fmt.Errorf("failed to write weather observations: %w", err)
	}

	return nil
}

// ReadRecent returns the most recent observations for a location, newest first
func (s *PostgresObservationStore) ReadRecent(ctx context.Context, latitude, longitude float64, limit int) ([]HourlyObservation, error) {
	query := `
		SELECT location_lat, location_lon, observed_at,
		       temperature_2m, relative_humidity_2m, precipitation, rain,
		       soil_moisture_0_1cm, wind_speed_10m
		FROM weather_observations
		WHERE location_lat = $1 AND location_lon = $2
		ORDER BY observed_at DESC
		LIMIT $3`

	var observations []HourlyObservation
	if err := s.db.SelectContext(ctx, &observations, query, latitude, longitude, limit); err != nil {
		return nil, fmt.Errorf("failed to read weather observations: %w", err)
	}

	return observations, nil
}

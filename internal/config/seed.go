package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedBooking is one initial booking declared in the seed file. Fields mirror
// the HTTP payload; the service validates them the same way.
type SeedBooking struct {
	Type      string `yaml:"type"`
	ClassName string `yaml:"class_name"`
	Teacher   string `yaml:"teacher"`
	CreatedBy string `yaml:"created_by"`
	StartTime string `yaml:"start_time"`
	EndTime   string `yaml:"end_time"`
	Color     string `yaml:"color"`
	Date      string `yaml:"date,omitempty"`
	DayOfWeek string `yaml:"day_of_week,omitempty"`
	Duration  string `yaml:"duration,omitempty"`
}

type seedFile struct {
	Bookings []SeedBooking `yaml:"bookings"`
}

// LoadSeedFile reads the YAML seed file listing bookings to load at startup.
func LoadSeedFile(path string) ([]SeedBooking, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var parsed seedFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	return parsed.Bookings, nil
}

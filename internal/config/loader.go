package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultRoster is the staff roster used when STUDIO_STAFF is unset.
var DefaultRoster = []string{"Oski", "Flor", "Joa"}

// Config captures environment driven configuration values for the booking service.
type Config struct {
	HTTPPort     int
	SQLiteDSN    string
	Staff        []string
	PasscodeHash string
	SeedFile     string
}

// Load parses configuration values from the current process environment.
//
// The loader applies defaults for optional fields and reports every invalid
// value at once rather than stopping at the first one. Setting
// STUDIO_SQLITE_DSN to the literal "memory" selects the in-memory store.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:  8080,
		SQLiteDSN: "file:studio.db?_pragma=foreign_keys(1)",
		Staff:     append([]string(nil), DefaultRoster...),
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("STUDIO_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "STUDIO_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("STUDIO_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if staffValue := strings.TrimSpace(os.Getenv("STUDIO_STAFF")); staffValue != "" {
		roster := parseRoster(staffValue)
		if len(roster) == 0 {
			invalid = append(invalid, "STUDIO_STAFF")
		} else {
			cfg.Staff = roster
		}
	}

	if hash := strings.TrimSpace(os.Getenv("STUDIO_PASSCODE_HASH")); hash != "" {
		if !strings.HasPrefix(hash, "$argon2id$") {
			invalid = append(invalid, "STUDIO_PASSCODE_HASH")
		} else {
			cfg.PasscodeHash = hash
		}
	}

	cfg.SeedFile = strings.TrimSpace(os.Getenv("STUDIO_SEED_FILE"))

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func parseRoster(value string) []string {
	parts := strings.Split(value, ",")
	roster := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			roster = append(roster, trimmed)
		}
	}
	return roster
}

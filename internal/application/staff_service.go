package application

import (
	"context"
	"log/slog"
	"strings"
)

// StaffService validates staff identities against the configured roster.
// Identity is deliberately weak: a roster membership check plus an optional
// shared studio passcode. Bookings record the staff label, nothing more.
type StaffService struct {
	roster       []string
	passcodeHash string
	logger       *slog.Logger
}

// NewStaffService wires the roster and the optional argon2id passcode hash.
// An empty hash disables the passcode check entirely.
func NewStaffService(roster []string, passcodeHash string, logger *slog.Logger) *StaffService {
	cleaned := make([]string, 0, len(roster))
	for _, name := range roster {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return &StaffService{
		roster:       cleaned,
		passcodeHash: passcodeHash,
		logger:       defaultLogger(logger),
	}
}

// IsStaff reports whether the name belongs to the roster.
func (s *StaffService) IsStaff(name string) bool {
	if s == nil {
		return false
	}
	for _, member := range s.roster {
		if member == name {
			return true
		}
	}
	return false
}

// Roster returns a copy of the configured staff names.
func (s *StaffService) Roster() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.roster...)
}

// Login resolves a staff name (and passcode, when one is configured) into a
// Principal.
func (s *StaffService) Login(ctx context.Context, name, passcode string) (Principal, error) {
	logger := serviceLogger(ctx, s.logger, "staff", "login", "staff", name)

	name = strings.TrimSpace(name)
	if !s.IsStaff(name) {
		logger.WarnContext(ctx, "login rejected", "error_kind", ErrorKind(ErrUnknownStaff))
		return Principal{}, ErrUnknownStaff
	}

	if s.passcodeHash != "" {
		if err := VerifyPasscode(s.passcodeHash, passcode); err != nil {
			logger.WarnContext(ctx, "login rejected", "error_kind", ErrorKind(ErrInvalidPasscode))
			return Principal{}, ErrInvalidPasscode
		}
	}

	logger.InfoContext(ctx, "login accepted")
	return Principal{Staff: name}, nil
}

package models

import (
	"fmt"
	"strings"
)

// AppearanceMode is the platform's global light/dark setting.
type AppearanceMode int

const (
	Light AppearanceMode = iota
	Dark
)

func (m AppearanceMode) String() string {
	switch m {
	case Light:
		return "Light"
	case Dark:
		return "Dark"
	default:
		return fmt.Sprintf("AppearanceMode(%d)", int(m))
	}
}

// ParseAppearanceMode accepts "light" or "dark" in any case.
func ParseAppearanceMode(s string) (AppearanceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return Light, nil
	case "dark":
		return Dark, nil
	default:
		return 0, fmt.Errorf("unknown appearance mode %q", s)
	}
}

func (m AppearanceMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *AppearanceMode) UnmarshalText(b []byte) error {
	v, err := ParseAppearanceMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

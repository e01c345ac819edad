package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"lightswitch/internal/models"

	"gopkg.in/ini.v1"
)

// Layout of the schedule file.
const (
	ScheduleSection = "NXLightSwitch"
	keyLightTime    = "LightTime"
	keyDarkTime     = "DarkTime"
	keyAutomatic    = "Automatic"
)

// ConfigError codes.
const (
	CodeSourceMissing = -1 // file absent or unreadable
	CodeMalformed     = -2 // not parseable as INI
	CodeBadValue      = -3 // a time-of-day value is not HH:MM
)

// ErrParseFailed matches every *ConfigError via errors.Is.
var ErrParseFailed = errors.New("schedule config parse failed")

// ConfigError reports that the schedule source could not be used.
type ConfigError struct {
	Code int
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("load schedule %q (code %d): %v", e.Path, e.Code, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrParseFailed }

// ScheduleINI reads SchedulerConfig from an INI file.
type ScheduleINI struct {
	path string
}

func NewScheduleINI(path string) *ScheduleINI {
	return &ScheduleINI{path: path}
}

// Path returns the file the repo reads.
func (r *ScheduleINI) Path() string { return r.path }

// Read loads the file fresh. Missing keys keep their defaults (00:00, 00:00, false).
func (r *ScheduleINI) Read(ctx context.Context) (models.SchedulerConfig, error) {
	cfg := models.SchedulerConfig{LightTime: models.Midnight, DarkTime: models.Midnight}
	if err := ctx.Err(); err != nil {
		return cfg, err
	}

	raw, err := os.ReadFile(r.path)
	if err != nil {
		return cfg, &ConfigError{Code: CodeSourceMissing, Path: r.path, Err: err}
	}

	f, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, raw)
	if err != nil {
		return cfg, &ConfigError{Code: CodeMalformed, Path: r.path, Err: err}
	}

	sec, err := f.GetSection(ScheduleSection)
	if err != nil {
		// section absent: every key is missing
		return cfg, nil
	}

	if cfg.LightTime, err = readTimeOfDay(sec, keyLightTime); err != nil {
		return cfg, &ConfigError{Code: CodeBadValue, Path: r.path, Err: err}
	}
	if cfg.DarkTime, err = readTimeOfDay(sec, keyDarkTime); err != nil {
		return cfg, &ConfigError{Code: CodeBadValue, Path: r.path, Err: err}
	}
	cfg.Automatic = sec.Key(keyAutomatic).MustBool(false)

	return cfg, nil
}

// readTimeOfDay returns Midnight when the key is missing or empty.
func readTimeOfDay(sec *ini.Section, key string) (models.TimeOfDay, error) {
	if !sec.HasKey(key) {
		return models.Midnight, nil
	}
	v := strings.TrimSpace(sec.Key(key).String())
	if v == "" {
		return models.Midnight, nil
	}
	t, err := models.ParseTimeOfDay(v)
	if err != nil {
		return models.Midnight, fmt.Errorf("%s: %w", key, err)
	}
	return t, nil
}

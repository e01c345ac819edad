package service

import "lightswitch/internal/models"

// InLightWindow reports whether now falls in the daily light window
// [light, dark). When dark is earlier in the day than light the window
// wraps past midnight. Equal thresholds are degenerate: only the exact
// minute equal to both counts as light.
func InLightWindow(now, light, dark models.TimeOfDay) bool {
	switch {
	case light.Equal(dark):
		return now.Equal(light)
	case light.Before(dark):
		return !now.Before(light) && now.Before(dark)
	default:
		return !now.Before(light) || now.Before(dark)
	}
}

// IntendedMode maps window membership to a mode. Exactly one of light or
// dark is wanted at any minute.
func IntendedMode(now models.TimeOfDay, cfg models.SchedulerConfig) models.AppearanceMode {
	if InLightWindow(now, cfg.LightTime, cfg.DarkTime) {
		return models.Light
	}
	return models.Dark
}

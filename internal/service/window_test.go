package service

import (
	"testing"

	"lightswitch/internal/models"
)

func TestInLightWindow_NonWrapping_AllMinutes(t *testing.T) {
	t.Parallel()

	light, dark := tod(7, 0), tod(19, 0)
	for m := 0; m < 24*60; m++ {
		now := tod(m/60, m%60)
		want := m >= light.Minutes() && m < dark.Minutes()
		if got := InLightWindow(now, light, dark); got != want {
			t.Fatalf("InLightWindow(%v): got %v, want %v", now, got, want)
		}
	}
}

func TestInLightWindow_Wraparound(t *testing.T) {
	t.Parallel()

	light, dark := tod(20, 0), tod(6, 0)
	cases := []struct {
		now  models.TimeOfDay
		want bool
	}{
		{tod(23, 0), true},
		{tod(3, 0), true},
		{tod(12, 0), false},
		{tod(20, 0), true},
		{tod(19, 59), false},
		{tod(5, 59), true},
		{tod(6, 0), false},
		{tod(0, 0), true},
	}
	for _, tc := range cases {
		if got := InLightWindow(tc.now, light, dark); got != tc.want {
			t.Errorf("InLightWindow(%v): got %v, want %v", tc.now, got, tc.want)
		}
	}
}

func TestInLightWindow_BoundariesAreMinuteExact(t *testing.T) {
	t.Parallel()

	light, dark := tod(7, 30), tod(18, 45)
	cases := []struct {
		now  models.TimeOfDay
		want bool
	}{
		{tod(7, 29), false},
		{tod(7, 30), true},
		{tod(8, 0), true}, // minute zero after the light hour
		{tod(18, 0), true},
		{tod(18, 44), true},
		{tod(18, 45), false},
		{tod(19, 0), false},
	}
	for _, tc := range cases {
		if got := InLightWindow(tc.now, light, dark); got != tc.want {
			t.Errorf("InLightWindow(%v): got %v, want %v", tc.now, got, tc.want)
		}
	}
}

func TestInLightWindow_EqualThresholds(t *testing.T) {
	t.Parallel()

	th := tod(19, 0)
	if !InLightWindow(tod(19, 0), th, th) {
		t.Errorf("equal thresholds: 19:00 should be light")
	}
	for _, now := range []models.TimeOfDay{tod(8, 0), tod(18, 59), tod(19, 1), tod(0, 0)} {
		if InLightWindow(now, th, th) {
			t.Errorf("equal thresholds: %v should be dark", now)
		}
	}
}

func TestIntendedMode_ExactlyOnePerMinute(t *testing.T) {
	t.Parallel()

	configs := []models.SchedulerConfig{
		cfg(tod(7, 0), tod(19, 0)),
		cfg(tod(20, 0), tod(6, 0)),
		cfg(tod(12, 0), tod(12, 0)),
		{},
	}
	for _, c := range configs {
		lightMinutes := 0
		for m := 0; m < 24*60; m++ {
			mode := IntendedMode(tod(m/60, m%60), c)
			if mode != models.Light && mode != models.Dark {
				t.Fatalf("undecided mode %v at minute %d", mode, m)
			}
			if mode == models.Light {
				lightMinutes++
			}
		}
		if lightMinutes == 0 {
			t.Errorf("config %+v: no light minutes at all", c)
		}
	}
}

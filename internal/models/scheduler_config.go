package models

// SchedulerConfig holds the thresholds read at the start of every tick.
type SchedulerConfig struct {
	LightTime TimeOfDay `json:"light_time"`
	DarkTime  TimeOfDay `json:"dark_time"`
	Automatic bool      `json:"automatic"` // reserved for sunrise/sunset; read but unused
}

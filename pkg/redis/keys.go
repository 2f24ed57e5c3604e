package redis

// Key construction helpers for the light state mirror.

// LightStateKey returns the key holding the latest computed light state (JSON)
func LightStateKey() string {
	return "light:state"
}

// DayTypeKey returns the key holding the weather day type active today
func DayTypeKey() string {
	return "light:daytype"
}

// TelemetryKey returns the key for the bounded telemetry list (JSON frames)
func TelemetryKey() string {
	return "light:telemetry"
}

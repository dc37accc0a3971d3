package config

import "strings"

// AppMode returns the deployment mode, DEV unless configured otherwise.
func AppMode() string {
	return strings.ToUpper(getEnv("RUNNING_APP_MODE", "DEV"))
}

// ListenAddr is the address the HTTP server binds.
func ListenAddr() string {
	return getEnv("RUNNING_APP_ADDR", ":1234")
}

// OverpassURL returns the Overpass API endpoint override, empty to use the
// public default.
func OverpassURL() string {
	return getEnv("OVERPASS_URL", "")
}

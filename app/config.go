// Package app wires the game backend together and runs it.
package app

import (
	"tavern/config"
	"tavern/metric"
	"tavern/server"
)

// Config contains the configuration for the App.
type Config struct {
	Server  server.Config
	Metrics metric.Config
	Env     config.Config
}

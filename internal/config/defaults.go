// Package config provides configuration loading and defaults for coachwatch.
package config

// DefaultUser is the user id analyzed when none is given on the command line.
const DefaultUser = "default"

// DefaultTimeframeDays is the trailing analysis window.
const DefaultTimeframeDays = 30

// DefaultConfigDir is the default location for coachwatch configuration.
const DefaultConfigDir = "~/.config/coachwatch"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "coachwatch.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultScore holds the default score display thresholds.
var DefaultScore = Score{
	WarnBelow: 70,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}

package constants

// File names and extensions.
const (
	// CLILogFileName is the name of the CLI log file.
	// This file is located in ~/.relock/logs/relock.log
	CLILogFileName = "relock.log"

	// LockFileExt is appended to a lock name to form its file name.
	LockFileExt = ".lock"
)

// Configuration file names.
const (
	// GlobalConfigName is the name of the global relock configuration file.
	// This file is located in the relock home directory.
	GlobalConfigName = "config.yaml"

	// ProjectConfigDir is the project-level directory holding ProjectConfigName.
	ProjectConfigDir = ".relock"

	// ProjectConfigName is the name of the project-specific configuration file.
	ProjectConfigName = "config.yaml"

	// EnvPrefix prefixes every environment variable relock reads.
	EnvPrefix = "RELOCK"
)

package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variable keys
const (
	envMode    = "ASSETMANAGER_MODE"
	envModeDev = "development"
	envWebRoot = "ASSETMANAGER_WEB_ROOT"
)

// GetIsDev returns true if running in development mode
func GetIsDev() bool {
	return os.Getenv(envMode) == envModeDev
}

// SetModeToDev sets the environment to development mode
func SetModeToDev() {
	os.Setenv(envMode, envModeDev)
}

// EnvironmentFromEnv reads the mode and web root from the process environment.
// An unset web root means the current working directory.
func EnvironmentFromEnv() *Environment {
	return &Environment{
		IsDevelopment: GetIsDev(),
		WebRootPath:   os.Getenv(envWebRoot),
	}
}

// LoadDotEnv loads the given .env files (".env" if none are given). Variables
// already present in the process environment win.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

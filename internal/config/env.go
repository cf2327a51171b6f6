package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvStoreBackend = "GRADEPLAN_STORE_BACKEND"
	EnvStorePath    = "GRADEPLAN_STORE_PATH"
)

// LoadEnv loads a dotenv file into the process environment. Variables that
// are already set win over the file. A missing file is not an error.
func LoadEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overlays environment overrides onto the file config.
func ApplyEnv(cfg *FileConfig) {
	if v, ok := os.LookupEnv(EnvStoreBackend); ok && v != "" {
		cfg.Store.Backend = &v
	}
	if v, ok := os.LookupEnv(EnvStorePath); ok && v != "" {
		cfg.Store.Path = &v
	}
}

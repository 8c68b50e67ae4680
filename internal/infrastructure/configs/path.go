package configs

import (
	"flag"
	"os"

	"github.com/wordspy/wordspy/internal/infrastructure/env"
)

// DetermineConfigPath resolves the config file from the -config flag, the
// WORDSPY_CONFIG env var, or a set of conventional locations. An empty return
// means "run on defaults".
func DetermineConfigPath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("WORDSPY_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"/etc/wordspy/config.yaml",
			"/app/config.yaml", // common in Docker
		}

		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	return configPath
}

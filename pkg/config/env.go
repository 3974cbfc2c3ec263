package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ServerEnv returns the process environment merged with the variables of the
// given .env files. Process variables win; among files, earlier files win.
// Missing files are ignored.
func ServerEnv(envFiles ...string) (map[string]string, error) {
	env := make(map[string]string)

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}

	for _, path := range envFiles {
		if path == "" {
			continue
		}

		vars, err := godotenv.Read(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("config: read env file %s: %w", path, err)
		}

		for k, v := range vars {
			if _, set := env[k]; !set {
				env[k] = v
			}
		}
	}

	return env, nil
}

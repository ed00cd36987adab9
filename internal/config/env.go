package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overrides keys of s with the value of their environment variable,
// for every variable in bindings that is set.
func ApplyEnv(s *MemStore, bindings map[string]string) {
	for env, key := range bindings {
		if v, ok := os.LookupEnv(env); ok {
			s.Override(key, v)
		}
	}
}

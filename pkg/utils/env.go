// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

import (
	"os"
	"strconv"
	"time"
)

// EnvOrDefault returns the value of the environment variable key, or
// fallback when it is unset or empty.
func EnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvFlag reports whether the environment variable key is exactly "true".
func EnvFlag(key string) bool {
	return os.Getenv(key) == "true"
}

// EnvPositiveInt parses the environment variable key as an integer of at
// least one. ok is false when the variable is unset, invalid or too small.
func EnvPositiveInt(key string) (value int, ok bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// EnvDuration parses the environment variable key as a positive
// time.Duration such as "10s". ok is false when the variable is unset,
// invalid or not positive.
func EnvDuration(key string) (value time.Duration, ok bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/finsignal/riskgraph-backend/internal/platform/logger"
)

func GetEnv(key, defaultVal string, log *logger.Logger) string {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		if log != nil {
			log.Debug("env var not set, using default", "env_var", key, "default", defaultVal)
		}
		return defaultVal
	}
	return strings.TrimSpace(val)
}

func GetEnvAsInt(key string, defaultVal int, log *logger.Logger) int {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	i, err := strconv.Atoi(strings.TrimSpace(valStr))
	if err != nil {
		if log != nil {
			log.Debug("env var not an int, using default", "env_var", key, "value", valStr, "default", defaultVal, "error", err)
		}
		return defaultVal
	}
	return i
}

func GetEnvAsDuration(key string, defaultVal time.Duration, log *logger.Logger) time.Duration {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	d, err := time.ParseDuration(strings.TrimSpace(valStr))
	if err != nil {
		if log != nil {
			log.Debug("env var not a duration, using default", "env_var", key, "value", valStr, "default", defaultVal, "error", err)
		}
		return defaultVal
	}
	return d
}

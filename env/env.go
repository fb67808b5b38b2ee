// Package env loads the server configuration from the environment, with an
// optional .env file.
package env

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Environment struct {
	Port     int
	MaxSteps int
}

// LoadEnv reads RDLT2PN_PORT and RDLT2PN_MAX_STEPS, defaulting to 8080 and
// the simulator default. A missing .env file is not an error.
func LoadEnv(logger *zap.Logger) *Environment {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("could not load .env file", zap.Error(err))
	}
	e := &Environment{Port: 8080}
	if port, ok := os.LookupEnv("RDLT2PN_PORT"); ok {
		p, err := strconv.Atoi(port)
		if err != nil {
			logger.Fatal("failed to parse RDLT2PN_PORT", zap.Error(err))
		}
		e.Port = p
	}
	if steps, ok := os.LookupEnv("RDLT2PN_MAX_STEPS"); ok {
		s, err := strconv.Atoi(steps)
		if err != nil {
			logger.Fatal("failed to parse RDLT2PN_MAX_STEPS", zap.Error(err))
		}
		e.MaxSteps = s
	}
	return e
}

package logging

import (
	"go.uber.org/zap"
)

// New builds the process-wide logger. Development gets console output,
// everything else structured JSON.
func New(environment string) (*zap.Logger, error) {
	if environment == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

package main

import (
	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/validation"
)

// validateRun checks the necessary fields in EngineRunRequest and returns errors if they are not set.
func (g *EngineSonarqube) validateRun(args *shared.EngineRunRequest) error {
	return validation.ValidateEngineRunArgs(args)
}

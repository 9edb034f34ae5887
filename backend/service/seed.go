package service

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/greatchat/onboarding/backend/model"
)

//go:embed seed.yaml
var seedYAML []byte

// Seed is the record set every new workspace starts from.
type Seed struct {
	Documents    []model.Document    `yaml:"documents"`
	Contracts    []model.Contract    `yaml:"contracts"`
	Payments     []model.Payment     `yaml:"payments"`
	Applications []model.Application `yaml:"applications"`
	Businesses   []model.Business    `yaml:"businesses"`
	Subscription model.Subscription  `yaml:"subscription"`
	Activity     []model.Activity    `yaml:"activity"`
}

var (
	defaultSeed    *Seed
	defaultSeedErr error
	seedOnce       sync.Once
)

// ParseSeed decodes a seed document. Unknown record statuses are rejected.
func ParseSeed(data []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return &s, nil
}

// DefaultSeed returns the embedded fixtures. Callers share the result and
// must not modify it.
func DefaultSeed() (*Seed, error) {
	seedOnce.Do(func() {
		defaultSeed, defaultSeedErr = ParseSeed(seedYAML)
	})
	return defaultSeed, defaultSeedErr
}

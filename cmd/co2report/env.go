package main

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alnah/go-co2report/internal/llm"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process environment and the completion backend.
type Environment struct {
	Now       func() time.Time
	Stdout    io.Writer
	Stderr    io.Writer
	LookupEnv func(string) (string, bool)
	NewRunID  func() string

	// NewCompleter builds the model client used by the specialists.
	NewCompleter func(log zerolog.Logger, cfg llm.Config) (llm.Completer, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:          time.Now,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		LookupEnv:    os.LookupEnv,
		NewRunID:     uuid.NewString,
		NewCompleter: newOpenAICompleter,
	}
}

func newOpenAICompleter(log zerolog.Logger, cfg llm.Config) (llm.Completer, error) {
	return llm.NewOpenAIClient(log, cfg)
}

// getenv returns the value of key, or "" when unset.
func (e *Environment) getenv(key string) string {
	if e.LookupEnv == nil {
		return ""
	}
	v, _ := e.LookupEnv(key)
	return v
}

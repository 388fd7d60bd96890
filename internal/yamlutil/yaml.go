// Package yamlutil wraps YAML decoding for configuration and agent rosters.
// Callers never import the YAML library directly.
package yamlutil

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// DecodeOption adjusts decoding.
type DecodeOption func(*decodeSettings)

type decodeSettings struct {
	strict bool
}

// Strict rejects fields that do not exist in the destination type.
func Strict() DecodeOption {
	return func(s *decodeSettings) { s.strict = true }
}

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// Decode parses data into v.
func Decode(data []byte, v any, opts ...DecodeOption) error {
	if err := validateInput(data, v); err != nil {
		return err
	}

	var s decodeSettings
	for _, opt := range opts {
		opt(&s)
	}

	var yopts []yaml.DecodeOption
	if s.strict {
		yopts = append(yopts, yaml.Strict())
	}
	if err := yaml.UnmarshalWithOptions(data, v, yopts...); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// DecodeFile reads path and parses it into v. Files larger than MaxInputSize
// are rejected before being read.
func DecodeFile(path string, v any, opts ...DecodeOption) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	if info.Size() > int64(MaxInputSize) {
		return fmt.Errorf("%w: %s is %d bytes (max %d)", ErrInputTooLarge, path, info.Size(), MaxInputSize)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path is user-provided config
	if err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	if err := Decode(data, v, opts...); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Encode renders v as YAML.
func Encode(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// ParseOptions parses a JSON options document on top of DefaultOptions.
func ParseOptions(data []byte) (*Options, error) {
	opts := DefaultOptions()
	if err := json.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("parse options: %w", err)
	}
	return &opts, nil
}

// ParseOptionsFile reads and parses an options file
func ParseOptionsFile(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options file: %w", err)
	}
	return ParseOptions(data)
}

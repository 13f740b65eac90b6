package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dacharyc/comparator"
)

// loadConfig reads a config file and returns the configuration.
//
// The file holds one option per line, either "key = value" or a bare "key"
// for a boolean set to true. Lines starting with "#" are comments.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var key, value string
		if idx := strings.Index(line, "="); idx >= 0 {
			key = strings.TrimSpace(line[:idx])
			value = strings.TrimSpace(line[idx+1:])
		} else {
			key = line
			value = "true"
		}

		if err := applyConfigOption(&cfg, key, value); err != nil {
			return cfg, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	return cfg, scanner.Err()
}

// applyBoolOption handles boolean config options
func applyBoolOption(cfg *config, key, value string) bool {
	switch key {
	case "partial", "p":
		cfg.partial = parseBool(value)
	case "statistics", "s":
		cfg.statistics = parseBool(value)
	case "line-ending-warning":
		cfg.warnLineEndings = parseBool(value)
	case "no-line-ending-warning":
		cfg.warnLineEndings = !parseBool(value)
	case "verbose", "V":
		cfg.verbose = parseBool(value)
	default:
		return false
	}
	return true
}

// applyIntOption handles non-negative integer config options
func applyIntOption(cfg *config, key, value string) (bool, error) {
	var target *int
	switch key {
	case "threshold", "t":
		target = &cfg.threshold
	case "window", "w":
		target = &cfg.window
	case "context", "C":
		target = &cfg.context
	default:
		return false, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return true, fmt.Errorf("%s must be a non-negative integer, got %q", key, value)
	}
	*target = n
	return true, nil
}

// applyConfigOption sets a config field based on key and value
func applyConfigOption(cfg *config, key, value string) error {
	if applyBoolOption(cfg, key, value) {
		return nil
	}
	if ok, err := applyIntOption(cfg, key, value); ok {
		return err
	}

	switch key {
	case "message", "m":
		cfg.message = value
	case "algorithm", "A":
		if _, err := comparator.AlgorithmByName(value); err != nil {
			return err
		}
		cfg.algorithm = value
	default:
		return fmt.Errorf("unknown option: %s", key)
	}
	return nil
}

// parseBool parses a boolean value from a string
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "yes" || s == "1" || s == ""
}

package recommend

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads the optional tuning file on top of DefaultConfig. An empty
// path returns the defaults. Keys absent from the file keep their default;
// a vocabulary group present in the file replaces the default group.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read recommend config %s: %w", path, err)
	}

	return parseConfig(raw, cfg)
}

func parseConfig(raw []byte, base Config) (Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	cfg := base
	// maps are shared with base otherwise
	cfg.PositiveIngredients = copyGroups(base.PositiveIngredients)
	cfg.NegativeIngredients = copyGroups(base.NegativeIngredients)
	cfg.CodeDescriptors = copyDescriptors(base.CodeDescriptors)

	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to parse recommend config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid recommend config: %w", err)
	}
	return cfg, nil
}

// WithOverrides applies environment overrides on top of a loaded config and
// validates the result. Zero leaves a value untouched.
func (c Config) WithOverrides(perCategoryLimit, topK int) (Config, error) {
	if perCategoryLimit != 0 {
		c.PerCategoryLimit = perCategoryLimit
	}
	if topK != 0 {
		c.TopK = topK
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid recommend overrides: %w", err)
	}
	return c, nil
}

func copyGroups(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func copyDescriptors(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

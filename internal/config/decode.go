package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

var ErrNoProblems = errors.New("no problems provided")

type definer interface {
	IsDefined(key ...string) bool
}

// keyTree answers IsDefined for formats without toml.MetaData.
type keyTree map[string]any

func (k keyTree) IsDefined(key ...string) bool {
	if len(key) == 0 {
		return false
	}
	var node any = map[string]any(k)
	for _, part := range key {
		table, isTable := node.(map[string]any)
		if !isTable {
			return false
		}
		var some bool
		if node, some = table[part]; !some {
			return false
		}
	}
	return true
}

func pathKey(path []string) string {
	return strings.Join(path, "#")
}

// Load reads a problem file, the format follows the extension; a name without one is read as toml.
func Load(configFileName string) (*Config, error) {
	format := strings.ToLower(filepath.Ext(configFileName))
	if format == "" {
		configFileName += ".toml"
		format = ".toml"
	}
	data, err := os.ReadFile(configFileName)
	if err != nil {
		return nil, err
	}
	config, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configFileName, err)
	}
	config.baseDir = filepath.Dir(configFileName)
	return config, nil
}

func Decode(data []byte, format string) (*Config, error) {
	config := &Config{isDefinedMap: map[string]struct{}{}}
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "toml":
		meta, err := toml.Decode(string(data), config)
		if err != nil {
			return nil, err
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown keys %v", undecoded)
		}
		config.meta = &meta
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, err
		}
		var tree map[string]any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, err
		}
		config.meta = keyTree(tree)
	case "json", "jsonc":
		clean := jsonc.ToJSON(data)
		if err := json.Unmarshal(clean, config); err != nil {
			return nil, err
		}
		var tree map[string]any
		if err := json.Unmarshal(clean, &tree); err != nil {
			return nil, err
		}
		config.meta = keyTree(tree)
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	if len(config.Problems) == 0 {
		return nil, ErrNoProblems
	}
	return config, nil
}

// Single builds a one-problem config as if it had been read from a file,
// fields listed in defined count as set by the user.
func Single(name string, parameters ProblemParameters, defined ...string) *Config {
	config := &Config{
		Problems:     map[string]ProblemParameters{name: parameters},
		isDefinedMap: map[string]struct{}{},
	}
	for _, field := range defined {
		config.SetDefined("Problems", name, field)
	}
	return config
}

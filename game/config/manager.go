package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrRulesNotFound = errors.New("ruleset not found")
	ErrInvalidRules  = errors.New("invalid ruleset")
)

// Manager loads and caches room rulesets from a directory of JSON files. An
// empty directory path means defaults only. Rulesets are validated on load so
// board generation never sees an unsatisfiable bone budget.
type Manager struct {
	rulesDir string
	fallback *Rules
	cache    map[string]*Rules
	mu       sync.RWMutex
}

// NewManager creates a configuration manager. rulesDir may be empty, in which
// case only the built-in default ruleset is available.
func NewManager(rulesDir string) (*Manager, error) {
	if rulesDir != "" {
		if _, err := os.Stat(rulesDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("rules directory does not exist: %s", rulesDir)
		}
	}
	return &Manager{
		rulesDir: rulesDir,
		fallback: Default(),
		cache:    make(map[string]*Rules),
	}, nil
}

// Default returns the built-in ruleset.
func (m *Manager) Default() *Rules {
	return m.fallback
}

// Load returns the ruleset with the given name, reading and validating the
// JSON file on first use.
func (m *Manager) Load(name string) (*Rules, error) {
	m.mu.RLock()
	if r, ok := m.cache[name]; ok {
		m.mu.RUnlock()
		return r, nil
	}
	m.mu.RUnlock()

	if m.rulesDir == "" {
		return nil, ErrRulesNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.cache[name]; ok {
		return r, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename += ".json"
	}

	data, err := os.ReadFile(filepath.Join(m.rulesDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrRulesNotFound
		}
		return nil, fmt.Errorf("failed to read ruleset file: %w", err)
	}

	var rules Rules
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse ruleset: %w", err)
	}
	if err := Validate(&rules); err != nil {
		return nil, err
	}

	m.cache[name] = &rules
	return &rules, nil
}

// List returns the names of all rulesets in the directory, plus the built-in
// default.
func (m *Manager) List() ([]string, error) {
	names := []string{m.fallback.Name}
	if m.rulesDir == "" {
		return names, nil
	}

	entries, err := os.ReadDir(m.rulesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return names, nil
}

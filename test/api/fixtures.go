/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

const (
	// PostsFixture holds post templates and post scenario parameters.
	PostsFixture = "posts.json"

	// UsersFixture holds user scenario parameters.
	UsersFixture = "users.yaml"

	// scenariosKey is the document key holding scenario parameter arrays.
	scenariosKey = "testScenarios"
)

// Document is a decoded fixture file.
type Document map[string]any

// Template returns a copy of a named payload template.
func (d Document) Template(name string) (map[string]any, error) {
	raw, ok := d[name]
	if !ok {
		return nil, fmt.Errorf("%w: template %q not present", ErrFixtureParse, name)
	}

	template, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: template %q is %s, not an object", ErrFixtureParse, name, typeName(raw))
	}

	return maps.Clone(template), nil
}

// Scenario returns a named array of integer scenario parameters from testScenarios.
func (d Document) Scenario(name string) ([]int, error) {
	scenarios, ok := d[scenariosKey].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s object not present", ErrFixtureParse, scenariosKey)
	}

	raw, ok := scenarios[name].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: scenario %q is not an array", ErrFixtureParse, name)
	}

	values := make([]int, len(raw))

	for i, v := range raw {
		f, ok := v.(float64)
		if !ok || f != math.Trunc(f) {
			return nil, fmt.Errorf("%w: scenario %q item %d is %s, not an integer", ErrFixtureParse, name, i, typeName(v))
		}

		values[i] = int(f)
	}

	return values, nil
}

// FixtureLoader provides fixture documents by name.
type FixtureLoader interface {
	Load(name string) (Document, error)
}

// DirLoader reads fixtures from a directory on every call.
type DirLoader struct {
	dir string
}

// NewDirLoader returns a loader rooted at dir.
func NewDirLoader(dir string) *DirLoader {
	return &DirLoader{
		dir: dir,
	}
}

// LoadTestData reads a fixture from the configured fixtures directory.
func LoadTestData(name string) (Document, error) {
	config, err := LoadTestConfig()
	if err != nil {
		return nil, err
	}

	return NewDirLoader(config.FixturesDir).Load(name)
}

// Load reads and decodes the named fixture.  JSON and YAML are accepted,
// YAML is normalised through JSON so both decode to the same types.  If a
// sibling <stem>.schema.json exists the document must satisfy it.
func (l *DirLoader) Load(name string) (Document, error) {
	path := filepath.Join(l.dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFixtureNotFound, path)
		}

		return nil, fmt.Errorf("reading fixture %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if data, err = yamlToJSON(data); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFixtureParse, path, err)
		}
	}

	var document Document
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFixtureParse, path, err)
	}

	if err := l.validateSchema(name, data); err != nil {
		return nil, err
	}

	return document, nil
}

func (l *DirLoader) validateSchema(name string, data []byte) error {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	schemaPath := filepath.Join(l.dir, stem+".schema.json")

	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("reading fixture schema %s: %w", schemaPath, err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %s: schema validation error: %w", ErrFixtureParse, name, err)
	}

	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		messages = append(messages, desc.String())
	}

	return fmt.Errorf("%w: %s: schema validation failed: %s", ErrFixtureParse, name, strings.Join(messages, "; "))
}

func yamlToJSON(data []byte) ([]byte, error) {
	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, err
	}

	return json.Marshal(value)
}

// MemoryLoader serves fixtures from memory, each Load returns a fresh copy.
type MemoryLoader map[string][]byte

// Load decodes the named in-memory fixture.
func (l MemoryLoader) Load(name string) (Document, error) {
	data, ok := l[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFixtureNotFound, name)
	}

	var document Document
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFixtureParse, name, err)
	}

	return document, nil
}

// Package config reads and writes spigo project files.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"
)

// Project file names, in lookup order.
const (
	YAMLFile = "spi.yaml"
	TOMLFile = "spi.toml"
)

const DefaultEntry = "main.pas"

var ErrNotFound = stderrors.New("no spi.yaml or spi.toml found")

type Project struct {
	Package     string `yaml:"Package" toml:"package"`
	Entry       string `yaml:"Entry,omitempty" toml:"entry,omitempty"`
	StrictTypes bool   `yaml:"StrictTypes,omitempty" toml:"strict_types,omitempty"`
	Output      string `yaml:"Output,omitempty" toml:"output,omitempty"`
}

func (p *Project) applyDefaults() {
	if p.Entry == "" {
		p.Entry = DefaultEntry
	}
	if p.Output == "" {
		p.Output = p.Package
	}
}

// Find returns the path of the project file in dir.
func Find(dir string) (string, error) {
	for _, name := range []string{YAMLFile, TOMLFile} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s: %w", dir, ErrNotFound)
}

// Load reads a project file, picking the format from its extension.
// Relative entry paths stay relative to the project file.
func Load(path string) (*Project, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Project
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &p)
	case ".toml":
		_, err = toml.Decode(string(data), &p)
	default:
		return nil, fmt.Errorf("%s: unknown project file format", path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if p.Package == "" {
		return nil, fmt.Errorf("%s: no package name", path)
	}

	p.applyDefaults()
	if !filepath.IsAbs(p.Entry) {
		p.Entry = filepath.Join(filepath.Dir(path), p.Entry)
	}
	return &p, nil
}

// Save writes p to path in the format named by its extension.
func Save(path string, p Project) error {
	var out []byte
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err := yaml.Marshal(p)
		if err != nil {
			return err
		}
		out = data
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(p); err != nil {
			return err
		}
		out = buf.Bytes()
	default:
		return fmt.Errorf("%s: unknown project file format", path)
	}

	return ioutil.WriteFile(path, out, 0644)
}

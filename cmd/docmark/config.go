package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the optional on-disk configuration, loaded from
// <workspace>/.docmark.yaml unless --config points elsewhere.
type Config struct {
	// IndexPath is where the SQLite doc index lives, relative to the
	// workspace when not absolute.
	IndexPath string `yaml:"index_path"`
	// Extensions lists the file suffixes treated as source files when
	// walking directories.
	Extensions []string `yaml:"extensions"`
	// Ignore lists path patterns skipped during directory walks.
	Ignore []string `yaml:"ignore"`
	// ShowHidden includes hidden-visibility documentation in output.
	ShowHidden bool `yaml:"show_hidden"`
	// IncludeUndocumented keeps declarations with no documentation text.
	IncludeUndocumented bool `yaml:"include_undocumented"`
}

func defaultConfig() *Config {
	return &Config{
		IndexPath:  filepath.Join(".docmark", "index.db"),
		Extensions: []string{".slang", ".hlsl", ".glsl", ".fx", ".h"},
		Ignore:     []string{".git", ".docmark"},
	}
}

func loadConfig() (*Config, error) {
	cfg := defaultConfig()
	path := flagConfig
	if path == "" {
		path = filepath.Join(flagWorkspace, ".docmark.yaml")
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && flagConfig == "" {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) indexPath() string {
	if filepath.IsAbs(c.IndexPath) {
		return c.IndexPath
	}
	return filepath.Join(flagWorkspace, c.IndexPath)
}

func (c *Config) matchesExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, want := range c.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

func (c *Config) ignored(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range c.Ignore {
		if match, err := filepath.Match(pattern, base); err == nil && match {
			return true
		}
	}
	return false
}

// collectSources expands the argument list: files pass through, directories
// are walked for matching extensions.
func (c *Config) collectSources(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{flagWorkspace}
	}
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if c.ignored(path) && path != arg {
					return filepath.SkipDir
				}
				return nil
			}
			if c.ignored(path) || !c.matchesExtension(path) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

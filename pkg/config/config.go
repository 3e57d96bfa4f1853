// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/rs/zerolog/log"
)

type (
	// Config is the merged view of all TOML files found in the config paths.
	// Files loaded later take precedence.
	Config struct {
		files []string
		trees []*toml.Tree
	}
)

const (
	StackBackendKey      = "stack.backend"
	EmulatorPathKey      = "emulator.path"
	EmulatorChunkSizeKey = "emulator.chunk_size"
	StorageDirKey        = "storage.path"
	DBFileKey            = "storage.sqldb_path"
	HistoryEnabledKey    = "history.enabled"
	OSReleaseKey         = "host.os_release"

	BackendEmulator = "emulator"
	BackendOplk     = "oplk"

	StackBackendDefault      = BackendEmulator
	EmulatorPathDefault      = "/var/lib/fwupdate/card"
	EmulatorChunkSizeDefault = 1024
	MaxEmulatorChunkSize     = 1 << 20
	StorageDefaultDir        = "/var/lib/fwupdate"
	DBDefaultFilename        = "history.db"
	OSReleaseDefault         = "/etc/os-release"
)

var DefConfigOrder = []string{
	"/usr/lib/fwupdate/conf.d",
	"/etc/fwupdate/conf.d",
}

// NewConfig loads every *.toml file of the given directories, in order.
// A path may also name a single TOML file. Missing paths are skipped.
func NewConfig(tomlConfigPaths []string) (*Config, error) {
	cfg := &Config{}
	for _, p := range tomlConfigPaths {
		files, err := tomlFiles(p)
		if err != nil {
			return nil, fmt.Errorf("config: failed to list TOML files in %q: %w", p, err)
		}
		for _, f := range files {
			tree, err := toml.LoadFile(f)
			if err != nil {
				return nil, fmt.Errorf("config: failed to load TOML from %q: %w", f, err)
			}
			cfg.files = append(cfg.files, f)
			cfg.trees = append(cfg.trees, tree)
		}
	}
	log.Debug().Strs("files", cfg.files).Msg("configuration loaded")

	if backend := cfg.GetStackBackend(); !IsValidBackend(backend) {
		return nil, fmt.Errorf("invalid value of %q: %q (must be %s or %s)",
			StackBackendKey, backend, BackendEmulator, BackendOplk)
	}
	return cfg, nil
}

func IsValidBackend(backend string) bool {
	return backend == BackendEmulator || backend == BackendOplk
}

func tomlFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	// Glob returns the matches sorted
	return filepath.Glob(filepath.Join(path, "*.toml"))
}

// Files returns the configuration files in load order.
func (c *Config) Files() []string {
	return c.files
}

func (c *Config) GetDefault(key string, def string) string {
	for i := len(c.trees) - 1; i >= 0; i-- {
		if c.trees[i].Has(key) {
			return strings.TrimSpace(fmt.Sprint(c.trees[i].Get(key)))
		}
	}
	return def
}

func (c *Config) GetStackBackend() string {
	return c.GetDefault(StackBackendKey, StackBackendDefault)
}

func (c *Config) GetEmulatorPath() string {
	return c.GetDefault(EmulatorPathKey, EmulatorPathDefault)
}

func (c *Config) GetEmulatorChunkSize() uint32 {
	valueStr := c.GetDefault(EmulatorChunkSizeKey, strconv.Itoa(EmulatorChunkSizeDefault))
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("value", valueStr).Int("default", EmulatorChunkSizeDefault).Msg("invalid emulator chunk size; using default")
		return EmulatorChunkSizeDefault
	}
	if value < 0 || value > MaxEmulatorChunkSize {
		log.Warn().Int("value", value).Int("default", EmulatorChunkSizeDefault).Msg("emulator chunk size out of range; using default")
		return EmulatorChunkSizeDefault
	}
	return uint32(value)
}

func (c *Config) GetStorageDir() string {
	return c.GetDefault(StorageDirKey, StorageDefaultDir)
}

func (c *Config) GetDBPath() string {
	dbFile := c.GetDefault(DBFileKey, DBDefaultFilename)
	if filepath.IsAbs(dbFile) {
		return dbFile
	}
	return filepath.Join(c.GetStorageDir(), dbFile)
}

func (c *Config) IsHistoryEnabled() bool {
	value := c.GetDefault(HistoryEnabledKey, "true")
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		log.Warn().Str("value", value).Msg("invalid history.enabled value; history stays enabled")
		return true
	}
	return enabled
}

func (c *Config) GetOSReleasePath() string {
	return c.GetDefault(OSReleaseKey, OSReleaseDefault)
}

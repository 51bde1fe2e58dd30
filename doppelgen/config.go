/*
 * Copyright 2026 the doppel authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package doppelgen

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ConfigFile is the optional per-project generator configuration.
const ConfigFile = ".doppelgen.toml"

// Config controls generated output. The zero value is usable; unset fields
// fall back to defaults at generation time.
type Config struct {
	// Package overrides the output package name. Default: the source file's
	// package.
	Package string `toml:"package"`

	// Suffix is appended to the interface name to form the wrapper type
	// name. Default "Double".
	Suffix string `toml:"suffix"`

	// DoppelImport is the import path of the doppel core package. Default
	// "doppel/doppel".
	DoppelImport string `toml:"doppel_import"`
}

// LoadConfig reads path, or ConfigFile in the working directory when path is
// empty. A missing file yields the zero Config.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		path = ConfigFile
		if _, err := os.Stat(path); err != nil {
			return cfg, nil
		}
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("loading %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) withDefaults(sourcePackage string) Config {
	if c.Package == "" {
		c.Package = sourcePackage
	}
	if c.Suffix == "" {
		c.Suffix = "Double"
	}
	if c.DoppelImport == "" {
		c.DoppelImport = "doppel/doppel"
	}
	return c
}

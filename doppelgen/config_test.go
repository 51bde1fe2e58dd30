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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ReadsToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doppelgen.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
package = "storetest"
suffix = "Fake"
doppel_import = "example.com/fork/doppel"
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		Package:      "storetest",
		Suffix:       "Fake",
		DoppelImport: "example.com/fork/doppel",
	}, cfg)
}

func TestLoadConfig_MissingDefaultFileIsZero(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadConfig_ExplicitMissingFileErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadConfig_MalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("package = [unclosed"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "bad.toml")
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}.withDefaults("store")
	assert.Equal(t, "store", cfg.Package)
	assert.Equal(t, "Double", cfg.Suffix)
	assert.Equal(t, "doppel/doppel", cfg.DoppelImport)

	explicit := Config{Package: "p", Suffix: "S", DoppelImport: "i"}.withDefaults("store")
	assert.Equal(t, Config{Package: "p", Suffix: "S", DoppelImport: "i"}, explicit)
}

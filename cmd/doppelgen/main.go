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

// Command doppelgen generates test-double wrapper types for interfaces.
//
// Typical use is a go:generate directive next to the interface:
//
//	//go:generate doppelgen -i API -s api.go -o api_double.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"doppel/doppelgen"
)

var rootCmd = &cobra.Command{
	Use:   "doppelgen",
	Short: "Generate doppel test-double wrappers for Go interfaces",
	Long: `doppelgen parses a Go source file, extracts the method set of a named
interface, and emits a wrapper type whose methods funnel through a
doppel.Double. The wrapper is what tests construct, stub and verify.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.Flags().StringP("interface", "i", "", "interface name to double (required)")
	rootCmd.Flags().StringP("source", "s", "", "Go source file declaring the interface (required)")
	rootCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	rootCmd.Flags().StringP("config", "c", "", "config file (default: "+doppelgen.ConfigFile+" if present)")
	_ = rootCmd.MarkFlagRequired("interface")
	_ = rootCmd.MarkFlagRequired("source")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	ifaceName, err := cmd.Flags().GetString("interface")
	if err != nil {
		return err
	}
	sourcePath, err := cmd.Flags().GetString("source")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	cfg, err := doppelgen.LoadConfig(configPath)
	if err != nil {
		return err
	}

	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", sourcePath, err)
	}

	iface, err := doppelgen.Parse(src, ifaceName)
	if err != nil {
		return fmt.Errorf("%s: %w", sourcePath, err)
	}
	generated, err := doppelgen.Generate(iface, cfg)
	if err != nil {
		return err
	}

	if outputPath == "" {
		_, err = os.Stdout.Write(generated)
		return err
	}
	return os.WriteFile(outputPath, generated, 0o644)
}

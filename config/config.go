// Package config loads the compiler's tool configuration: the
// external assembler/linker commands, the runtime archive to link
// against, and verbosity defaults.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the yaml-tagged configuration structure loaded from
// .snekc.yaml (the file named by the CLI's --config flag).
type Config struct {
	// Assembler is the command used to turn the generated NASM text
	// into an object file (e.g. "nasm -f elf64").
	Assembler string `yaml:"assembler"`

	// Linker is the command used for a relocatable (`-r`) link of
	// that object file into RuntimeArchive (e.g. "gcc"); the
	// executable itself is built later by `go build` of cmd/snek-run.
	Linker string `yaml:"linker"`

	// RuntimeArchive is the path the linker writes the compiled
	// program's object file to. It must match the path the runtime
	// package's cgo directive links against (runtime/our_code.o),
	// since that directive is fixed at the runtime package's own
	// compile time and can't be redirected per invocation.
	RuntimeArchive string `yaml:"runtime_archive"`

	// Verbose is read from the file but not consulted by the build or
	// run commands; their log level follows the --debug flag.
	Verbose bool `yaml:"verbose"`
}

// Default returns the configuration used when no .snekc.yaml is
// present or a field is left unset.
func Default() Config {
	return Config{
		Assembler:      "nasm -f elf64",
		Linker:         "gcc",
		RuntimeArchive: "runtime/our_code.o",
		Verbose:        false,
	}
}

// Load reads a yaml configuration file at path, overlaying it onto
// Default. A missing file is not an error; it just yields defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

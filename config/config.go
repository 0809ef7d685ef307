package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pontaoski/prlc/errors"
	"gopkg.in/yaml.v2"
)

// ProjectFile is looked up in the working directory when no --config is given.
const ProjectFile = "prlc.yaml"

// Toolchain names the external assembler and linker. The assembler is run as
// `Assembler AssemblerFlags... <file>.asm -o <file>.o`, the linker as
// `Linker LinkerFlags... -o <output> <file>.o`.
type Toolchain struct {
	Assembler      string   `yaml:"assembler"`
	AssemblerFlags []string `yaml:"assembler_flags"`
	Linker         string   `yaml:"linker"`
	LinkerFlags    []string `yaml:"linker_flags,omitempty"`
}

func DefaultToolchain() Toolchain {
	return Toolchain{
		Assembler:      "nasm",
		AssemblerFlags: []string{"-g", "-felf64"},
		Linker:         "ld",
	}
}

type Config struct {
	Input  string
	Output string

	// AsmOnly stops after the .asm file is written.
	AsmOnly bool
	// PrintAST logs the function list and data pool after parsing.
	PrintAST bool

	Toolchain Toolchain
}

// Artifacts lists every file a build writes: the executable, the assembly
// and the object file.
func (c *Config) Artifacts() []string {
	return []string{c.Output, c.Output + ".asm", c.Output + ".o"}
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// Resolve validates the input path and derives the output path from the
// input's stem when none was given. An output whose artifacts would
// overwrite the input is rejected.
func (c *Config) Resolve() error {
	if c.Input == "" {
		return fmt.Errorf("file for compilation hasn't been provided")
	}
	if c.Output == "" {
		base := filepath.Base(c.Input)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		if stem == "" || stem == "." || stem == string(filepath.Separator) {
			return fmt.Errorf("input filepath is empty")
		}
		c.Output = stem
	}
	for _, artifact := range c.Artifacts() {
		if samePath(artifact, c.Input) {
			return fmt.Errorf("output %s would overwrite the input file %s, choose another with -o", artifact, c.Input)
		}
	}
	return nil
}

// LoadToolchain reads a project file. Settings it leaves out keep their
// defaults. If the file does not exist and required is false, the defaults are
// returned.
func LoadToolchain(path string, required bool) (Toolchain, error) {
	tc := DefaultToolchain()

	data, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return tc, nil
		}
		return tc, errors.IOError{Err: err}
	}

	var doc Toolchain
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return tc, fmt.Errorf("error reading %s: %w", path, err)
	}
	if doc.Assembler != "" {
		tc.Assembler = doc.Assembler
	}
	if doc.AssemblerFlags != nil {
		tc.AssemblerFlags = doc.AssemblerFlags
	}
	if doc.Linker != "" {
		tc.Linker = doc.Linker
	}
	if doc.LinkerFlags != nil {
		tc.LinkerFlags = doc.LinkerFlags
	}
	return tc, nil
}

// WriteDefault creates a project file holding the default toolchain. An
// existing file is left alone.
func WriteDefault(path string) error {
	fi, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return errors.IOError{Err: err}
	}
	defer fi.Close()

	out, err := yaml.Marshal(DefaultToolchain())
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}

	if _, err = fi.Write(out); err != nil {
		return errors.IOError{Err: err}
	}

	return nil
}

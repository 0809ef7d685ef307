package toolchain

import (
	"os"
	"os/exec"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/pontaoski/prlc/config"
	"github.com/pontaoski/prlc/errors"
	"github.com/ztrue/tracerr"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/prlc", "toolchain")

// Runner executes an external program and blocks until it exits. A non-zero
// exit status is reported as an error.
type Runner func(name string, args ...string) error

func execRunner(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

type Driver struct {
	tc  config.Toolchain
	run Runner
}

func NewDriver(tc config.Toolchain) *Driver {
	return &Driver{tc: tc, run: execRunner}
}

// WithRunner replaces how tools are started.
func (d *Driver) WithRunner(r Runner) *Driver {
	d.run = r
	return d
}

// ObjectPath is the intermediate object file produced from asmPath.
func ObjectPath(asmPath string) string {
	return strings.TrimSuffix(asmPath, ".asm") + ".o"
}

// Build assembles asmPath and links the object into output. The .asm file and
// any object file are removed once the last tool has finished, whether or not
// it succeeded.
func (d *Driver) Build(asmPath, output string) error {
	obj := ObjectPath(asmPath)
	produced := []string{asmPath}
	defer func() { cleanup(produced) }()

	plog.Infof("Generating %s with %s...", obj, d.tc.Assembler)
	args := append(append([]string{}, d.tc.AssemblerFlags...), asmPath, "-o", obj)
	if err := d.run(d.tc.Assembler, args...); err != nil {
		produced = append(produced, obj)
		return tracerr.Wrap(errors.ToolchainFailure{Stage: errors.Assemble, Tool: d.tc.Assembler, Err: err})
	}
	produced = append(produced, obj)

	plog.Infof("Linking %s with %s...", obj, d.tc.Linker)
	args = append(append([]string{}, d.tc.LinkerFlags...), "-o", output, obj)
	if err := d.run(d.tc.Linker, args...); err != nil {
		return tracerr.Wrap(errors.ToolchainFailure{Stage: errors.Link, Tool: d.tc.Linker, Err: err})
	}

	return nil
}

func cleanup(files []string) {
	for _, file := range files {
		err := os.Remove(file)
		switch {
		case err == nil:
			plog.Debugf("removed %s", file)
		case !os.IsNotExist(err):
			plog.Warningf("could not remove %s: %v", file, err)
		}
	}
}

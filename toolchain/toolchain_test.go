package toolchain

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pontaoski/prlc/config"
	"github.com/pontaoski/prlc/errors"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

// fakeTools records invocations. The assembler writes the object file named
// after -o; failAt names the tool that should fail.
type fakeTools struct {
	calls  []call
	failAt string
}

func (f *fakeTools) run(name string, args ...string) error {
	f.calls = append(f.calls, call{name, args})
	if name == "nasm" {
		for i, a := range args {
			if a == "-o" && i+1 < len(args) {
				if err := ioutil.WriteFile(args[i+1], []byte("obj"), 0644); err != nil {
					return err
				}
			}
		}
	}
	if name == f.failAt {
		return fmt.Errorf("exit status 1")
	}
	return nil
}

func writeAsm(t *testing.T) (string, string) {
	dir := t.TempDir()
	asm := filepath.Join(dir, "hello.asm")
	require.NoError(t, ioutil.WriteFile(asm, []byte("BITS 64\n"), 0644))
	return asm, filepath.Join(dir, "hello")
}

func requireGone(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		_, err := os.Stat(p)
		require.True(t, os.IsNotExist(err), "%s still exists", p)
	}
}

func TestBuild(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		asm, out := writeAsm(t)
		tools := &fakeTools{}

		err := NewDriver(config.DefaultToolchain()).WithRunner(tools.run).Build(asm, out)
		require.NoError(t, err)
		require.Equal(t, []call{
			{"nasm", []string{"-g", "-felf64", asm, "-o", out + ".o"}},
			{"ld", []string{"-o", out, out + ".o"}},
		}, tools.calls)
		requireGone(t, asm, out+".o")
	})
	t.Run("assembler fails", func(t *testing.T) {
		asm, out := writeAsm(t)
		tools := &fakeTools{failAt: "nasm"}

		err := NewDriver(config.DefaultToolchain()).WithRunner(tools.run).Build(asm, out)
		require.Error(t, err)
		require.Equal(t, errors.Toolchain, errors.KindOf(err))
		require.Contains(t, err.Error(), "assembly failed")
		require.Len(t, tools.calls, 1)
		requireGone(t, asm, out+".o")
	})
	t.Run("linker fails", func(t *testing.T) {
		asm, out := writeAsm(t)
		tools := &fakeTools{failAt: "ld"}

		err := NewDriver(config.DefaultToolchain()).WithRunner(tools.run).Build(asm, out)
		require.Error(t, err)
		require.Equal(t, errors.Toolchain, errors.KindOf(err))
		require.Contains(t, err.Error(), "linking failed")
		requireGone(t, asm, out+".o")
	})
	t.Run("custom toolchain", func(t *testing.T) {
		asm, out := writeAsm(t)
		tools := &fakeTools{}
		tc := config.Toolchain{Assembler: "nasm", AssemblerFlags: []string{"-felf64"}, Linker: "gold", LinkerFlags: []string{"-s"}}

		require.NoError(t, NewDriver(tc).WithRunner(tools.run).Build(asm, out))
		require.Equal(t, []string{"-s", "-o", out, out + ".o"}, tools.calls[1].args)
		require.Equal(t, "gold", tools.calls[1].name)
	})
}

func TestExecRunner(t *testing.T) {
	err := execRunner("prlc-no-such-assembler")
	require.Error(t, err)

	asm, out := writeAsm(t)
	tc := config.DefaultToolchain()
	tc.Assembler = "prlc-no-such-assembler"
	err = NewDriver(tc).Build(asm, out)
	require.Error(t, err)
	require.Equal(t, errors.Toolchain, errors.KindOf(err))
	requireGone(t, asm)
}

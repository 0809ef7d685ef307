package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/pontaoski/prlc/errors"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Run("output from stem", func(t *testing.T) {
		c := Config{Input: "examples/hello.prl"}
		require.NoError(t, c.Resolve())
		require.Equal(t, "hello", c.Output)
	})
	t.Run("no extension", func(t *testing.T) {
		c := Config{Input: "hello"}
		require.Error(t, c.Resolve())

		c = Config{Input: "hello", Output: "hello.bin"}
		require.NoError(t, c.Resolve())
	})
	t.Run("output collides with input", func(t *testing.T) {
		tests := []Config{
			{Input: "prog.asm"},
			{Input: "prog.o"},
			{Input: "./prog.asm"},
			{Input: "src/main.prl", Output: "src/main.prl"},
			{Input: "src/main.prl", Output: "src/../src/main.prl"},
			{Input: "src/main.asm", Output: "src/main"},
		}
		for _, c := range tests {
			input := c.Input
			err := c.Resolve()
			require.Error(t, err, input)
			require.Contains(t, err.Error(), "would overwrite the input file")
		}
	})
	t.Run("explicit output kept", func(t *testing.T) {
		c := Config{Input: "hello.prl", Output: "bin/out.a"}
		require.NoError(t, c.Resolve())
		require.Equal(t, "bin/out.a", c.Output)
	})
	t.Run("missing input", func(t *testing.T) {
		c := Config{}
		require.Error(t, c.Resolve())
	})
}

func TestLoadToolchain(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing optional file", func(t *testing.T) {
		tc, err := LoadToolchain(filepath.Join(dir, "none.yaml"), false)
		require.NoError(t, err)
		require.Equal(t, DefaultToolchain(), tc)
	})
	t.Run("missing required file", func(t *testing.T) {
		_, err := LoadToolchain(filepath.Join(dir, "none.yaml"), true)
		require.Error(t, err)
		require.Equal(t, errors.IO, errors.KindOf(err))
	})
	t.Run("partial override", func(t *testing.T) {
		path := filepath.Join(dir, "partial.yaml")
		require.NoError(t, ioutil.WriteFile(path, []byte("linker: gold\nlinker_flags: [\"-s\"]\n"), 0644))

		tc, err := LoadToolchain(path, true)
		require.NoError(t, err)
		require.Equal(t, "nasm", tc.Assembler)
		require.Equal(t, []string{"-g", "-felf64"}, tc.AssemblerFlags)
		require.Equal(t, "gold", tc.Linker)
		require.Equal(t, []string{"-s"}, tc.LinkerFlags)
	})
	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, ioutil.WriteFile(path, []byte("assembler: [unclosed"), 0644))

		_, err := LoadToolchain(path, true)
		require.Error(t, err)
	})
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectFile)
	require.NoError(t, WriteDefault(path))

	tc, err := LoadToolchain(path, true)
	require.NoError(t, err)
	require.Equal(t, DefaultToolchain(), tc)

	require.Error(t, WriteDefault(path))
}

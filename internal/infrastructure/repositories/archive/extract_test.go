//go:build unit

package archive_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybe/trinity-market/internal/domain/entities"
	"github.com/vybe/trinity-market/internal/infrastructure/repositories/archive"
	fixtures "github.com/vybe/trinity-market/test/infrastructure/archivefixtures"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("should extract files and directories", func(t *testing.T) {
		t.Parallel()

		// given
		dest := t.TempDir()
		data := fixtures.Tarball(t,
			fixtures.Dir("bin/"),
			fixtures.Entry{Name: "bin/run", Body: "#!/bin/sh\n", Mode: 0o755},
			fixtures.File("agent.yaml", "name: x\n"),
		)

		// when
		err := archive.Extract(bytes.NewReader(data), dest, archive.DefaultLimits())

		// then
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dest, "agent.yaml"))
		info, statErr := os.Stat(filepath.Join(dest, "bin", "run"))
		require.NoError(t, statErr)
		assert.NotZero(t, info.Mode()&0o100, "executable bit should be preserved")
	})

	t.Run("should flatten a single wrapping directory", func(t *testing.T) {
		t.Parallel()

		// given
		dest := t.TempDir()
		data := fixtures.Tarball(t,
			fixtures.Dir("summarizer-1.0.0/"),
			fixtures.File("summarizer-1.0.0/agent.yaml", "name: summarizer\n"),
			fixtures.File("summarizer-1.0.0/lib/util.py", "pass\n"),
		)

		// when
		err := archive.Extract(bytes.NewReader(data), dest, archive.DefaultLimits())

		// then
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dest, "agent.yaml"))
		assert.FileExists(t, filepath.Join(dest, "lib", "util.py"))
		assert.NoDirExists(t, filepath.Join(dest, "summarizer-1.0.0"))
	})

	t.Run("should keep internal symlinks", func(t *testing.T) {
		t.Parallel()

		// given
		dest := t.TempDir()
		data := fixtures.Tarball(t,
			fixtures.File("agent.yaml", "name: x\n"),
			fixtures.File("lib/real.py", "pass\n"),
			fixtures.Symlink("main.py", "lib/real.py"),
		)

		// when
		err := archive.Extract(bytes.NewReader(data), dest, archive.DefaultLimits())

		// then
		require.NoError(t, err)
		target, linkErr := os.Readlink(filepath.Join(dest, "main.py"))
		require.NoError(t, linkErr)
		assert.Equal(t, "lib/real.py", target)
	})

	unsafe := map[string][]fixtures.Entry{
		"parent traversal":      {fixtures.File("../evil.sh", "boom")},
		"nested traversal":      {fixtures.File("ok/../../evil.sh", "boom")},
		"absolute path":         {fixtures.File("/etc/evil", "boom")},
		"absolute symlink":      {fixtures.Symlink("link", "/etc/passwd")},
		"escaping symlink":      {fixtures.Symlink("link", "../../outside")},
		"write through symlink": {fixtures.Symlink("lib", "."), fixtures.File("lib/../../evil", "boom")},
		"hard link":             {{Name: "hard", Type: '1', Linkname: "agent.yaml"}},
		"file over symlink":     {fixtures.File("real.txt", "a"), fixtures.Symlink("link", "real.txt"), fixtures.File("link", "b")},
		"symlink chain": {
			fixtures.Dir("sub/"),
			fixtures.Symlink("sub/up", ".."),
			fixtures.Symlink("escape", "sub/up/.."),
			fixtures.File("agent.yaml", "name: x\n"),
		},
		"link completed later": {
			fixtures.Symlink("later", "sub/next/../.."),
			fixtures.Dir("sub/"),
			fixtures.Symlink("sub/next", ".."),
		},
	}
	for name, entries := range unsafe {
		t.Run("should reject "+name, func(t *testing.T) {
			t.Parallel()

			// given
			dest := filepath.Join(t.TempDir(), "pkg")
			require.NoError(t, os.Mkdir(dest, 0o755))
			data := fixtures.Tarball(t, entries...)

			// when
			err := archive.Extract(bytes.NewReader(data), dest, archive.DefaultLimits())

			// then
			require.ErrorIs(t, err, entities.ErrUnsafePath)
			assert.NoFileExists(t, filepath.Join(filepath.Dir(dest), "evil.sh"))
		})
	}

	t.Run("should reject a symlink that is later written through", func(t *testing.T) {
		t.Parallel()

		// given
		dest := t.TempDir()
		data := fixtures.Tarball(t,
			fixtures.Dir("real/"),
			fixtures.Symlink("alias", "real"),
			fixtures.File("alias/file.txt", "data"),
		)

		// when
		err := archive.Extract(bytes.NewReader(data), dest, archive.DefaultLimits())

		// then
		require.ErrorIs(t, err, entities.ErrUnsafePath)
	})

	t.Run("should enforce the extracted size limit", func(t *testing.T) {
		t.Parallel()

		// given
		limits := archive.DefaultLimits()
		limits.MaxExtractBytes = 8
		data := fixtures.Tarball(t, fixtures.File("big.bin", "0123456789"))

		// when
		err := archive.Extract(bytes.NewReader(data), t.TempDir(), limits)

		// then
		require.ErrorIs(t, err, entities.ErrUnsafePath)
	})

	t.Run("should enforce the entry limit", func(t *testing.T) {
		t.Parallel()

		// given
		limits := archive.DefaultLimits()
		limits.MaxEntries = 2
		data := fixtures.Tarball(t, fixtures.File("a", "1"), fixtures.File("b", "2"), fixtures.File("c", "3"))

		// when
		err := archive.Extract(bytes.NewReader(data), t.TempDir(), limits)

		// then
		require.ErrorIs(t, err, entities.ErrUnsafePath)
	})

	t.Run("should fail on data that is not gzip", func(t *testing.T) {
		t.Parallel()

		// when
		err := archive.Extract(bytes.NewReader([]byte("plain text")), t.TempDir(), archive.DefaultLimits())

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gzip")
	})
}

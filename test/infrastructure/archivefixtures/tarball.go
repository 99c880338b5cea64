//go:build integration || unit || test

package archivefixtures //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"archive/tar"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

// Entry is a single member of a test tarball. Type defaults to a regular file.
type Entry struct {
	Name     string
	Body     string
	Mode     int64
	Type     byte
	Linkname string
}

// File returns a regular file entry.
func File(name, body string) Entry {
	return Entry{Name: name, Body: body, Mode: 0o644, Type: tar.TypeReg}
}

// Dir returns a directory entry.
func Dir(name string) Entry {
	return Entry{Name: name, Mode: 0o755, Type: tar.TypeDir}
}

// Symlink returns a symbolic link entry.
func Symlink(name, target string) Entry {
	return Entry{Name: name, Mode: 0o777, Type: tar.TypeSymlink, Linkname: target}
}

// Tarball builds a gzip-compressed tarball from entries.
func Tarball(t *testing.T, entries ...Entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, entry := range entries {
		typ := entry.Type
		if typ == 0 {
			typ = tar.TypeReg
		}
		header := &tar.Header{
			Name:     entry.Name,
			Mode:     entry.Mode,
			Typeflag: typ,
			Linkname: entry.Linkname,
		}
		if typ == tar.TypeReg {
			header.Size = int64(len(entry.Body))
		}
		require.NoError(t, tw.WriteHeader(header))
		if typ == tar.TypeReg {
			_, err := tw.Write([]byte(entry.Body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

// Checksum returns the "sha256:<hex>" checksum of data.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// AgentPackage returns a tarball holding a minimal valid package for name at version.
func AgentPackage(t *testing.T, name, version string) []byte {
	t.Helper()
	return Tarball(t,
		File("agent.yaml", "name: "+name+"\nversion: "+version+"\nentrypoint: main.py\n"),
		File("main.py", "print('hello')\n"),
	)
}

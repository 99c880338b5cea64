package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	logger "github.com/sirupsen/logrus"

	"github.com/vybe/trinity-market/internal/domain/entities"
	"github.com/vybe/trinity-market/internal/infrastructure/repositories/pathguard"
)

const (
	dirMode        = 0o755
	fileMode       = 0o644
	executableMode = 0o755
	executableBits = 0o111
)

// Limits bound the resources an archive may consume.
type Limits struct {
	MaxDownloadBytes int64
	MaxExtractBytes  int64
	MaxEntries       int
}

// DefaultLimits returns the limits applied to marketplace archives.
func DefaultLimits() Limits {
	return Limits{
		MaxDownloadBytes: 512 << 20, //nolint:mnd // 512 MiB
		MaxExtractBytes:  512 << 20, //nolint:mnd // 512 MiB
		MaxEntries:       10000,     //nolint:mnd // entries per package
	}
}

// Extract unpacks a gzip-compressed tarball into destDir. Entries that would land outside
// destDir fail the whole extraction with entities.ErrUnsafePath. When the archive wraps
// everything in a single top-level directory and carries no symlinks, its contents are moved
// up into destDir.
func Extract(src io.Reader, destDir string, limits Limits) error {
	gz, err := gzip.NewReader(src)
	if err != nil {
		return fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer gz.Close()

	root, err := filepath.Abs(destDir)
	if err != nil {
		return fmt.Errorf("invalid destination %q: %w", destDir, err)
	}

	reader := tar.NewReader(gz)
	var total int64
	entries := 0
	symlinks := false
	for {
		header, nextErr := reader.Next()
		if errors.Is(nextErr, io.EOF) {
			break
		}
		if errors.Is(nextErr, tar.ErrInsecurePath) {
			return fmt.Errorf("%w: %q", entities.ErrUnsafePath, header.Name)
		}
		if nextErr != nil {
			return fmt.Errorf("failed to read archive: %w", nextErr)
		}

		entries++
		if entries > limits.MaxEntries {
			return fmt.Errorf("%w: archive has more than %d entries", entities.ErrUnsafePath, limits.MaxEntries)
		}

		target, skip, pathErr := entryPath(root, header.Name)
		if pathErr != nil {
			return pathErr
		}
		if skip {
			continue
		}
		if linkErr := checkParents(root, target); linkErr != nil {
			return linkErr
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if mkdirErr := os.MkdirAll(target, dirMode); mkdirErr != nil {
				return fmt.Errorf("failed to create %s: %w", header.Name, mkdirErr)
			}
		case tar.TypeReg:
			total += header.Size
			if total > limits.MaxExtractBytes {
				return fmt.Errorf(
					"%w: archive expands beyond %d bytes", entities.ErrUnsafePath, limits.MaxExtractBytes,
				)
			}
			if writeErr := writeFile(reader, target, header); writeErr != nil {
				return writeErr
			}
		case tar.TypeSymlink:
			if linkErr := writeSymlink(root, target, header.Linkname); linkErr != nil {
				return linkErr
			}
			symlinks = true
		case tar.TypeLink:
			return fmt.Errorf("%w: hard link %q is not allowed", entities.ErrUnsafePath, header.Name)
		default:
			logger.Debugf("[archive] Skipping %q (type %q)", header.Name, header.Typeflag)
		}
	}

	if symlinks {
		// a link created early may only escape once later entries exist
		return pathguard.CheckTree(root)
	}
	return hoistSingleDirectory(root)
}

// entryPath resolves a tar entry name inside root. The archive root itself is skipped.
func entryPath(root, name string) (string, bool, error) {
	slashed := strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(slashed, "/") || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", false, fmt.Errorf("%w: absolute path %q", entities.ErrUnsafePath, name)
	}

	target := filepath.Join(root, filepath.FromSlash(slashed))
	if target == root {
		return "", true, nil
	}
	if !pathguard.Within(root, target) {
		return "", false, fmt.Errorf("%w: %q escapes the package root", entities.ErrUnsafePath, name)
	}
	return target, false, nil
}

// checkParents refuses to write through a symlink created by an earlier entry.
func checkParents(root, target string) error {
	rel, err := filepath.Rel(root, filepath.Dir(target))
	if err != nil || rel == "." {
		return nil //nolint:nilerr // target sits directly under root
	}
	current := root
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		current = filepath.Join(current, part)
		info, statErr := os.Lstat(current)
		if statErr != nil {
			return nil //nolint:nilerr // not created yet, nothing to follow
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%w: %q is written through a symlink", entities.ErrUnsafePath, target)
		}
	}
	return nil
}

func writeFile(reader io.Reader, target string, header *tar.Header) error {
	if info, err := os.Lstat(target); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("%w: %q would be written through a symlink", entities.ErrUnsafePath, header.Name)
	}
	if err := os.MkdirAll(filepath.Dir(target), dirMode); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
	}

	mode := os.FileMode(fileMode)
	if header.Mode&executableBits != 0 {
		mode = executableMode
	}
	file, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", header.Name, err)
	}
	if _, copyErr := io.CopyN(file, reader, header.Size); copyErr != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s: %w", header.Name, copyErr)
	}
	return file.Close()
}

func writeSymlink(root, target, linkname string) error {
	if err := os.MkdirAll(filepath.Dir(target), dirMode); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
	}
	if err := pathguard.CheckLink(root, filepath.Dir(target), filepath.FromSlash(linkname)); err != nil {
		return err
	}
	if err := os.Symlink(linkname, target); err != nil {
		return fmt.Errorf("failed to create symlink %s: %w", target, err)
	}
	return nil
}

// hoistSingleDirectory flattens archives shaped like "agent-1.0.0/agent.yaml".
func hoistSingleDirectory(root string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", root, err)
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		return nil
	}

	wrapper := filepath.Join(root, entries[0].Name())
	children, err := os.ReadDir(wrapper)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", wrapper, err)
	}
	for _, child := range children {
		if child.Name() == entries[0].Name() {
			// a child named like its wrapper would be clobbered by the final rename
			return nil
		}
	}
	for _, child := range children {
		if renameErr := os.Rename(filepath.Join(wrapper, child.Name()), filepath.Join(root, child.Name())); renameErr != nil {
			return fmt.Errorf("failed to flatten archive: %w", renameErr)
		}
	}
	return os.Remove(wrapper)
}

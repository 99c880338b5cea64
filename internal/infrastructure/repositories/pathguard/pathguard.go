package pathguard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vybe/trinity-market/internal/domain/entities"
)

// maxLinkHops bounds symlink chains the way the kernel's ELOOP limit does.
const maxLinkHops = 40

// Within reports whether path is root itself or lies below it. Both paths are compared lexically.
func Within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// CheckLink fails with entities.ErrUnsafePath unless linkname, read from a symlink placed in
// linkDir, resolves inside root. Symlinks already present on disk are followed; components
// that do not exist yet are resolved lexically.
func CheckLink(root, linkDir, linkname string) error {
	if linkname == "" || filepath.IsAbs(linkname) || strings.HasPrefix(linkname, "/") {
		return fmt.Errorf("%w: symlink target %q is not relative", entities.ErrUnsafePath, linkname)
	}

	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	base, err := realPath(root, realRoot, linkDir)
	if err != nil {
		return err
	}

	hops := 0
	resolved, err := resolve(base, linkname, &hops)
	if err != nil {
		return err
	}
	if !Within(realRoot, resolved) {
		return fmt.Errorf(
			"%w: symlink %q resolves outside the package root",
			entities.ErrUnsafePath, filepath.Join(linkDir, linkname),
		)
	}
	return nil
}

// CheckTree walks root without following symlinks and applies CheckLink to every symlink.
func CheckTree(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		linkname, err := os.Readlink(path)
		if err != nil {
			return fmt.Errorf("failed to read symlink %s: %w", path, err)
		}
		return CheckLink(root, filepath.Dir(path), filepath.FromSlash(linkname))
	})
}

// realPath maps dir, a path under root, onto the symlink-free realRoot.
func realPath(root, realRoot, dir string) (string, error) {
	rel, err := filepath.Rel(root, dir)
	if err != nil || !Within(root, dir) {
		return "", fmt.Errorf("%w: %q is outside %q", entities.ErrUnsafePath, dir, root)
	}
	hops := 0
	return resolve(realRoot, rel, &hops)
}

// resolve walks rel component by component from base, following symlinks found on disk.
// base must be free of symlinks.
func resolve(base, rel string, hops *int) (string, error) {
	current := base
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			current = filepath.Dir(current)
			continue
		}

		next := filepath.Join(current, part)
		info, err := os.Lstat(next)
		switch {
		case errors.Is(err, os.ErrNotExist):
			current = next
			continue
		case err != nil:
			return "", fmt.Errorf("failed to inspect %s: %w", next, err)
		case info.Mode()&os.ModeSymlink == 0:
			current = next
			continue
		}

		*hops++
		if *hops > maxLinkHops {
			return "", fmt.Errorf("%w: too many levels of symlinks at %q", entities.ErrUnsafePath, next)
		}
		target, readErr := os.Readlink(next)
		if readErr != nil {
			return "", fmt.Errorf("failed to read symlink %s: %w", next, readErr)
		}
		from := current
		if filepath.IsAbs(target) {
			from = string(filepath.Separator)
		}
		current, err = resolve(from, target, hops)
		if err != nil {
			return "", err
		}
	}
	return current, nil
}

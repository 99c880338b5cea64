package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/vybe/trinity-market/internal/domain/entities"
	"github.com/vybe/trinity-market/internal/domain/repositories"
)

const (
	// LockfileName is the lockfile kept at the root of the install directory.
	LockfileName = "trinity-lock.yaml"
	stagingDir   = ".staging"
	dirMode      = 0o755
	fileMode     = 0o644
)

// InstallationRepository implements repositories.InstallationRepository on the local file system.
// Agents live in <root>/<name>; "publisher/agent" names become nested directories.
type InstallationRepository struct {
	root string
	now  func() time.Time
}

// NewInstallationRepository creates a file-system installation store from the given settings.
func NewInstallationRepository(settings *entities.Settings) repositories.InstallationRepository {
	return NewInstallationRepositoryAt(settings.Install.Dir)
}

// NewInstallationRepositoryAt creates a file-system installation store rooted at root.
func NewInstallationRepositoryAt(root string) *InstallationRepository {
	return &InstallationRepository{
		root: filepath.Clean(root),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *InstallationRepository) Root() string { return r.root }

// List returns every agent recorded in the lockfile, sorted by name.
func (r *InstallationRepository) List() ([]entities.InstalledAgent, error) {
	lock, err := r.readLockfile()
	if err != nil {
		return nil, err
	}
	return lock.Sorted(), nil
}

// Get returns the lockfile entry for name.
func (r *InstallationRepository) Get(name string) (*entities.InstalledAgent, error) {
	lock, err := r.readLockfile()
	if err != nil {
		return nil, err
	}
	agent, ok := lock.Agents[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entities.ErrNotInstalled, name)
	}
	return &agent, nil
}

// Stage creates an empty directory under <root>/.staging. Staging on the same file system as
// the final location lets Commit move it with a single rename.
func (r *InstallationRepository) Stage() (string, error) {
	base := filepath.Join(r.root, stagingDir)
	if err := os.MkdirAll(base, dirMode); err != nil {
		return "", fmt.Errorf("failed to create staging area: %w", err)
	}
	dir, err := os.MkdirTemp(base, "install-*")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	return dir, nil
}

// Commit swaps stageDir in as the agent's directory and records it in the lockfile.
// A previous installation is kept aside until the swap succeeds and restored otherwise.
func (r *InstallationRepository) Commit(
	stageDir string,
	agent entities.InstalledAgent,
) (*entities.InstalledAgent, error) {
	target, err := r.agentDir(agent.Name)
	if err != nil {
		return nil, err
	}
	if conflictErr := r.checkOverlap(agent.Name); conflictErr != nil {
		return nil, conflictErr
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(target), dirMode); mkdirErr != nil {
		return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(target), mkdirErr)
	}

	backup := ""
	if _, statErr := os.Stat(target); statErr == nil {
		backup = stageDir + ".previous"
		if renameErr := os.Rename(target, backup); renameErr != nil {
			return nil, fmt.Errorf("failed to move previous installation aside: %w", renameErr)
		}
	}

	if renameErr := os.Rename(stageDir, target); renameErr != nil {
		r.restore(backup, target)
		return nil, fmt.Errorf("failed to move %s into place: %w", agent.Name, renameErr)
	}

	agent.Path = target
	agent.InstalledAt = r.now()
	if recordErr := r.record(agent); recordErr != nil {
		_ = os.RemoveAll(target)
		r.restore(backup, target)
		return nil, recordErr
	}

	if backup != "" {
		if removeErr := os.RemoveAll(backup); removeErr != nil {
			logger.Warnf("Failed to remove previous installation %q: %v", backup, removeErr)
		}
	}
	return &agent, nil
}

// Discard removes a staging directory.
func (r *InstallationRepository) Discard(stageDir string) {
	if stageDir == "" {
		return
	}
	if err := os.RemoveAll(stageDir); err != nil {
		logger.Warnf("Failed to clean up staging directory %q: %v", stageDir, err)
	}
}

// Remove deletes an installed agent and its lockfile entry.
func (r *InstallationRepository) Remove(name string) error {
	lock, err := r.readLockfile()
	if err != nil {
		return err
	}
	agent, ok := lock.Agents[name]
	if !ok {
		return fmt.Errorf("%w: %s", entities.ErrNotInstalled, name)
	}

	dir, err := r.agentDir(agent.Name)
	if err != nil {
		return err
	}
	if removeErr := os.RemoveAll(dir); removeErr != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, removeErr)
	}
	r.pruneEmptyParents(filepath.Dir(dir))

	delete(lock.Agents, name)
	return r.writeLockfile(lock)
}

func (r *InstallationRepository) record(agent entities.InstalledAgent) error {
	lock, err := r.readLockfile()
	if err != nil {
		return err
	}
	lock.Agents[agent.Name] = agent
	return r.writeLockfile(lock)
}

func (r *InstallationRepository) restore(backup, target string) {
	if backup == "" {
		return
	}
	if err := os.Rename(backup, target); err != nil {
		logger.Errorf("Failed to restore previous installation from %q: %v", backup, err)
	}
}

// agentDir maps an agent name to its directory, refusing names that would leave the root.
func (r *InstallationRepository) agentDir(name string) (string, error) {
	if !entities.ValidAgentName(name) {
		return "", fmt.Errorf("%w: %q", entities.ErrInvalidReference, name)
	}
	dir := filepath.Join(r.root, filepath.FromSlash(name))
	rel, err := filepath.Rel(r.root, dir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") || strings.HasPrefix(rel, stagingDir) || rel == LockfileName {
		return "", fmt.Errorf("%w: %q", entities.ErrUnsafePath, name)
	}
	return dir, nil
}

// checkOverlap refuses name when its directory would nest inside, or contain, the directory of
// another installed agent.
func (r *InstallationRepository) checkOverlap(name string) error {
	lock, err := r.readLockfile()
	if err != nil {
		return err
	}
	for installed := range lock.Agents {
		if installed == name {
			continue
		}
		if strings.HasPrefix(name, installed+"/") || strings.HasPrefix(installed, name+"/") {
			return fmt.Errorf("%w: %q and %q", entities.ErrAgentConflict, name, installed)
		}
	}
	return nil
}

// pruneEmptyParents removes publisher directories left empty by Remove.
func (r *InstallationRepository) pruneEmptyParents(dir string) {
	for dir != r.root && strings.HasPrefix(dir, r.root) {
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

func (r *InstallationRepository) lockfilePath() string {
	return filepath.Join(r.root, LockfileName)
}

func (r *InstallationRepository) readLockfile() (*entities.Lockfile, error) {
	data, err := os.ReadFile(r.lockfilePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entities.NewLockfile(), nil
		}
		return nil, fmt.Errorf("failed to read lockfile: %w", err)
	}

	lock := entities.NewLockfile()
	if unmarshalErr := yaml.Unmarshal(data, lock); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse lockfile %q: %w", r.lockfilePath(), unmarshalErr)
	}
	if lock.Agents == nil {
		lock.Agents = make(map[string]entities.InstalledAgent)
	}
	if lock.Version > entities.LockfileVersion {
		return nil, fmt.Errorf(
			"lockfile %q has version %d, this build understands up to %d",
			r.lockfilePath(), lock.Version, entities.LockfileVersion,
		)
	}
	return lock, nil
}

// writeLockfile replaces the lockfile through a temporary file and a rename.
func (r *InstallationRepository) writeLockfile(lock *entities.Lockfile) error {
	if err := os.MkdirAll(r.root, dirMode); err != nil {
		return fmt.Errorf("failed to create %s: %w", r.root, err)
	}
	lock.Version = entities.LockfileVersion

	data, err := yaml.Marshal(lock)
	if err != nil {
		return fmt.Errorf("failed to encode lockfile: %w", err)
	}

	tmp, err := os.CreateTemp(r.root, LockfileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write lockfile: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, writeErr := tmp.Write(data); writeErr != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write lockfile: %w", writeErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		return fmt.Errorf("failed to write lockfile: %w", closeErr)
	}
	if chmodErr := os.Chmod(tmpName, fileMode); chmodErr != nil {
		return fmt.Errorf("failed to write lockfile: %w", chmodErr)
	}
	if renameErr := os.Rename(tmpName, r.lockfilePath()); renameErr != nil {
		return fmt.Errorf("failed to replace lockfile: %w", renameErr)
	}
	return nil
}

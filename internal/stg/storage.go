package stg

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MirrorChyan/dxvk-manager/internal/channel"
	"github.com/MirrorChyan/dxvk-manager/internal/model/types"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/fileops"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/vercomp"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

const BinaryExt = ".dll"

const stagingPrefix = "."

// Storage is the on-disk version cache. Each channel owns one directory under
// RootDir and every cached version is a directory inside it.
type Storage struct {
	logger  *zap.Logger
	RootDir string
}

func New(logger *zap.Logger, rootDir string) *Storage {
	return &Storage{
		logger:  logger,
		RootDir: rootDir,
	}
}

// Payload is the architecture split of a cached version.
type Payload struct {
	Root string
	X32  []string
	X64  []string
}

func (p *Payload) Files(arch types.Arch) []string {
	if arch == types.Arch32 {
		return p.X32
	}
	return p.X64
}

func (s *Storage) ChannelDir(ch *channel.Channel) string {
	return filepath.Join(s.RootDir, ch.CacheDir)
}

func (s *Storage) VersionDir(ch *channel.Channel, version string) string {
	return filepath.Join(s.ChannelDir(ch), ch.DirName(version))
}

// StagingDir returns a fresh hidden sibling of the version directory. It is
// invisible to IsPresent and Installed until Commit renames it.
func (s *Storage) StagingDir(ch *channel.Channel, version string) string {
	name := stagingPrefix + ch.DirName(version) + "." + ksuid.New().String()
	return filepath.Join(s.ChannelDir(ch), name)
}

// IsPresent only checks that the version directory exists.
func (s *Storage) IsPresent(ch *channel.Channel, version string) bool {
	info, err := os.Stat(s.VersionDir(ch, version))
	return err == nil && info.IsDir()
}

// Commit moves a fully unpacked staging directory into place. When another
// fetch already produced the version the staging copy is discarded.
func (s *Storage) Commit(ch *channel.Channel, version, stagingDir string) error {
	dest := s.VersionDir(ch, version)
	if s.IsPresent(ch, version) {
		s.logger.Info("Version already cached, discarding staged copy",
			zap.String("channel", ch.ID.String()),
			zap.String("version", version),
		)
		return os.RemoveAll(stagingDir)
	}
	if err := os.Rename(stagingDir, dest); err != nil {
		return errors.Wrapf(err, "commit %s", dest)
	}
	return nil
}

// Locate returns the binaries of both architectures. The version directory
// may wrap the payload in one extra directory; no deeper search is made.
func (s *Storage) Locate(ch *channel.Channel, version string) (*Payload, error) {
	root := s.VersionDir(ch, version)
	if !fileops.IsDir(root) {
		return nil, errs.ErrNotFound.WithMessage("%s %s is not cached", ch.DisplayName, version)
	}

	if nested, ok := soleSubdir(root); ok {
		root = nested
	}

	x64, ok64 := archDir(root, types.Arch64)
	x32, ok32 := archDir(root, types.Arch32)
	if !ok64 || !ok32 {
		return nil, errs.ErrNotFound.WithMessage("%s %s has no x32/x64 payload", ch.DisplayName, version)
	}

	p := &Payload{Root: root}
	var err error
	if p.X64, err = Binaries(x64); err != nil {
		return nil, errs.ErrNotFound.WithMessage("%s %s payload unreadable", ch.DisplayName, version).Wrap(err)
	}
	if p.X32, err = Binaries(x32); err != nil {
		return nil, errs.ErrNotFound.WithMessage("%s %s payload unreadable", ch.DisplayName, version).Wrap(err)
	}
	return p, nil
}

// ResolveArchDir finds the folder holding the binaries for arch. Candidates
// are tried in order: <version>/<arch>, <version>/<nested>/<arch> for each of
// the channel's nested names, then the sole subdirectory of <version>. The
// attempted paths are returned either way.
func (s *Storage) ResolveArchDir(ch *channel.Channel, version string, arch types.Arch) (string, []string, error) {
	versionDir := s.VersionDir(ch, version)

	bases := []string{versionDir}
	for _, name := range ch.NestedNames(version) {
		bases = append(bases, filepath.Join(versionDir, name))
	}
	if nested, ok := soleSubdir(versionDir); ok {
		bases = append(bases, nested)
	}

	var attempted []string
	seen := make(map[string]struct{})
	for _, base := range bases {
		for _, alias := range arch.Aliases() {
			candidate := filepath.Join(base, alias)
			if _, ok := seen[candidate]; ok {
				continue
			}
			seen[candidate] = struct{}{}
			attempted = append(attempted, candidate)
			if fileops.IsDir(candidate) {
				return candidate, attempted, nil
			}
		}
	}

	return "", attempted, errs.ErrNotFound.
		WithMessage("%s bin directory not found for %s %s. Tried: %s", arch, ch.DisplayName, version, strings.Join(attempted, ", ")).
		WithDetails(attempted)
}

// Installed lists cached version directory names, newest first.
func (s *Storage) Installed(ch *channel.Channel) ([]string, error) {
	entries, err := os.ReadDir(s.ChannelDir(ch))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errors.Wrapf(err, "read %s", s.ChannelDir(ch))
	}

	versions := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), stagingPrefix) {
			continue
		}
		versions = append(versions, e.Name())
	}
	sort.SliceStable(versions, func(i, j int) bool {
		return vercomp.CompareLoose(versions[i], versions[j]) > 0
	})
	return versions, nil
}

// Binaries returns the binary files directly inside dir in lexical order.
func Binaries(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), BinaryExt) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// HasArchLayout reports whether dir, or its sole subdirectory, holds both
// architecture folders with at least one binary each.
func HasArchLayout(dir string) bool {
	if hasBinaries(dir) {
		return true
	}
	if nested, ok := soleSubdir(dir); ok {
		return hasBinaries(nested)
	}
	return false
}

func hasBinaries(root string) bool {
	for _, arch := range []types.Arch{types.Arch64, types.Arch32} {
		dir, ok := archDir(root, arch)
		if !ok {
			return false
		}
		files, err := Binaries(dir)
		if err != nil || len(files) == 0 {
			return false
		}
	}
	return true
}

func archDir(root string, arch types.Arch) (string, bool) {
	for _, alias := range arch.Aliases() {
		p := filepath.Join(root, alias)
		if fileops.IsDir(p) {
			return p, true
		}
	}
	return "", false
}

func soleSubdir(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 || !entries[0].IsDir() {
		return "", false
	}
	return filepath.Join(dir, entries[0].Name()), true
}

package metadata

import (
	"path/filepath"

	"github.com/MirrorChyan/dxvk-manager/internal/model"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"go.uber.org/zap"
)

// TargetProvider builds installation targets from stored records.
type TargetProvider struct {
	logger *zap.Logger
	store  Store
}

func NewTargetProvider(logger *zap.Logger, store Store) *TargetProvider {
	return &TargetProvider{
		logger: logger,
		store:  store,
	}
}

func (p *TargetProvider) Lookup(id string) (*model.Target, error) {
	r, err := p.store.Load(id)
	if err != nil {
		return nil, err
	}
	return TargetFromRecord(id, r), nil
}

func TargetFromRecord(id string, r Record) *model.Target {
	descriptor := r.String(KeyDescriptor)
	if descriptor == unknown {
		descriptor = ""
	}
	name := r.String(KeyName)
	if name == "" {
		name = id
	}
	return &model.Target{
		ID:         id,
		Name:       name,
		InstallDir: r.String(KeyInstallDir),
		Descriptor: descriptor,
		Bitness: model.Bitness{
			Is64: r.Bool(KeyExec64),
			Is32: r.Bool(KeyExec32),
		},
	}
}

// Update merges the given fields into the record, creating it when absent.
// Patch state is never touched.
func (p *TargetProvider) Update(id string, u model.TargetUpdate) (*model.Target, error) {
	if u.Empty() {
		return nil, errs.ErrInvalidParams.WithMessage("nothing to update")
	}
	patch := Record{}
	if u.Name != nil {
		patch[KeyName] = *u.Name
	}
	if u.InstallDir != nil {
		dir := *u.InstallDir
		if dir != "" {
			dir = filepath.Clean(dir)
		}
		patch[KeyInstallDir] = dir
	}
	if u.Descriptor != nil {
		d := *u.Descriptor
		if d == "" {
			d = unknown
		}
		patch[KeyDescriptor] = d
	}
	if u.Is64 != nil {
		patch[KeyExec64] = flag(*u.Is64)
	}
	if u.Is32 != nil {
		patch[KeyExec32] = flag(*u.Is32)
	}

	if err := p.store.Save(id, patch); err != nil {
		return nil, err
	}
	p.logger.Info("Target metadata updated",
		zap.String("id", id),
		zap.Int("fields", len(patch)),
	)
	return p.Lookup(id)
}

// DefaultRecord is the record seeded for a newly discovered installation.
func DefaultRecord(name, installDir string) Record {
	return Record{
		KeyName:       name,
		KeyDescriptor: unknown,
		KeyExec32:     unknown,
		KeyExec64:     unknown,
		KeyInstallDir: installDir,
	}
}

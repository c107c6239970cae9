package logic

import (
	"context"

	"github.com/MirrorChyan/dxvk-manager/internal/model"
)

func (m *Manager) Apply(ctx context.Context, targetID, channelID, version string) (*model.ApplyResult, error) {
	target, err := m.targets.Lookup(targetID)
	if err != nil {
		return nil, err
	}
	ch, err := m.channels.Get(channelID)
	if err != nil {
		return nil, err
	}
	return m.engine.Apply(ctx, target, ch, version), nil
}

func (m *Manager) Restore(ctx context.Context, targetID string) (*model.RestoreResult, error) {
	target, err := m.targets.Lookup(targetID)
	if err != nil {
		return nil, err
	}
	return m.engine.Restore(ctx, target), nil
}

func (m *Manager) ForceRemove(ctx context.Context, targetID string) (*model.RemoveResult, error) {
	target, err := m.targets.Lookup(targetID)
	if err != nil {
		return nil, err
	}
	return m.engine.ForceRemove(ctx, target), nil
}

func (m *Manager) GetPatchState(targetID string) model.PatchState {
	return m.engine.State(targetID)
}

func (m *Manager) HasBackup(targetID string) (bool, error) {
	target, err := m.targets.Lookup(targetID)
	if err != nil {
		return false, err
	}
	return m.engine.HasBackup(target), nil
}

func (m *Manager) Verify(targetID string) (*model.VerifyResult, error) {
	target, err := m.targets.Lookup(targetID)
	if err != nil {
		return nil, err
	}
	return m.engine.Verify(target)
}

package logic

import (
	"context"
	"sync"

	"github.com/MirrorChyan/dxvk-manager/internal/model"
	"github.com/MirrorChyan/dxvk-manager/internal/model/types"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/sortorder"
	"github.com/MirrorChyan/dxvk-manager/internal/resolver"
	"golang.org/x/sync/errgroup"
)

func (m *Manager) ResolveRequirements(descriptor string, bitness model.Bitness) resolver.Requirement {
	return resolver.Resolve(descriptor, bitness)
}

// ListCatalog never fails on upstream errors; an empty list means the index
// could not be read.
func (m *Manager) ListCatalog(ctx context.Context, channelID string, order sortorder.Order) ([]model.Release, error) {
	ch, err := m.channels.Get(channelID)
	if err != nil {
		return nil, err
	}
	return sortorder.Arrange(order, m.catalog.List(ctx, ch)), nil
}

// ListAllCatalogs queries every channel concurrently.
func (m *Manager) ListAllCatalogs(ctx context.Context) map[types.Channel][]model.Release {
	var (
		mu  sync.Mutex
		out = make(map[types.Channel][]model.Release)
		g   errgroup.Group
	)
	for _, ch := range m.channels.All() {
		g.Go(func() error {
			releases := m.catalog.List(ctx, ch)
			mu.Lock()
			out[ch.ID] = releases
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

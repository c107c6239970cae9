//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/MirrorChyan/dxvk-manager/internal/config"
	"github.com/MirrorChyan/dxvk-manager/internal/provider"
	"github.com/google/wire"
	"go.uber.org/zap"
)

func NewComponents(
	conf *config.Config,
	logger *zap.Logger,
) *Components {
	panic(wire.Build(
		provider.InfraSet,
		provider.LogicSet,
		provider.HandlerSet,
		wire.Struct(new(Components), "*"),
	))
}

package provider

import (
	"github.com/MirrorChyan/dxvk-manager/internal/config"
	"github.com/MirrorChyan/dxvk-manager/internal/logic"
	"github.com/google/wire"
)

var LogicSet = wire.NewSet(
	logic.Provider,
	NewLibraryPath,
)

func NewLibraryPath(conf *config.Config) logic.LibraryPath {
	return logic.LibraryPath(conf.Library.SteamApps)
}

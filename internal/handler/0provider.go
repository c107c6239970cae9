package handler

import "github.com/google/wire"

var Provider = wire.NewSet(
	NewSystemHandler,
	NewRequirementsHandler,
	NewChannelHandler,
	NewTargetHandler,
)

package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/whence/internal/core/ports"
)

// NodeID is the unique identifier for the repository locator Graft node.
const NodeID graft.ID = "adapter.fs.locator"

func init() {
	graft.Register(graft.Node[ports.RepositoryLocator]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.RepositoryLocator, error) {
			return NewLocator(), nil
		},
	})
}

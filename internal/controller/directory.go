package controller

import (
	"context"

	"github.com/specialistvlad/extractgrid/internal/ctxlog"
	"github.com/specialistvlad/extractgrid/internal/procgroup"
)

// CreateDirectory makes sure path exists. In a process group only the
// coordinator touches the filesystem; its result is broadcast and every
// member returns the broadcast value, never its own view of the filesystem.
// Every member of the group must call it. An empty path yields false.
func (c *Controller) CreateDirectory(ctx context.Context, path string) bool {
	if path == "" {
		return false
	}
	if c.group == nil {
		return c.makeDirectory(ctx, path)
	}

	status := 0
	if c.group.LocalRank() == procgroup.Coordinator && c.makeDirectory(ctx, path) {
		status = 1
	}
	if err := c.group.Broadcast(ctx, &status, procgroup.Coordinator); err != nil {
		ctxlog.FromContext(ctx).Error("Directory creation result could not be shared.", "path", path, "error", err)
		return false
	}
	return status == 1
}

func (c *Controller) makeDirectory(ctx context.Context, path string) bool {
	if err := c.mkdir(path); err != nil {
		ctxlog.FromContext(ctx).Warn("Directory creation failed.", "path", path, "error", err)
		return false
	}
	return true
}

// CreateDataExtractsOutputDirectory creates the configured data extracts
// directory. It returns false if none is configured.
func (c *Controller) CreateDataExtractsOutputDirectory(ctx context.Context) bool {
	return c.CreateDirectory(ctx, c.DataExtractsOutputDirectory())
}

// CreateImageExtractsOutputDirectory creates the configured image extracts
// directory. It returns false if none is configured.
func (c *Controller) CreateImageExtractsOutputDirectory(ctx context.Context) bool {
	return c.CreateDirectory(ctx, c.ImageExtractsOutputDirectory())
}

package controller

import (
	"context"

	"github.com/specialistvlad/extractgrid/internal/ctxlog"
	"github.com/specialistvlad/extractgrid/internal/extract"
	"github.com/specialistvlad/extractgrid/internal/node"
	"github.com/specialistvlad/extractgrid/internal/session"
)

// Extract runs every generator of the active session and reports whether any
// of them wrote something.
func (c *Controller) Extract(ctx context.Context) bool {
	s, ok := c.sessions.Active()
	if !ok {
		ctxlog.FromContext(ctx).Error("No active session.")
		return false
	}
	return c.ExtractSession(ctx, s)
}

// ExtractSession runs every generator registered in s. All generators are
// attempted even after one has written.
func (c *Controller) ExtractSession(ctx context.Context, s session.Session) bool {
	if s == nil {
		ctxlog.FromContext(ctx).Error("Invalid session: nil.")
		return false
	}
	status := false
	for _, g := range s.Group(ctx, extract.GeneratorsGroup) {
		status = c.ExtractGenerator(ctx, g) || status
	}
	return status
}

// ExtractCollection runs the generators among items. Anything that is not a
// generator node is skipped.
func (c *Controller) ExtractCollection(ctx context.Context, items []any) bool {
	status := false
	for _, item := range items {
		if g, ok := asGenerator(item); ok {
			status = c.ExtractGenerator(ctx, g) || status
		}
	}
	return status
}

// ExtractGenerator runs a single generator: if its trigger is activated, its
// writer is asked to write. The writer's report is returned as is.
func (c *Controller) ExtractGenerator(ctx context.Context, g *node.Node) bool {
	if !c.IsTriggerActivated(ctx, g) {
		return false
	}
	w, ok := writerOf(g)
	if !ok {
		return false
	}
	return w.Write(ctx, c)
}

// IsAnyTriggerActivated reports whether any generator of the active session
// would fire now. No writer is invoked.
func (c *Controller) IsAnyTriggerActivated(ctx context.Context) bool {
	s, ok := c.sessions.Active()
	if !ok {
		ctxlog.FromContext(ctx).Error("No active session.")
		return false
	}
	return c.IsAnyTriggerActivatedInSession(ctx, s)
}

// IsAnyTriggerActivatedInSession reports whether any generator registered in
// s would fire now.
func (c *Controller) IsAnyTriggerActivatedInSession(ctx context.Context, s session.Session) bool {
	if s == nil {
		ctxlog.FromContext(ctx).Error("Invalid session: nil.")
		return false
	}
	for _, g := range s.Group(ctx, extract.GeneratorsGroup) {
		if c.IsTriggerActivated(ctx, g) {
			return true
		}
	}
	return false
}

// IsAnyTriggerActivatedInCollection reports whether any generator among items
// would fire now.
func (c *Controller) IsAnyTriggerActivatedInCollection(ctx context.Context, items []any) bool {
	for _, item := range items {
		if g, ok := asGenerator(item); ok && c.IsTriggerActivated(ctx, g) {
			return true
		}
	}
	return false
}

func asGenerator(item any) (*node.Node, bool) {
	g, ok := item.(*node.Node)
	if !ok || g == nil || g.TypeName != extract.GeneratorType {
		return nil, false
	}
	return g, true
}

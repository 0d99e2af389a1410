package controller

import (
	"context"

	"github.com/specialistvlad/extractgrid/internal/ctxlog"
	"github.com/specialistvlad/extractgrid/internal/extract"
	"github.com/specialistvlad/extractgrid/internal/node"
)

// IsTriggerActivated reports whether generator g should fire now. A disabled
// generator never fires and its trigger is not consulted; a generator without
// a trigger fires on every invocation.
func (c *Controller) IsTriggerActivated(ctx context.Context, g *node.Node) bool {
	if g == nil {
		ctxlog.FromContext(ctx).Error("Invalid extract generator: nil.")
		return false
	}
	if !g.Bool(extract.AttrEnabled) {
		return false
	}

	ref := g.Ref(extract.AttrTrigger)
	if ref == nil {
		return true
	}
	trigger, ok := node.As[extract.Trigger](ref)
	if !ok {
		// Treated like an unbound trigger.
		ctxlog.FromContext(ctx).Warn("Generator trigger is not an extract trigger.", "generator", g.ID(), "trigger", ref.ID())
		return true
	}
	return trigger.IsActivated(c)
}

// Package controller coordinates triggered extracts: it decides, once per
// invocation, which generators fire and hands them to their writers, finds and
// creates generators for producers, and provisions output directories
// consistently across a process group.
package controller

import (
	"sync"

	"github.com/specialistvlad/extractgrid/internal/extract"
	"github.com/specialistvlad/extractgrid/internal/fsutil"
	"github.com/specialistvlad/extractgrid/internal/node"
	"github.com/specialistvlad/extractgrid/internal/procgroup"
	"github.com/specialistvlad/extractgrid/internal/session"
	"github.com/specialistvlad/extractgrid/internal/tracing"
)

// Options holds the collaborators of a Controller. Every field is optional.
type Options struct {
	// Group coordinates directory creation. Nil means single-process mode.
	Group procgroup.Group
	// Recorder receives trace events. Defaults to tracing.Nop.
	Recorder tracing.Recorder
	// Sessions resolves the active session. Defaults to session.Default.
	Sessions *session.Holder
	// MakeDirectory creates a directory and its parents. Defaults to
	// fsutil.MakeDirectory.
	MakeDirectory func(path string) error
}

// Controller is the extracts controller of one process. It is also the
// extract.Context triggers and writers receive.
type Controller struct {
	group    procgroup.Group
	recorder tracing.Recorder
	sessions *session.Holder
	mkdir    func(path string) error

	mu       sync.RWMutex
	time     float64
	timeStep int
	dataDir  string
	imageDir string
}

var _ extract.Context = (*Controller)(nil)

// New creates a Controller.
func New(opts Options) *Controller {
	c := &Controller{
		group:    opts.Group,
		recorder: opts.Recorder,
		sessions: opts.Sessions,
		mkdir:    opts.MakeDirectory,
	}
	if c.recorder == nil {
		c.recorder = tracing.Nop{}
	}
	if c.sessions == nil {
		c.sessions = session.Default
	}
	if c.mkdir == nil {
		c.mkdir = fsutil.MakeDirectory
	}
	return c
}

// Time returns the current simulation time.
func (c *Controller) Time() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.time
}

// SetTime sets the current simulation time.
func (c *Controller) SetTime(t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.time = t
}

// TimeStep returns the current time step.
func (c *Controller) TimeStep() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.timeStep
}

// SetTimeStep sets the current time step.
func (c *Controller) SetTimeStep(step int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeStep = step
}

// DataExtractsOutputDirectory returns the directory data extracts are written to.
func (c *Controller) DataExtractsOutputDirectory() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dataDir
}

// SetDataExtractsOutputDirectory sets the directory data extracts are written to.
func (c *Controller) SetDataExtractsOutputDirectory(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dataDir = dir
}

// ImageExtractsOutputDirectory returns the directory image extracts are written to.
func (c *Controller) ImageExtractsOutputDirectory() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.imageDir
}

// SetImageExtractsOutputDirectory sets the directory image extracts are written to.
func (c *Controller) SetImageExtractsOutputDirectory(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.imageDir = dir
}

// writerOf resolves the writer bound to a generator.
func writerOf(g *node.Node) (extract.Writer, bool) {
	return node.As[extract.Writer](g.Ref(extract.AttrWriter))
}

package app

import (
	"github.com/specialistvlad/extractgrid/internal/extract"
	"github.com/specialistvlad/extractgrid/internal/registry"
	"github.com/specialistvlad/extractgrid/modules/env_vars"
	"github.com/specialistvlad/extractgrid/modules/print"
	"github.com/specialistvlad/extractgrid/modules/source"
	"github.com/specialistvlad/extractgrid/modules/timestep"
)

// coreModules is the definitive list of all modules that are compiled into
// the extractgrid binary.
var coreModules = []registry.Module{
	extract.Module{},
	&source.Module{},
	&timestep.Module{},
	&env_vars.Module{},
	&print.Module{},
}

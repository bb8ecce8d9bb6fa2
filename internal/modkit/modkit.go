package modkit

import "wdlabels/internal/modkit/module"

// Builder constructs a Module from shared deps and options
// modules typically expose New(deps Deps, opts ...Option) and may delegate to this pattern
type Builder func(Deps, ...Option) (module.Module, error)

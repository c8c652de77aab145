package loaders

import (
	"github.com/docqa/docqa/internal/core/domain"
	"github.com/docqa/docqa/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.LoaderRegistry = (*Registry)(nil)

// Registry maps source types to their loaders.
type Registry struct {
	loaders map[domain.SourceType]driven.Loader
}

// NewRegistry creates an empty loader registry.
func NewRegistry() *Registry {
	return &Registry{
		loaders: make(map[domain.SourceType]driven.Loader),
	}
}

// Register adds a loader for its source type, replacing any previous
// registration for that type.
func (r *Registry) Register(loader driven.Loader) {
	r.loaders[loader.SourceType()] = loader
}

// ForFile returns the loader for the file's extension.
// Returns domain.ErrUnsupportedType for unknown extensions and for
// known extensions with no registered loader.
func (r *Registry) ForFile(path string) (driven.Loader, error) {
	st, err := domain.SourceTypeFromPath(path)
	if err != nil {
		return nil, err
	}

	loader, ok := r.loaders[st]
	if !ok {
		return nil, domain.ErrUnsupportedType
	}
	return loader, nil
}

// SourceTypes returns the source types with a registered loader.
func (r *Registry) SourceTypes() []domain.SourceType {
	types := make([]domain.SourceType, 0, len(r.loaders))
	for st := range r.loaders {
		types = append(types, st)
	}
	return types
}

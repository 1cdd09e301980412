package parsers

import (
	"fmt"

	"github.com/bwilly/SuperSliceETL/internal/config"
	"github.com/bwilly/SuperSliceETL/internal/platform"
)

// UnsupportedKindError reports a (platform, kind) pair without a parser.
type UnsupportedKindError struct {
	Platform platform.Platform
	Kind     platform.Kind
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("no parser for %s %s files", e.Platform, e.Kind)
}

// Factory builds parsers from per-platform configuration.
type Factory struct {
	platforms map[string]config.PlatformConfig
}

// NewFactory returns a factory over the configured platform settings.
// Platforms missing from the map use built-in defaults.
func NewFactory(platforms map[string]config.PlatformConfig) *Factory {
	return &Factory{platforms: platforms}
}

// For returns the parser for a classified file.
func (f *Factory) For(p platform.Platform, k platform.Kind) (Parser, error) {
	if k != platform.Trax {
		return nil, &UnsupportedKindError{Platform: p, Kind: k}
	}

	pc := f.platforms[p.String()]

	switch p {
	case platform.Slice:
		return newSliceParser(pc)
	case platform.Square:
		return newSquareParser(pc)
	case platform.Uber:
		return newUberParser(pc)
	}
	return nil, &UnsupportedKindError{Platform: p, Kind: k}
}

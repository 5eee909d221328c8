//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/forgepreview/internal/domain/repositories"
)

// SpyOutputRepository records every announced pair.
type SpyOutputRepository struct {
	Announced   map[string]string
	AnnounceErr error
}

var _ repositories.OutputRepository = (*SpyOutputRepository)(nil)

func (s *SpyOutputRepository) Announce(key, value string) error {
	if s.Announced == nil {
		s.Announced = make(map[string]string)
	}
	s.Announced[key] = value
	return s.AnnounceErr
}

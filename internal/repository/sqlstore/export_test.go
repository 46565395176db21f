package sqlstore

import (
	"time"

	"github.com/resource-store/internal/domain/repository"
)

// SetClock overrides the commit clock of a repository built by
// NewResourceRepository.
func SetClock(repo repository.ResourceRepository, now func() time.Time) {
	repo.(*resourceRepository).now = now
}

// BackfillSearchText exposes the search_text migration step.
var BackfillSearchText = backfillSearchText

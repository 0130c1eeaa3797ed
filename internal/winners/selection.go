package winners

import (
	"slices"

	models "github.com/nivschuman/ElectionLifecycle/internal/models"
)

// compareStanding orders candidates by vote count descending. Equal counts go to the
// candidate registered first, then to the lowest id, so the order is total.
func compareStanding(a *models.Candidate, b *models.Candidate) int {
	if a.VoteCount != b.VoteCount {
		if a.VoteCount > b.VoteCount {
			return -1
		}
		return 1
	}

	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Compare(b.CreatedAt)
	}

	switch {
	case a.Id < b.Id:
		return -1
	case a.Id > b.Id:
		return 1
	default:
		return 0
	}
}

// SelectWinner returns the leading candidate, or nil when there are none.
func SelectWinner(candidates []*models.Candidate) *models.Candidate {
	if len(candidates) == 0 {
		return nil
	}
	return slices.MinFunc(candidates, compareStanding)
}

// Standings returns a copy of candidates in result order.
func Standings(candidates []*models.Candidate) []*models.Candidate {
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, compareStanding)
	return sorted
}

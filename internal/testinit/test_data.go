package test_init

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	models "github.com/nivschuman/ElectionLifecycle/internal/models"
)

// CandidateData returns valid input whose contacts are unique per n.
func CandidateData(n int) models.CandidateData {
	return models.CandidateData{
		Name:           fmt.Sprintf("Candidate %d", n),
		Email:          fmt.Sprintf("candidate%d@example.org", n),
		PhoneNumber:    fmt.Sprintf("+1 555 010 %04d", n),
		WhatsAppNumber: fmt.Sprintf("+44 7700 90%04d", n),
		Age:            30 + n%50,
		Gender:         "other",
	}
}

func (env *TestEnv) CreateElection(t testing.TB, name string) *models.Election {
	t.Helper()

	election := &models.Election{
		Id:     uuid.NewString(),
		Name:   name,
		Status: models.StatusScheduled,
	}
	require.NoError(t, env.Repos.Elections.InsertElection(election))
	return election
}

func (env *TestEnv) CreatePosition(t testing.TB, electionId string, name string) *models.Position {
	t.Helper()

	position := &models.Position{
		Id:         uuid.NewString(),
		ElectionId: electionId,
		Name:       name,
	}
	require.NoError(t, env.Repos.Positions.InsertPosition(position))
	return position
}

func (env *TestEnv) CreateCandidate(t testing.TB, electionId string, positionId string, n int, votes int) *models.Candidate {
	t.Helper()

	data := CandidateData(n)
	candidate := &models.Candidate{
		Id:             uuid.NewString(),
		PositionId:     positionId,
		Name:           data.Name,
		Email:          data.Email,
		PhoneNumber:    data.PhoneNumber,
		WhatsAppNumber: data.WhatsAppNumber,
		Age:            data.Age,
		Gender:         data.Gender,
	}
	require.NoError(t, env.Repos.Candidates.InsertCandidate(candidate, electionId))
	require.NoError(t, env.Repos.Candidates.SetVoteCount(candidate.Id, votes))
	candidate.VoteCount = votes
	return candidate
}

// Schedule writes a schedule straight into the store, bypassing the lifecycle checks.
func (env *TestEnv) Schedule(t testing.TB, electionId string, start time.Time, end time.Time) {
	t.Helper()
	require.NoError(t, env.Repos.Elections.UpdateSchedule(electionId, start, end, models.StatusScheduled))
}

func (env *TestEnv) ReloadElection(t testing.TB, id string) *models.Election {
	t.Helper()

	election, err := env.Repos.Elections.GetElection(id)
	require.NoError(t, err)
	return election
}

func (env *TestEnv) ReloadPosition(t testing.TB, id string) *models.Position {
	t.Helper()

	position, err := env.Repos.Positions.GetPosition(id)
	require.NoError(t, err)
	return position
}

package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	models "github.com/nivschuman/ElectionLifecycle/internal/models"
	inits "github.com/nivschuman/ElectionLifecycle/internal/testinit"
)

func newTestStore(t *testing.T) (*Store, *inits.TestEnv) {
	env := inits.NewTestEnv(t)
	return NewStore(env.Repos, env.Clock, env.Locks), env
}

func requireField(t *testing.T, err error, field string) {
	t.Helper()

	var modelErr *models.Error
	require.True(t, errors.As(err, &modelErr), "expected a structured error, got %v", err)
	require.Equal(t, field, modelErr.Field)
}

func TestAddPosition(t *testing.T) {
	store, env := newTestStore(t)
	election := env.CreateElection(t, "Q1 Vote")

	position, err := store.AddPosition(election.Id, " President ")
	require.NoError(t, err)
	require.Equal(t, "President", position.Name)
	require.Equal(t, election.Id, position.ElectionId)

	positions, err := store.ListPositions(election.Id)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	require.Equal(t, position.Id, positions[0].Id)
}

func TestAddPositionDuplicateIsCaseInsensitive(t *testing.T) {
	store, env := newTestStore(t)
	election := env.CreateElection(t, "Q1 Vote")
	other := env.CreateElection(t, "Other Vote")

	first, err := store.AddPosition(election.Id, "President")
	require.NoError(t, err)

	_, err = store.AddPosition(election.Id, "PRESIDENT")
	require.ErrorIs(t, err, models.ErrDuplicatePosition)

	var modelErr *models.Error
	require.True(t, errors.As(err, &modelErr))
	require.Equal(t, []string{first.Id}, modelErr.EntityIds)

	_, err = store.AddPosition(other.Id, "president")
	require.NoError(t, err, "the same name in another election is allowed")
}

func TestAddPositionValidation(t *testing.T) {
	store, env := newTestStore(t)
	election := env.CreateElection(t, "Q1 Vote")

	_, err := store.AddPosition(election.Id, "")
	require.ErrorIs(t, err, models.ErrValidation)

	_, err = store.AddPosition("missing", "President")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestAddPositionBlockedWhileActive(t *testing.T) {
	store, env := newTestStore(t)
	election := env.CreateElection(t, "Q1 Vote")
	env.Schedule(t, election.Id, env.Clock.Now().Add(-time.Minute), env.Clock.Now().Add(time.Hour))

	_, err := store.AddPosition(election.Id, "President")
	require.ErrorIs(t, err, models.ErrInvalidState)
}

func TestDeleteLastPositionFails(t *testing.T) {
	store, env := newTestStore(t)
	election := env.CreateElection(t, "Q1 Vote")
	position := env.CreatePosition(t, election.Id, "President")

	err := store.DeletePosition(election.Id, position.Id)
	require.ErrorIs(t, err, models.ErrInvariantViolation)

	positions, err := store.ListPositions(election.Id)
	require.NoError(t, err)
	require.Len(t, positions, 1)
}

func TestDeletePosition(t *testing.T) {
	store, env := newTestStore(t)
	election := env.CreateElection(t, "Q1 Vote")
	president := env.CreatePosition(t, election.Id, "President")
	secretary := env.CreatePosition(t, election.Id, "Secretary")
	env.CreateCandidate(t, election.Id, secretary.Id, 1, 0)

	require.NoError(t, store.DeletePosition(election.Id, secretary.Id))

	positions, err := store.ListPositions(election.Id)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	require.Equal(t, president.Id, positions[0].Id)

	candidates, err := env.Repos.Candidates.GetElectionCandidates(election.Id)
	require.NoError(t, err)
	require.Empty(t, candidates)
}

func TestDeletePositionOfOtherElection(t *testing.T) {
	store, env := newTestStore(t)
	election := env.CreateElection(t, "Q1 Vote")
	other := env.CreateElection(t, "Other Vote")
	env.CreatePosition(t, election.Id, "President")
	env.CreatePosition(t, other.Id, "President")
	foreign := env.CreatePosition(t, other.Id, "Treasurer")

	require.ErrorIs(t, store.DeletePosition(election.Id, foreign.Id), models.ErrNotFound)
}

func TestDeletePositionWithWinnerFails(t *testing.T) {
	store, env := newTestStore(t)
	election := env.CreateElection(t, "Q1 Vote")
	president := env.CreatePosition(t, election.Id, "President")
	env.CreatePosition(t, election.Id, "Secretary")
	winner := env.CreateCandidate(t, election.Id, president.Id, 1, 10)
	require.NoError(t, env.Repos.Candidates.MarkWinner(winner.Id))

	err := store.DeletePosition(election.Id, president.Id)
	require.ErrorIs(t, err, models.ErrInvariantViolation)
}

func TestAddCandidate(t *testing.T) {
	store, env := newTestStore(t)
	election := env.CreateElection(t, "Q1 Vote")
	position := env.CreatePosition(t, election.Id, "President")

	candidate, err := store.AddCandidate(position.Id, inits.CandidateData(1))
	require.NoError(t, err)
	require.Equal(t, position.Id, candidate.PositionId)
	require.Equal(t, 0, candidate.VoteCount)
	require.False(t, candidate.IsWinner)

	reloaded := env.ReloadPosition(t, position.Id)
	require.Len(t, reloaded.Candidates, 1)
	require.Equal(t, "candidate1@example.org", reloaded.Candidates[0].Email)
}

func TestAddCandidateValidation(t *testing.T) {
	store, env := newTestStore(t)
	election := env.CreateElection(t, "Q1 Vote")
	position := env.CreatePosition(t, election.Id, "President")

	tests := []struct {
		name  string
		edit  func(data *models.CandidateData)
		field string
	}{
		{"missing name", func(data *models.CandidateData) { data.Name = " " }, "name"},
		{"bad email", func(data *models.CandidateData) { data.Email = "not-an-email" }, "email"},
		{"short phone", func(data *models.CandidateData) { data.PhoneNumber = "12-34" }, "phone_number"},
		{"short whatsapp", func(data *models.CandidateData) { data.WhatsAppNumber = "123" }, "whatsapp_number"},
		{"too young", func(data *models.CandidateData) { data.Age = 12 }, "age"},
		{"unknown gender", func(data *models.CandidateData) { data.Gender = "robot" }, "gender"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			data := inits.CandidateData(1)
			test.edit(&data)

			_, err := store.AddCandidate(position.Id, data)
			require.ErrorIs(t, err, models.ErrValidation)
			requireField(t, err, test.field)
		})
	}
}

func TestAddCandidateContactUniquenessIsElectionScoped(t *testing.T) {
	store, env := newTestStore(t)
	election := env.CreateElection(t, "Q1 Vote")
	president := env.CreatePosition(t, election.Id, "President")
	secretary := env.CreatePosition(t, election.Id, "Secretary")

	existing, err := store.AddCandidate(president.Id, inits.CandidateData(1))
	require.NoError(t, err)

	t.Run("email in another position", func(t *testing.T) {
		data := inits.CandidateData(2)
		data.Email = "  CANDIDATE1@example.org "

		_, err := store.AddCandidate(secretary.Id, data)
		require.ErrorIs(t, err, models.ErrDuplicateContact)
		requireField(t, err, "email")

		var modelErr *models.Error
		require.True(t, errors.As(err, &modelErr))
		require.Equal(t, []string{existing.Id}, modelErr.EntityIds)
	})

	t.Run("phone with different formatting", func(t *testing.T) {
		data := inits.CandidateData(3)
		data.PhoneNumber = "1-555-010-0001"

		_, err := store.AddCandidate(secretary.Id, data)
		require.ErrorIs(t, err, models.ErrDuplicateContact)
		requireField(t, err, "phone_number")
	})

	t.Run("whatsapp", func(t *testing.T) {
		data := inits.CandidateData(4)
		data.WhatsAppNumber = inits.CandidateData(1).WhatsAppNumber

		_, err := store.AddCandidate(president.Id, data)
		require.ErrorIs(t, err, models.ErrDuplicateContact)
		requireField(t, err, "whatsapp_number")
	})

	t.Run("email is reported before phone", func(t *testing.T) {
		_, err := store.AddCandidate(secretary.Id, inits.CandidateData(1))
		requireField(t, err, "email")
	})

	t.Run("same contacts in another election", func(t *testing.T) {
		other := env.CreateElection(t, "Other Vote")
		otherPosition := env.CreatePosition(t, other.Id, "President")

		_, err := store.AddCandidate(otherPosition.Id, inits.CandidateData(1))
		require.NoError(t, err)
	})

	candidates, err := env.Repos.Candidates.GetElectionCandidates(election.Id)
	require.NoError(t, err)
	require.Len(t, candidates, 1, "rejected candidates must not be created")
}

func TestAddCandidateWithoutWhatsApp(t *testing.T) {
	store, env := newTestStore(t)
	election := env.CreateElection(t, "Q1 Vote")
	position := env.CreatePosition(t, election.Id, "President")

	first := inits.CandidateData(1)
	first.WhatsAppNumber = ""
	second := inits.CandidateData(2)
	second.WhatsAppNumber = ""

	_, err := store.AddCandidate(position.Id, first)
	require.NoError(t, err)
	_, err = store.AddCandidate(position.Id, second)
	require.NoError(t, err, "empty whatsapp numbers never collide")
}

func TestAddCandidateStateRules(t *testing.T) {
	store, env := newTestStore(t)
	election := env.CreateElection(t, "Q1 Vote")
	position := env.CreatePosition(t, election.Id, "President")

	t.Run("position with winner", func(t *testing.T) {
		winner := env.CreateCandidate(t, election.Id, position.Id, 1, 3)
		require.NoError(t, env.Repos.Candidates.MarkWinner(winner.Id))

		_, err := store.AddCandidate(position.Id, inits.CandidateData(2))
		require.ErrorIs(t, err, models.ErrInvariantViolation)
	})

	t.Run("active election", func(t *testing.T) {
		open := env.CreatePosition(t, election.Id, "Secretary")
		env.Schedule(t, election.Id, env.Clock.Now().Add(-time.Minute), env.Clock.Now().Add(time.Hour))

		_, err := store.AddCandidate(open.Id, inits.CandidateData(3))
		require.ErrorIs(t, err, models.ErrInvalidState)
	})

	t.Run("missing position", func(t *testing.T) {
		_, err := store.AddCandidate("missing", inits.CandidateData(4))
		require.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestUpdateCandidate(t *testing.T) {
	store, env := newTestStore(t)
	election := env.CreateElection(t, "Q1 Vote")
	position := env.CreatePosition(t, election.Id, "President")

	alice, err := store.AddCandidate(position.Id, inits.CandidateData(1))
	require.NoError(t, err)
	_, err = store.AddCandidate(position.Id, inits.CandidateData(2))
	require.NoError(t, err)

	data := inits.CandidateData(1)
	data.Name = "Alice"
	updated, err := store.UpdateCandidate(alice.Id, data)
	require.NoError(t, err, "a candidate keeps its own contacts")
	require.Equal(t, "Alice", updated.Name)

	data.Email = inits.CandidateData(2).Email
	_, err = store.UpdateCandidate(alice.Id, data)
	require.ErrorIs(t, err, models.ErrDuplicateContact)

	reloaded, err := store.GetCandidate(alice.Id)
	require.NoError(t, err)
	require.Equal(t, "candidate1@example.org", reloaded.Email)
}

func TestDeleteCandidate(t *testing.T) {
	store, env := newTestStore(t)
	election := env.CreateElection(t, "Q1 Vote")
	position := env.CreatePosition(t, election.Id, "President")
	candidate := env.CreateCandidate(t, election.Id, position.Id, 1, 0)

	require.NoError(t, store.DeleteCandidate(candidate.Id))
	require.ErrorIs(t, store.DeleteCandidate(candidate.Id), models.ErrNotFound)
}

func TestDeleteCandidateOfDecidedPositionFails(t *testing.T) {
	store, env := newTestStore(t)
	election := env.CreateElection(t, "Q1 Vote")
	position := env.CreatePosition(t, election.Id, "President")
	winner := env.CreateCandidate(t, election.Id, position.Id, 1, 10)
	loser := env.CreateCandidate(t, election.Id, position.Id, 2, 7)
	require.NoError(t, env.Repos.Candidates.MarkWinner(winner.Id))

	require.ErrorIs(t, store.DeleteCandidate(loser.Id), models.ErrInvariantViolation)
	require.Len(t, env.ReloadPosition(t, position.Id).Candidates, 2)
}

func TestListPositionsNotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.ListPositions("missing")
	require.ErrorIs(t, err, models.ErrNotFound)
}

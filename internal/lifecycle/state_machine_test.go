package lifecycle

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nivschuman/ElectionLifecycle/internal/events"
	models "github.com/nivschuman/ElectionLifecycle/internal/models"
	inits "github.com/nivschuman/ElectionLifecycle/internal/testinit"
)

const testThreshold = time.Second

func newTestMachine(t *testing.T) (*StateMachine, *inits.TestEnv) {
	env := inits.NewTestEnv(t)
	return NewStateMachine(env.Repos, env.Clock, env.Locks, env.Recorder, testThreshold), env
}

// readyElection has one position with two candidates holding 10 and 7 votes.
func readyElection(t *testing.T, env *inits.TestEnv) (*models.Election, *models.Position) {
	election := env.CreateElection(t, "Q1 Vote")
	position := env.CreatePosition(t, election.Id, "President")
	env.CreateCandidate(t, election.Id, position.Id, 1, 10)
	env.CreateCandidate(t, election.Id, position.Id, 2, 7)
	return election, position
}

func at(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func startIn(t *testing.T, machine *StateMachine, env *inits.TestEnv, electionId string, start time.Duration, end time.Duration) *models.Election {
	now := env.Clock.Now()
	election, err := machine.Start(electionId, at(now.Add(start)), at(now.Add(end)))
	require.NoError(t, err)
	return election
}

func TestStartPersistsSchedule(t *testing.T) {
	machine, env := newTestMachine(t)
	election, _ := readyElection(t, env)
	now := env.Clock.Now()

	scheduled, err := machine.Start(election.Id, at(now.Add(time.Minute)), at(now.Add(2*time.Minute)))
	require.NoError(t, err)
	require.Equal(t, models.StatusScheduled, scheduled.Status)
	require.True(t, now.Add(time.Minute).Equal(*scheduled.StartTime))
	require.True(t, now.Add(2*time.Minute).Equal(*scheduled.EndTime))

	reloaded := env.ReloadElection(t, election.Id)
	require.True(t, reloaded.StartTime.Equal(*scheduled.StartTime))
	require.True(t, reloaded.EndTime.Equal(*scheduled.EndTime))

	require.Len(t, env.Recorder.OfKind(events.ElectionScheduled), 1)
}

func TestStartRequiresTwoCandidatesPerPosition(t *testing.T) {
	machine, env := newTestMachine(t)
	election := env.CreateElection(t, "Q1 Vote")
	president := env.CreatePosition(t, election.Id, "President")
	env.CreateCandidate(t, election.Id, president.Id, 1, 0)
	now := env.Clock.Now()

	_, err := machine.Start(election.Id, at(now.Add(time.Minute)), at(now.Add(2*time.Minute)))
	require.ErrorIs(t, err, models.ErrInsufficientCandidates)
	require.Contains(t, err.Error(), "President")

	var modelErr *models.Error
	require.ErrorAs(t, err, &modelErr)
	require.Equal(t, []string{president.Id}, modelErr.EntityIds)

	reloaded := env.ReloadElection(t, election.Id)
	require.Nil(t, reloaded.StartTime)
	require.Nil(t, reloaded.EndTime)
	require.Empty(t, env.Recorder.Events())

	env.CreateCandidate(t, election.Id, president.Id, 2, 0)
	_, err = machine.Start(election.Id, at(now.Add(time.Minute)), at(now.Add(2*time.Minute)))
	require.NoError(t, err)
}

func TestStartNamesEveryShortPosition(t *testing.T) {
	machine, env := newTestMachine(t)
	election, _ := readyElection(t, env)
	secretary := env.CreatePosition(t, election.Id, "Secretary")
	treasurer := env.CreatePosition(t, election.Id, "Treasurer")
	env.CreateCandidate(t, election.Id, treasurer.Id, 3, 0)
	now := env.Clock.Now()

	_, err := machine.Start(election.Id, at(now.Add(time.Minute)), at(now.Add(2*time.Minute)))

	var modelErr *models.Error
	require.ErrorAs(t, err, &modelErr)
	require.Equal(t, models.KindInsufficientCandidates, modelErr.Kind)
	require.ElementsMatch(t, []string{secretary.Id, treasurer.Id}, modelErr.EntityIds)
	require.True(t, strings.Contains(modelErr.Message, "Secretary") && strings.Contains(modelErr.Message, "Treasurer"))
}

func TestStartWithoutPositions(t *testing.T) {
	machine, env := newTestMachine(t)
	election := env.CreateElection(t, "Q1 Vote")

	_, err := machine.Start(election.Id, "not a date", "")
	require.ErrorIs(t, err, models.ErrInsufficientCandidates, "adequacy is checked before the times")
	require.Contains(t, err.Error(), "create at least one position first")
}

func TestStartTimeValidation(t *testing.T) {
	machine, env := newTestMachine(t)
	election, _ := readyElection(t, env)
	now := env.Clock.Now()

	tests := []struct {
		name  string
		start string
		end   string
		field string
	}{
		{"missing start", "", at(now.Add(time.Minute)), "start_time"},
		{"missing end", at(now.Add(time.Minute)), "", "end_time"},
		{"bad start", "soon", at(now.Add(time.Minute)), "start_time"},
		{"end equals start", at(now.Add(time.Minute)), at(now.Add(time.Minute)), "end_time"},
		{"end before start", at(now.Add(time.Hour)), at(now.Add(time.Minute)), "end_time"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := machine.Start(election.Id, test.start, test.end)
			require.ErrorIs(t, err, models.ErrValidation)

			var modelErr *models.Error
			require.ErrorAs(t, err, &modelErr)
			require.Equal(t, test.field, modelErr.Field)
		})
	}

	require.Nil(t, env.ReloadElection(t, election.Id).StartTime)
}

func TestStartStateRules(t *testing.T) {
	machine, env := newTestMachine(t)
	election, _ := readyElection(t, env)

	_, err := machine.Start("missing", "", "")
	require.ErrorIs(t, err, models.ErrNotFound)

	now := env.Clock.Now()
	_, err = machine.Restart(election.Id, at(now.Add(time.Minute)), at(now.Add(time.Hour)))
	require.ErrorIs(t, err, models.ErrInvalidState, "restart needs an ended election")

	startIn(t, machine, env, election.Id, time.Minute, time.Hour)
	startIn(t, machine, env, election.Id, 2*time.Minute, time.Hour)

	env.Clock.Advance(3 * time.Minute)
	_, err = machine.Start(election.Id, at(now.Add(time.Hour)), at(now.Add(2*time.Hour)))
	require.ErrorIs(t, err, models.ErrInvalidState, "an active election cannot be rescheduled")
}

func TestEffectiveStatusFollowsClock(t *testing.T) {
	machine, env := newTestMachine(t)
	election, _ := readyElection(t, env)
	scheduled := startIn(t, machine, env, election.Id, time.Minute, 2*time.Minute)
	t1, t2 := *scheduled.StartTime, *scheduled.EndTime

	checks := []struct {
		now      time.Time
		expected models.ElectionStatus
	}{
		{t1.Add(-time.Second), models.StatusScheduled},
		{t1.Add(-time.Nanosecond), models.StatusScheduled},
		{t1, models.StatusActive},
		{t2.Add(-time.Nanosecond), models.StatusActive},
		{t2, models.StatusEnded},
		{t2.Add(time.Hour), models.StatusEnded},
	}

	for _, check := range checks {
		env.Clock.Set(check.now)

		status, err := machine.GetEffectiveStatus(election.Id)
		require.NoError(t, err)
		require.Equal(t, check.expected, status, "at %s", check.now)
		require.Equal(t, models.StatusScheduled, env.ReloadElection(t, election.Id).Status, "persisted status is untouched by reads")
	}
}

func TestEndActiveElection(t *testing.T) {
	machine, env := newTestMachine(t)
	election, _ := readyElection(t, env)

	_, err := machine.End(election.Id)
	require.ErrorIs(t, err, models.ErrInvalidState, "not scheduled yet")

	startIn(t, machine, env, election.Id, time.Minute, time.Hour)
	_, err = machine.End(election.Id)
	require.ErrorIs(t, err, models.ErrInvalidState, "not active yet")

	env.Clock.Advance(2 * time.Minute)
	ended, err := machine.End(election.Id)
	require.NoError(t, err)
	require.Equal(t, models.StatusEnded, ended.Status)
	require.True(t, env.Clock.Now().Before(*ended.EndTime))

	status, err := machine.GetEffectiveStatus(election.Id)
	require.NoError(t, err)
	require.Equal(t, models.StatusEnded, status)

	_, err = machine.End(election.Id)
	require.ErrorIs(t, err, models.ErrInvalidState, "already ended")

	require.Len(t, env.Recorder.OfKind(events.ElectionEnded), 1)
	require.Empty(t, env.Recorder.OfKind(events.WinnerDeclared), "auto declare is off")
}

func TestEndWithAutoDeclare(t *testing.T) {
	machine, env := newTestMachine(t)
	election, position := readyElection(t, env)
	require.NoError(t, env.Repos.Elections.UpdateAutoDeclare(election.Id, true))
	startIn(t, machine, env, election.Id, -time.Minute, time.Hour)
	env.Recorder.Reset()

	_, err := machine.End(election.Id)
	require.NoError(t, err)

	winner := env.ReloadPosition(t, position.Id).Winner()
	require.NotNil(t, winner)
	require.Equal(t, 10, winner.VoteCount)

	published := env.Recorder.Events()
	require.Len(t, published, 2)
	require.Equal(t, events.ElectionEnded, published[0].Kind)
	require.Equal(t, events.WinnerDeclared, published[1].Kind)
	require.Equal(t, winner.Id, published[1].CandidateId)
}

func TestRestartKeepsWinnersAndReschedules(t *testing.T) {
	machine, env := newTestMachine(t)
	election, position := readyElection(t, env)
	require.NoError(t, env.Repos.Elections.UpdateAutoDeclare(election.Id, true))
	startIn(t, machine, env, election.Id, -time.Minute, time.Minute)
	_, err := machine.End(election.Id)
	require.NoError(t, err)
	winnerId := env.ReloadPosition(t, position.Id).Winner().Id

	restarted := startIn(t, machine, env, election.Id, time.Hour, 2*time.Hour)
	require.Equal(t, models.StatusScheduled, restarted.Status)

	status, err := machine.GetEffectiveStatus(election.Id)
	require.NoError(t, err)
	require.Equal(t, models.StatusScheduled, status)
	require.Equal(t, winnerId, env.ReloadPosition(t, position.Id).Winner().Id)

	now := env.Clock.Now()
	_, err = machine.Restart(election.Id, at(now.Add(time.Hour)), at(now.Add(2*time.Hour)))
	require.ErrorIs(t, err, models.ErrInvalidState)
}

func TestRestartSettlesAnEndTheTickerMissed(t *testing.T) {
	machine, env := newTestMachine(t)
	election, position := readyElection(t, env)
	require.NoError(t, env.Repos.Elections.UpdateAutoDeclare(election.Id, true))
	startIn(t, machine, env, election.Id, time.Minute, 2*time.Minute)
	env.Recorder.Reset()

	env.Clock.Advance(3 * time.Minute)
	require.Equal(t, models.StatusScheduled, env.ReloadElection(t, election.Id).Status)

	now := env.Clock.Now()
	restarted, err := machine.Restart(election.Id, at(now.Add(time.Hour)), at(now.Add(2*time.Hour)))
	require.NoError(t, err)
	require.Equal(t, models.StatusScheduled, restarted.Status)

	winner := env.ReloadPosition(t, position.Id).Winner()
	require.NotNil(t, winner)
	require.Equal(t, 10, winner.VoteCount)

	published := env.Recorder.Events()
	require.Len(t, published, 3)
	require.Equal(t, events.ElectionEnded, published[0].Kind)
	require.Equal(t, events.WinnerDeclared, published[1].Kind)
	require.Equal(t, events.ElectionScheduled, published[2].Kind)

	fired, err := machine.Tick(election.Id)
	require.NoError(t, err)
	require.Empty(t, fired, "the new schedule has not started")
}

func TestRejectedStartStillSettlesTheEnd(t *testing.T) {
	machine, env := newTestMachine(t)
	election, position := readyElection(t, env)
	require.NoError(t, env.Repos.Elections.UpdateAutoDeclare(election.Id, true))
	startIn(t, machine, env, election.Id, -time.Minute, time.Minute)
	env.Recorder.Reset()

	env.Clock.Advance(time.Hour)
	now := env.Clock.Now()
	_, err := machine.Start(election.Id, at(now.Add(2*time.Hour)), at(now.Add(time.Hour)))
	require.ErrorIs(t, err, models.ErrValidation)

	reloaded := env.ReloadElection(t, election.Id)
	require.Equal(t, models.StatusEnded, reloaded.Status)
	require.NotNil(t, env.ReloadPosition(t, position.Id).Winner())
	require.Len(t, env.Recorder.OfKind(events.ElectionEnded), 1)
	require.Empty(t, env.Recorder.OfKind(events.ElectionScheduled))

	fired, err := machine.Tick(election.Id)
	require.NoError(t, err)
	require.Empty(t, fired, "the end boundary already fired")
}

func TestConcurrentEndEndsOnce(t *testing.T) {
	machine, env := newTestMachine(t)
	election, position := readyElection(t, env)
	require.NoError(t, env.Repos.Elections.UpdateAutoDeclare(election.Id, true))
	startIn(t, machine, env, election.Id, -time.Minute, time.Hour)
	env.Recorder.Reset()

	const callers = 16
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = machine.End(election.Id)
		}()
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		require.ErrorIs(t, err, models.ErrInvalidState)
	}
	require.Equal(t, 1, successes)

	winnerCount := 0
	for _, candidate := range env.ReloadPosition(t, position.Id).Candidates {
		if candidate.IsWinner {
			winnerCount++
		}
	}
	require.Equal(t, 1, winnerCount)
	require.Len(t, env.Recorder.OfKind(events.ElectionEnded), 1)
	require.Len(t, env.Recorder.OfKind(events.WinnerDeclared), 1)
}

func TestConcurrentRestartSchedulesOnce(t *testing.T) {
	machine, env := newTestMachine(t)
	election, _ := readyElection(t, env)
	startIn(t, machine, env, election.Id, -time.Minute, time.Hour)
	_, err := machine.End(election.Id)
	require.NoError(t, err)
	env.Recorder.Reset()

	now := env.Clock.Now()
	const callers = 16
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := now.Add(time.Duration(i+1) * time.Minute)
			_, errs[i] = machine.Restart(election.Id, at(start), at(start.Add(time.Hour)))
		}()
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		require.ErrorIs(t, err, models.ErrInvalidState)
	}
	require.Equal(t, 1, successes)

	scheduled := env.Recorder.OfKind(events.ElectionScheduled)
	require.Len(t, scheduled, 1)
	require.Equal(t, models.StatusScheduled, env.ReloadElection(t, election.Id).Status)
}

func TestScheduleIsAtomicOnTransportFailure(t *testing.T) {
	machine, env := newTestMachine(t)
	election, _ := readyElection(t, env)

	var failing atomic.Bool
	err := env.DB.Callback().Delete().Before("gorm:delete").Register("test:fail_markers", func(db *gorm.DB) {
		if failing.Load() && db.Statement.Table == "boundary_markers" {
			db.AddError(errors.New("connection reset by peer"))
		}
	})
	require.NoError(t, err)

	failing.Store(true)
	now := env.Clock.Now()
	_, err = machine.Start(election.Id, at(now.Add(time.Minute)), at(now.Add(time.Hour)))
	require.ErrorIs(t, err, models.ErrTransport)
	require.True(t, models.AsError(err).Retryable())

	reloaded := env.ReloadElection(t, election.Id)
	require.Nil(t, reloaded.StartTime, "the schedule write is rolled back")
	require.Nil(t, reloaded.EndTime)
	require.Empty(t, env.Recorder.Events())

	failing.Store(false)
	_, err = machine.Start(election.Id, at(now.Add(time.Minute)), at(now.Add(time.Hour)))
	require.NoError(t, err)
}

func TestGetTimeLeftAndView(t *testing.T) {
	machine, env := newTestMachine(t)
	election, position := readyElection(t, env)

	timeLeft, err := machine.GetTimeLeft(election.Id)
	require.NoError(t, err)
	require.Equal(t, models.PhaseNone, timeLeft.Phase)

	startIn(t, machine, env, election.Id, time.Hour+2*time.Minute+3*time.Second, 3*time.Hour)

	timeLeft, err = machine.GetTimeLeft(election.Id)
	require.NoError(t, err)
	require.Equal(t, models.PhaseUntilStart, timeLeft.Phase)
	require.Equal(t, "01h 02m 03s", timeLeft.String())

	env.Clock.Advance(2 * time.Hour)
	view, err := machine.GetView(election.Id)
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, view.EffectiveStatus)
	require.Equal(t, models.PhaseUntilEnd, view.TimeLeft.Phase)
	require.Len(t, view.Positions, 1)
	require.Equal(t, position.Id, view.Positions[0].Id)

	views, err := machine.GetViews()
	require.NoError(t, err)
	require.Len(t, views, 1)

	_, err = machine.GetTimeLeft("missing")
	require.ErrorIs(t, err, models.ErrNotFound)
}

package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTally_Add(t *testing.T) {
	// Given: an empty tally
	var tally Tally

	// When: recording two cross wins, a noughts win and a tie
	tally.Add(Cross)
	tally.Add(Cross)
	tally.Add(Noughts)
	tally.Add(None)

	// Then: every outcome is counted once
	assert.Equal(t, Tally{CrossWins: 2, NoughtsWins: 1, Ties: 1}, tally)
	assert.Equal(t, 4, tally.Games())
}

func TestRun_Lifecycle(t *testing.T) {
	// Given: a new run
	run := NewRun("run-1", 10, time.Unix(0, 0))
	assert.Equal(t, StatusRunning, run.Status)

	// When: recording an episode and finishing
	run.Record(Noughts)
	run.Finish()

	// Then: totals and status reflect it
	assert.Equal(t, 1, run.Played)
	assert.Equal(t, 1, run.Totals.NoughtsWins)
	assert.True(t, run.IsFinished())

	run.Cancel()
	assert.Equal(t, StatusCanceled, run.Status)
}

package history

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type HistoryTestSuite struct {
	suite.Suite
	h *History
}

func TestHistorySuite(t *testing.T) {
	suite.Run(t, new(HistoryTestSuite))
}

func (s *HistoryTestSuite) SetupTest() {
	s.h = New()
}

func (s *HistoryTestSuite) TestEmpty() {
	s.False(s.h.CanUndo())
	s.False(s.h.CanRedo())

	_, err := s.h.Undo(Snapshot{})
	s.ErrorIs(err, ErrNothingToUndo)
	_, err = s.h.Redo(Snapshot{})
	s.ErrorIs(err, ErrNothingToRedo)
}

func (s *HistoryTestSuite) TestUndoRedo() {
	s.Require().NoError(s.h.Add(Snapshot{"text": "before", "merge": nil}))
	s.True(s.h.CanUndo())

	prior, err := s.h.Undo(Snapshot{"text": "after", "style": 3})
	s.Require().NoError(err)
	s.Equal(Snapshot{"text": "before", "merge": nil}, prior)
	s.False(s.h.CanUndo())
	s.True(s.h.CanRedo())

	// Only the snapshot's fields are captured; missing ones become null.
	redone, err := s.h.Redo(Snapshot{"text": "before"})
	s.Require().NoError(err)
	s.Equal(Snapshot{"text": "after", "merge": nil}, redone)
	s.True(s.h.CanUndo())
	s.False(s.h.CanRedo())

	again, err := s.h.Undo(Snapshot{"text": "after"})
	s.Require().NoError(err)
	s.Equal(Snapshot{"text": "before", "merge": nil}, again)
}

func (s *HistoryTestSuite) TestAddClearsRedo() {
	s.Require().NoError(s.h.Add(Snapshot{"text": "a"}))
	_, err := s.h.Undo(Snapshot{"text": "b"})
	s.Require().NoError(err)
	s.True(s.h.CanRedo())

	s.Require().NoError(s.h.Add(Snapshot{"text": "c"}))
	s.False(s.h.CanRedo())
}

func (s *HistoryTestSuite) TestStackOrder() {
	for _, v := range []string{"one", "two", "three"} {
		s.Require().NoError(s.h.Add(Snapshot{"text": v}))
	}
	for _, expected := range []string{"three", "two", "one"} {
		got, err := s.h.Undo(Snapshot{})
		s.Require().NoError(err)
		s.Equal(expected, got["text"])
	}
}

func (s *HistoryTestSuite) TestSnapshotsAreCopies() {
	snap := Snapshot{"text": "kept"}
	s.Require().NoError(s.h.Add(snap))
	snap["text"] = "mutated"

	got, err := s.h.Undo(Snapshot{})
	s.Require().NoError(err)
	s.Equal("kept", got["text"])
}

func (s *HistoryTestSuite) TestUnencodableSnapshot() {
	s.Error(s.h.Add(Snapshot{"bad": make(chan int)}))
	s.False(s.h.CanUndo())
}

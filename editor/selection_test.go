package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionStates(t *testing.T) {
	s := NewSelection()
	assert.Equal(t, SelectionEmpty, s.State())

	s.Replace("pb1")
	assert.Equal(t, SelectionSingle, s.State())
	assert.True(t, s.Contains("pb1"))

	s.Add("pb2")
	assert.Equal(t, SelectionMulti, s.State())
	assert.Equal(t, []string{"pb1", "pb2"}, s.IDs())
}

func TestReplaceDropsPriorSelection(t *testing.T) {
	s := NewSelection()
	s.Replace("pb1")
	s.Add("pb2")

	s.Replace("pb3")
	assert.Equal(t, SelectionSingle, s.State())
	assert.False(t, s.Contains("pb1"))
	assert.False(t, s.Contains("pb2"))
	assert.True(t, s.Contains("pb3"))
}

func TestAddIsIdempotent(t *testing.T) {
	s := NewSelection()
	s.Replace("pb1")
	s.Add("pb1")
	assert.Equal(t, SelectionSingle, s.State())
	assert.Equal(t, []string{"pb1"}, s.IDs())
}

func TestRemoveReducesState(t *testing.T) {
	s := NewSelection()
	s.SetAll([]string{"pb1", "pb2", "pb3"})

	s.Remove("pb2")
	assert.Equal(t, []string{"pb1", "pb3"}, s.IDs())
	assert.Equal(t, SelectionMulti, s.State())

	s.Remove("pb1")
	assert.Equal(t, SelectionSingle, s.State())

	s.Remove("pb3")
	assert.Equal(t, SelectionEmpty, s.State())
}

func TestSetAllDeduplicates(t *testing.T) {
	s := NewSelection()
	s.SetAll([]string{"pb1", "pb2", "pb1"})
	assert.Equal(t, []string{"pb1", "pb2"}, s.IDs())
}

func TestClear(t *testing.T) {
	s := NewSelection()
	s.SetAll([]string{"pb1", "pb2"})
	s.Clear()
	assert.Equal(t, SelectionEmpty, s.State())
	assert.Empty(t, s.IDs())
}

func TestIDsReturnsCopy(t *testing.T) {
	s := NewSelection()
	s.SetAll([]string{"pb1", "pb2"})

	ids := s.IDs()
	ids[0] = "mutated"
	assert.Equal(t, []string{"pb1", "pb2"}, s.IDs())
}

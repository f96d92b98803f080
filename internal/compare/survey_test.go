package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurveyPartition(t *testing.T) {
	s := NewSurvey()

	require.True(t, s.AddNewOnly("/new/a"))
	require.True(t, s.AddDiffering("/new/b"))
	require.True(t, s.AddUnresolvable("/new/c"))

	// a path lands in at most one bucket
	assert.False(t, s.AddDiffering("/new/a"))
	assert.False(t, s.AddNewOnly("/new/b"))
	assert.False(t, s.AddUnresolvable("/new/c"))

	assert.Equal(t, []string{"/new/a"}, s.NewOnly())
	assert.Equal(t, []string{"/new/b"}, s.Differing())
	assert.Equal(t, []string{"/new/c"}, s.Unresolvable())
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains("/new/a"))
	assert.False(t, s.Contains("/new/z"))
}

func TestSurveyPatchListOrder(t *testing.T) {
	s := NewSurvey()
	s.AddDiffering("/new/d1")
	s.AddNewOnly("/new/n1")
	s.AddUnresolvable("/new/u1")
	s.AddNewOnly("/new/n2")
	s.AddDiffering("/new/d2")

	// ordered union: new, then differing, then unresolvable
	assert.Equal(t, []string{"/new/n1", "/new/n2", "/new/d1", "/new/d2", "/new/u1"}, s.PatchList())
}

func TestSurveyMerge(t *testing.T) {
	parent := NewSurvey()
	parent.AddNewOnly("/new/top")

	child := NewSurvey()
	child.AddNewOnly("/new/sub/x")
	child.AddDiffering("/new/sub/y")
	child.AddNewOnly("/new/top") // duplicate must not double up

	parent.Merge(child)

	assert.Equal(t, []string{"/new/top", "/new/sub/x"}, parent.NewOnly())
	assert.Equal(t, []string{"/new/sub/y"}, parent.Differing())
	assert.Equal(t, 3, parent.Len())
}

func TestSurveyEmpty(t *testing.T) {
	s := NewSurvey()
	assert.True(t, s.Empty())
	s.AddNewOnly("/new/a")
	assert.False(t, s.Empty())
}

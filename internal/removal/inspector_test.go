package removal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hvprm/internal/ir"
	"github.com/roach88/hvprm/internal/testutil"
)

func TestFindDependents_InvalidLibrary(t *testing.T) {
	m := testutil.NewMemStore()

	labels, err := NewInspector(m, m).FindDependents(context.Background(), ir.Library{ID: 99})
	require.NoError(t, err)
	assert.Empty(t, labels)
	assert.NotNil(t, labels)
}

func TestFindDependents_NoResults(t *testing.T) {
	m := testutil.NewMemStore()
	lib := m.AddLibrary(testLibrary("test_library"))

	labels, err := NewInspector(m, m).FindDependents(context.Background(), lib)
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestFindDependents_WithResults(t *testing.T) {
	m := testutil.NewMemStore()
	lib := m.AddLibrary(testLibrary("test_library"))
	one := m.AddLibrary(ir.Library{MachineName: "preloaded_dependant_one", Title: "Dependant one", Version: ir.Version{Major: 1, Minor: 0, Patch: 2}})
	two := m.AddLibrary(ir.Library{MachineName: "preloaded_dependant_two", Title: "Dependant two", Version: ir.Version{Major: 2, Minor: 1, Patch: 0}})
	three := m.AddLibrary(ir.Library{MachineName: "preloaded_dependant_three", Title: "Dependant three", Version: ir.Version{Major: 0, Minor: 0, Patch: 9}})
	// Declared out of order; output is ordered by dependent id.
	m.AddDependency(three.ID, lib.ID)
	m.AddDependency(one.ID, lib.ID)
	m.AddDependency(two.ID, lib.ID)

	labels, err := NewInspector(m, m).FindDependents(context.Background(), lib)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dependant one 1.0.2", "Dependant two 2.1.0", "Dependant three 0.0.9"}, labels)
}

func TestFindDependents_MergesBothSources(t *testing.T) {
	m := testutil.NewMemStore()
	lib := m.AddLibrary(testLibrary("test_library"))
	fromEdges := m.AddLibrary(ir.Library{MachineName: "edge", Title: "Edge", Version: ir.Version{Major: 1}})
	fromUsage := m.AddLibrary(ir.Library{MachineName: "usage", Title: "Usage", Version: ir.Version{Major: 1}})
	m.AddDependency(fromEdges.ID, lib.ID)
	m.Usage[lib.ID] = ir.LibraryUsage{Libraries: []int64{fromUsage.ID, fromEdges.ID}}

	labels, err := NewInspector(m, m).FindDependents(context.Background(), lib)
	require.NoError(t, err)
	assert.Equal(t, []string{"Edge 1.0.0", "Usage 1.0.0"}, labels)
}

func TestFindDependents_DropsDanglingAndSelf(t *testing.T) {
	m := testutil.NewMemStore()
	lib := m.AddLibrary(testLibrary("test_library"))
	m.AddDependency(999, lib.ID)
	m.AddDependency(lib.ID, lib.ID)

	labels, err := NewInspector(m, m).FindDependents(context.Background(), lib)
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestFindDependents_Deterministic(t *testing.T) {
	m := testutil.NewMemStore()
	lib := m.AddLibrary(testLibrary("test_library"))
	for i := 0; i < 5; i++ {
		dep := m.AddLibrary(ir.Library{MachineName: "dep", Title: "Dep", Version: ir.Version{Major: i}})
		m.AddDependency(dep.ID, lib.ID)
	}
	inspector := NewInspector(m, m)

	first, err := inspector.FindDependents(context.Background(), lib)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := inspector.FindDependents(context.Background(), lib)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Len(t, first, 5)
}

func TestMergeIDs(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 4}, mergeIDs(3, []int64{4, 1}, []int64{2, 3, 1}))
	assert.Empty(t, mergeIDs(1, nil, []int64{1}))
}

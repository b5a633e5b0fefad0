package docset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docbotd/docbot/internal/testutil"
)

func TestExplore(t *testing.T) {
	dir := testutil.TestDocset(t, "swift", []testutil.IndexEntry{
		{Name: "Array", Type: "Struct", Path: "array.html"},
		{Name: "Array.map", Type: "Method", Path: "array-map.html"},
		{Name: "Array.filter", Type: "Method", Path: "array-filter.html"},
		{Name: "Array.count", Type: "Property", Path: "array-count.html"},
		{Name: "ArraySlice", Type: "Struct", Path: "arrayslice.html"},
	})
	a, err := Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	res, err := a.Explore(context.Background(), "Array")
	require.NoError(t, err)

	// ArraySlice is not a dot-member of Array and stays out.
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, "Array", res.Name)

	// Groups follow the fixed type order: Struct before Method before Property.
	require.Len(t, res.Groups, 3)
	assert.Equal(t, "Struct", res.Groups[0].Type)
	assert.Equal(t, "Method", res.Groups[1].Type)
	assert.Equal(t, "Property", res.Groups[2].Type)

	// Exact name sorts first in its group; members sort shorter-then-alpha.
	assert.Equal(t, "Array", res.Groups[0].Entries[0].Name)
	assert.Equal(t, "Array.map", res.Groups[1].Entries[0].Name)
	assert.Equal(t, "Array.filter", res.Groups[1].Entries[1].Name)
}

func TestExploreNoMatches(t *testing.T) {
	dir := testutil.TestDocset(t, "swift", []testutil.IndexEntry{
		{Name: "Array", Type: "Struct", Path: "array.html"},
	})
	a, err := Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	res, err := a.Explore(context.Background(), "Dictionary")
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Groups)
}

func TestBucketFor(t *testing.T) {
	assert.Equal(t, "Class", bucketFor("class"))
	assert.Equal(t, "Method", bucketFor("Method"))
	assert.Equal(t, "Other", bucketFor("Keyword"))
}

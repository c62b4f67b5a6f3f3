package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/pdfcore/internal/object"
)

func fontCategoryDict(entries map[object.Name]object.Object) *object.Dictionary {
	cat := object.NewDictionary()
	for k, v := range entries {
		cat.Set(k, v)
	}
	dict := object.NewDictionary()
	dict.Set(object.Name(ResourceFont), cat)
	return dict
}

func TestResourceStack_LookupFindsOwnScopeFirst(t *testing.T) {
	page := fontCategoryDict(map[object.Name]object.Object{"F1": object.Name("PageFont")})
	stack := NewResourceStack(page, nil)

	own := fontCategoryDict(map[object.Name]object.Object{"F1": object.Name("OwnFont")})
	release := stack.Push(own)
	defer release()

	v, ok := stack.Lookup(ResourceFont, "F1")
	require.True(t, ok)
	assert.Equal(t, object.Name("OwnFont"), v)
}

func TestResourceStack_FallsThroughToParentScope(t *testing.T) {
	page := fontCategoryDict(nil)
	stack := NewResourceStack(page, nil)

	parent := fontCategoryDict(map[object.Name]object.Object{"F1": object.Name("ParentFont")})
	releaseParent := stack.Push(parent)
	defer releaseParent()

	releaseChild := stack.Push(nil)
	defer releaseChild()

	v, ok := stack.Lookup(ResourceFont, "F1")
	require.True(t, ok)
	assert.Equal(t, object.Name("ParentFont"), v)
}

func TestResourceStack_FallsThroughToPage(t *testing.T) {
	page := fontCategoryDict(map[object.Name]object.Object{"F1": object.Name("PageFont")})
	stack := NewResourceStack(page, nil)

	release := stack.Push(nil)
	defer release()

	v, ok := stack.Lookup(ResourceFont, "F1")
	require.True(t, ok)
	assert.Equal(t, object.Name("PageFont"), v)
}

func TestResourceStack_LookupMissingReportsAbsence(t *testing.T) {
	stack := NewResourceStack(fontCategoryDict(nil), nil)
	_, ok := stack.Lookup(ResourceFont, "Nope")
	assert.False(t, ok)
}

func TestResourceStack_PushReleaseUnwindsScope(t *testing.T) {
	page := fontCategoryDict(nil)
	stack := NewResourceStack(page, nil)

	own := fontCategoryDict(map[object.Name]object.Object{"F1": object.Name("Scoped")})
	release := stack.Push(own)
	_, ok := stack.Lookup(ResourceFont, "F1")
	require.True(t, ok)

	release()
	_, ok = stack.Lookup(ResourceFont, "F1")
	assert.False(t, ok, "after release, the scoped resource must no longer be visible")
}

func TestResourceStack_NilPageIsSafe(t *testing.T) {
	stack := NewResourceStack(nil, nil)
	_, ok := stack.Lookup(ResourceFont, "F1")
	assert.False(t, ok)
}

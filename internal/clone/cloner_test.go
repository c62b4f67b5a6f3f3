package clone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/pdfcore/internal/object"
)

func TestClone_ScalarsReturnedAsIs(t *testing.T) {
	dst := object.NewTable(nil)
	c := NewCloner(dst)

	assert.Equal(t, object.Integer(42), c.Clone(object.Integer(42), nil))
	assert.Equal(t, object.Real(3.5), c.Clone(object.Real(3.5), nil))
	assert.Equal(t, object.Name("Type"), c.Clone(object.Name("Type"), nil))
	assert.Equal(t, object.String("hi"), c.Clone(object.String("hi"), nil))
	assert.Equal(t, object.Boolean(true), c.Clone(object.Boolean(true), nil))
}

func TestClone_DictionaryIsDeepAndIndependent(t *testing.T) {
	dst := object.NewTable(nil)
	c := NewCloner(dst)

	src := object.NewDictionary()
	src.SetInteger("Count", 3)
	inner := object.NewArray()
	inner.Append(object.Integer(1), object.Integer(2))
	src.Set("Items", inner)

	cloned := c.Clone(src, nil)
	clonedDict, ok := cloned.(*object.Dictionary)
	require.True(t, ok)
	require.NotSame(t, src, clonedDict)

	clonedArr, ok := clonedDict.Get("Items").(*object.Array)
	require.True(t, ok)
	require.NotSame(t, inner, clonedArr)
	assert.Equal(t, 2, clonedArr.Len())

	// Mutating the source afterward must not affect the clone.
	inner.Append(object.Integer(3))
	assert.Equal(t, 2, clonedArr.Len())
}

func TestClone_DeduplicatesSharedSubstructure(t *testing.T) {
	dst := object.NewTable(nil)
	c := NewCloner(dst)

	shared := object.NewDictionary()
	shared.SetName("Type", "Font")

	root := object.NewArray()
	root.Append(shared, shared)

	cloned := c.Clone(root, nil).(*object.Array)
	first := cloned.Get(0)
	second := cloned.Get(1)
	assert.Same(t, first, second, "two occurrences of the same source value must clone to the identical destination value")
}

// fakeResolver is a minimal object.Table-compatible resolver for reference
// tests that need an actual backing source table.
func newSourceTable(entries map[int]object.Object) *object.Table {
	t := object.NewTable(nil)
	for num, val := range entries {
		t.Put(num, 0, val)
	}
	return t
}

func TestClone_ReferenceIdentityPreservation(t *testing.T) {
	dict := object.NewDictionary()
	dict.SetInteger("Count", 7)
	src := newSourceTable(map[int]object.Object{1: dict})
	ref := object.NewIndirectReference(1, 0)

	dst := object.NewTable(nil)
	c := NewCloner(dst)

	first := c.Clone(ref, src)
	second := c.Clone(ref, src)

	firstRef, ok := first.(*object.IndirectReference)
	require.True(t, ok)
	secondRef, ok := second.(*object.IndirectReference)
	require.True(t, ok)
	assert.True(t, firstRef.Equals(secondRef), "cloning the same source reference twice must return the same destination reference")
}

func TestClone_SelfReferenceRewritesSilently(t *testing.T) {
	src := object.NewTable(nil)
	selfRef := object.NewIndirectReference(1, 0)
	dict := object.NewDictionary()
	dict.SetName("Type", "Pages")
	dict.Set("Parent", selfRef)
	src.Put(1, 0, dict)

	dst := object.NewTable(nil)
	c := NewCloner(dst)

	cloned := c.Clone(selfRef, src)
	clonedRef, ok := cloned.(*object.IndirectReference)
	require.True(t, ok)

	resolved, ok := dst.Resolve(clonedRef)
	require.True(t, ok)
	clonedDict, ok := resolved.(*object.Dictionary)
	require.True(t, ok)

	parentRef, ok := clonedDict.Get("Parent").(*object.IndirectReference)
	require.True(t, ok)
	assert.True(t, parentRef.Equals(clonedRef), "a self-referential slot must rewrite to the clone's own reference, not loop forever")
}

func TestClone_StreamCopiesBytesVerbatimAndIsIndependent(t *testing.T) {
	dst := object.NewTable(nil)
	c := NewCloner(dst)

	srcDict := object.NewDictionary()
	srcDict.SetName("Type", "XObject")
	srcStream := object.NewStream(srcDict, []byte("10 20 m 30 40 l S"))

	cloned := c.Clone(srcStream, nil)
	clonedStream, ok := cloned.(*object.Stream)
	require.True(t, ok)
	assert.Equal(t, srcStream.Content(), clonedStream.Content())

	srcStream.SetContent([]byte("changed"))
	assert.NotEqual(t, string(srcStream.Content()), string(clonedStream.Content()))
}

func TestMerge_DstWinsOnScalarConflict(t *testing.T) {
	dst := object.NewTable(nil)
	c := NewCloner(dst)

	src := object.NewDictionary()
	src.SetInteger("Count", 99)
	src.SetInteger("Fresh", 1)

	destDict := object.NewDictionary()
	destDict.SetInteger("Count", 3)

	c.Merge(src, destDict, nil)

	count, _ := destDict.GetInteger("Count")
	assert.Equal(t, object.Integer(3), count, "Merge must not overwrite a key already present in dst")
	fresh, _ := destDict.GetInteger("Fresh")
	assert.Equal(t, object.Integer(1), fresh, "a key absent from dst must be copied in from src")
}

func TestMerge_RecursesIntoNestedDictionariesOfSameKind(t *testing.T) {
	dst := object.NewTable(nil)
	c := NewCloner(dst)

	srcInner := object.NewDictionary()
	srcInner.SetInteger("A", 1)
	srcInner.SetInteger("B", 2)
	src := object.NewDictionary()
	src.Set("Nested", srcInner)

	dstInner := object.NewDictionary()
	dstInner.SetInteger("A", 100)
	destDict := object.NewDictionary()
	destDict.Set("Nested", dstInner)

	c.Merge(src, destDict, nil)

	merged := destDict.Get("Nested").(*object.Dictionary)
	a, _ := merged.GetInteger("A")
	assert.Equal(t, object.Integer(100), a, "dst wins on the shared key even after recursing")
	b, _ := merged.GetInteger("B")
	assert.Equal(t, object.Integer(2), b, "a key absent from the nested dst dictionary is still merged in")
}

func TestMerge_AppendsArrayContents(t *testing.T) {
	dst := object.NewTable(nil)
	c := NewCloner(dst)

	src := object.NewArray()
	src.Append(object.Integer(3), object.Integer(4))

	destArr := object.NewArray()
	destArr.Append(object.Integer(1), object.Integer(2))

	c.Merge(src, destArr, nil)

	require.Equal(t, 4, destArr.Len())
	assert.Equal(t, object.Integer(1), destArr.Get(0))
	assert.Equal(t, object.Integer(4), destArr.Get(3))
}

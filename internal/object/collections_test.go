package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArray_AppendAndGet(t *testing.T) {
	a := NewArray()
	a.Append(Integer(1), Integer(2))
	require.Equal(t, 2, a.Len())
	assert.Equal(t, Integer(1), a.Get(0))
	assert.Equal(t, Integer(2), a.Get(1))
}

func TestArray_GetOutOfRangeReturnsNull(t *testing.T) {
	a := NewArray()
	assert.Equal(t, Null{}, a.Get(5))
	assert.Equal(t, Null{}, a.Get(-1))
}

func TestArray_InsertAndRemove(t *testing.T) {
	a := NewArray(Integer(1), Integer(3))
	a.Insert(1, Integer(2))
	assert.Equal(t, []Object{Integer(1), Integer(2), Integer(3)}, a.Elements())

	a.Remove(1)
	assert.Equal(t, []Object{Integer(1), Integer(3)}, a.Elements())
}

func TestArray_AppendAllAppendsInOrder(t *testing.T) {
	a := NewArray(Integer(1))
	b := NewArray(Integer(2), Integer(3))
	a.AppendAll(b)
	assert.Equal(t, []Object{Integer(1), Integer(2), Integer(3)}, a.Elements())
}

func TestArray_CloneIsShallowAndIndependent(t *testing.T) {
	a := NewArray(Integer(1), Integer(2))
	b := a.Clone().(*Array)
	require.NotSame(t, a, b)

	a.Append(Integer(3))
	assert.Equal(t, 2, b.Len(), "appending to the source must not affect an already-taken Clone")
}

func TestDictionary_SetPreservesInsertionOrderAcrossOverwrite(t *testing.T) {
	d := NewDictionary()
	d.SetInteger("A", 1)
	d.SetInteger("B", 2)
	d.SetInteger("A", 10)

	assert.Equal(t, []Name{"A", "B"}, d.Keys())
	v, ok := d.GetInteger("A")
	require.True(t, ok)
	assert.Equal(t, Integer(10), v)
}

func TestDictionary_TypedGettersReportWrongType(t *testing.T) {
	d := NewDictionary()
	d.SetName("Type", "Page")

	_, ok := d.GetInteger("Type")
	assert.False(t, ok)

	n, ok := d.GetName("Type")
	require.True(t, ok)
	assert.Equal(t, Name("Page"), n)
}

func TestDictionary_GetRealAcceptsIntegerOrReal(t *testing.T) {
	d := NewDictionary()
	d.SetInteger("Width", 10)
	d.SetReal("Height", 5.5)

	w, ok := d.GetReal("Width")
	require.True(t, ok)
	assert.Equal(t, 10.0, w)

	h, ok := d.GetReal("Height")
	require.True(t, ok)
	assert.Equal(t, 5.5, h)
}

func TestDictionary_RemoveDeletesKeyAndOrderSlot(t *testing.T) {
	d := NewDictionary()
	d.SetInteger("A", 1)
	d.SetInteger("B", 2)
	d.SetInteger("C", 3)

	d.Remove("B")
	assert.Equal(t, []Name{"A", "C"}, d.Keys())
	assert.False(t, d.Has("B"))
}

func TestDictionary_MergeIsDstWinsOneWayCopy(t *testing.T) {
	d := NewDictionary()
	d.SetInteger("Count", 1)

	other := NewDictionary()
	other.SetInteger("Count", 99)
	other.SetInteger("Extra", 7)

	d.Merge(other)

	count, _ := d.GetInteger("Count")
	assert.Equal(t, Integer(1), count, "Merge must leave keys already in d untouched, not take other's value")
	extra, _ := d.GetInteger("Extra")
	assert.Equal(t, Integer(7), extra)
}

func TestDictionary_MergeWithNilIsNoOp(t *testing.T) {
	d := NewDictionary()
	d.SetInteger("A", 1)
	d.Merge(nil)
	assert.Equal(t, 1, d.Len())
}

package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/pdfcore/internal/doc"
	"github.com/coregx/pdfcore/internal/object"
)

func newSizedPageDict(w, h float64) *object.Dictionary {
	d := object.NewDictionary()
	d.Set("Type", object.Name("Page"))
	d.Set("MediaBox", object.NewArray(
		object.Real(0), object.Real(0), object.Real(w), object.Real(h),
	))
	return d
}

func newSizedSource(w, h float64, n int) *doc.Document {
	d := doc.NewDocument()
	for i := 0; i < n; i++ {
		page := newSizedPageDict(w, h)
		page.Set("Contents", d.Table.Put(0, 0, object.NewStream(object.NewDictionary(), []byte("q Q"))))
		_, _ = d.AppendPage(page)
	}
	return d
}

func TestOverlayer_ApplyRejectsEmptyOverlay(t *testing.T) {
	base := newSizedSource(100, 200, 1)
	overlay := doc.NewDocument()
	o := NewOverlayer(base, overlay)
	err := o.Apply()
	assert.Error(t, err)
}

func TestOverlayer_AllPagesSlotCyclesModuloOverlayCount(t *testing.T) {
	base := newSizedSource(100, 200, 3)
	overlay := newSizedSource(40, 60, 2)
	o := NewOverlayer(base, overlay)
	o.UseAllPages()

	idx0, ok0 := o.slotFor(0, 3, 2)
	idx1, ok1 := o.slotFor(1, 3, 2)
	idx2, ok2 := o.slotFor(2, 3, 2)
	require.True(t, ok0)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, 0, idx0)
	assert.Equal(t, 1, idx1)
	assert.Equal(t, 0, idx2)
}

func TestOverlayer_PageSpecificSlotTakesPrecedence(t *testing.T) {
	o := NewOverlayer(newSizedSource(100, 200, 2), newSizedSource(40, 60, 2))
	o.SetDefault(1)
	o.SetPage(1, 2)

	idx, ok := o.slotFor(0, 2, 2)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestOverlayer_ApplyCentersOverlayOnPage(t *testing.T) {
	base := newSizedSource(100, 200, 1)
	overlay := newSizedSource(40, 60, 1)
	o := NewOverlayer(base, overlay)
	o.UseAllPages()

	require.NoError(t, o.Apply())

	page := base.Pages()[0]
	contents := page.Contents()
	require.NotEmpty(t, contents)

	var combined []byte
	for _, s := range contents {
		combined = append(combined, s.Content()...)
	}
	assert.Contains(t, string(combined), "30.0 70.0 cm")
}

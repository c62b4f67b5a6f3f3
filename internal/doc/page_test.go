package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/pdfcore/internal/object"
)

func TestPage_MediaBoxReadsOwnEntry(t *testing.T) {
	d := NewDocument()
	p, err := d.AppendPage(blankPageDict())
	require.NoError(t, err)

	llx, lly, urx, ury, ok := p.MediaBox()
	require.True(t, ok)
	assert.Equal(t, 0.0, llx)
	assert.Equal(t, 0.0, lly)
	assert.Equal(t, 612.0, urx)
	assert.Equal(t, 792.0, ury)
}

func TestPage_MediaBoxInheritsFromParent(t *testing.T) {
	d := NewDocument()
	root := d.pagesRoot()
	root.Set("MediaBox", object.NewArray(object.Integer(0), object.Integer(0), object.Integer(595), object.Integer(842)))

	leaf := object.NewDictionary()
	leaf.Set("Type", object.Name("Page"))
	p, err := d.AppendPage(leaf)
	require.NoError(t, err)

	llx, lly, urx, ury, ok := p.MediaBox()
	require.True(t, ok)
	assert.Equal(t, 595.0, urx)
	assert.Equal(t, 842.0, ury)
	_ = llx
	_ = lly
}

func TestPage_MediaBoxAbsentEverywhereReportsNotFound(t *testing.T) {
	d := NewDocument()
	leaf := object.NewDictionary()
	leaf.Set("Type", object.Name("Page"))
	p, err := d.AppendPage(leaf)
	require.NoError(t, err)

	_, _, _, _, ok := p.MediaBox()
	assert.False(t, ok)
}

func TestPage_CropBoxFallsBackToMediaBox(t *testing.T) {
	d := NewDocument()
	p, err := d.AppendPage(blankPageDict())
	require.NoError(t, err)

	llx, lly, urx, ury, ok := p.CropBox()
	require.True(t, ok)
	assert.Equal(t, 612.0, urx)
	assert.Equal(t, 792.0, ury)
	_ = llx
	_ = lly
}

func TestPage_CropBoxPrefersOwnEntry(t *testing.T) {
	d := NewDocument()
	dict := blankPageDict()
	dict.Set("CropBox", object.NewArray(object.Integer(10), object.Integer(10), object.Integer(100), object.Integer(200)))
	p, err := d.AppendPage(dict)
	require.NoError(t, err)

	_, _, urx, ury, ok := p.CropBox()
	require.True(t, ok)
	assert.Equal(t, 100.0, urx)
	assert.Equal(t, 200.0, ury)
}

func TestPage_ResourcesInheritsFromAncestor(t *testing.T) {
	d := NewDocument()
	root := d.pagesRoot()
	res := object.NewDictionary()
	res.Set("Font", object.NewDictionary())
	root.Set("Resources", res)

	leaf := object.NewDictionary()
	leaf.Set("Type", object.Name("Page"))
	p, err := d.AppendPage(leaf)
	require.NoError(t, err)

	assert.Same(t, res, p.Resources())
}

func TestPage_RotationNormalizesNegativeAndOverflow(t *testing.T) {
	d := NewDocument()
	dict := blankPageDict()
	dict.SetInteger("Rotate", -90)
	p, err := d.AppendPage(dict)
	require.NoError(t, err)

	assert.Equal(t, 270, p.Rotation())
}

func TestPage_RotationDefaultsToZeroWhenAbsent(t *testing.T) {
	d := NewDocument()
	p, err := d.AppendPage(blankPageDict())
	require.NoError(t, err)

	assert.Equal(t, 0, p.Rotation())
}

func TestPage_SetRotationRejectsNonMultipleOf90(t *testing.T) {
	d := NewDocument()
	p, err := d.AppendPage(blankPageDict())
	require.NoError(t, err)

	err = p.SetRotation(45)
	assert.Error(t, err)
}

func TestPage_WidthHeightSwapOnSideRotation(t *testing.T) {
	d := NewDocument()
	dict := blankPageDict()
	p, err := d.AppendPage(dict)
	require.NoError(t, err)

	assert.Equal(t, 612.0, p.Width())
	assert.Equal(t, 792.0, p.Height())

	require.NoError(t, p.SetRotation(90))
	assert.Equal(t, 792.0, p.Width())
	assert.Equal(t, 612.0, p.Height())
}

func TestPage_AnnotationsResolvesIndirectEntries(t *testing.T) {
	d := NewDocument()
	dict := blankPageDict()

	annot := object.NewDictionary()
	annot.Set("Subtype", object.Name("Link"))
	ref := d.Table.Put(0, 0, annot)

	annots := object.NewArray(ref)
	dict.Set("Annots", annots)

	p, err := d.AppendPage(dict)
	require.NoError(t, err)

	got := p.Annotations()
	require.Len(t, got, 1)
	assert.Same(t, annot, got[0])
}

func TestPage_StructParentsReportsAbsence(t *testing.T) {
	d := NewDocument()
	p, err := d.AppendPage(blankPageDict())
	require.NoError(t, err)

	_, ok := p.StructParents()
	assert.False(t, ok)
}

package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/pdfcore/internal/doc"
)

func TestLayerer_ApplyRejectsNoPairedPages(t *testing.T) {
	base := doc.NewDocument()
	source := newSizedSource(100, 200, 1)
	l := NewLayerer(base, source)
	err := l.Apply()
	assert.Error(t, err)
}

func TestLayerer_ApplyCreatesOCGAndTagsContent(t *testing.T) {
	base := newSizedSource(100, 200, 1)
	source := newSizedSource(100, 200, 1)
	l := NewLayerer(base, source)
	l.SetName("Watermark")

	require.NoError(t, l.Apply())

	ocProps, ok := base.OCProperties()
	require.True(t, ok)
	ocgs, ok := ocProps.Dict.GetArray("OCGs")
	require.True(t, ok)
	require.Equal(t, 1, ocgs.Len())

	page := base.Pages()[0]
	contents := page.Contents()
	require.NotEmpty(t, contents)

	var combined []byte
	for _, s := range contents {
		combined = append(combined, s.Content()...)
	}
	assert.Contains(t, string(combined), "BDC")
	assert.Contains(t, string(combined), "EMC")
}

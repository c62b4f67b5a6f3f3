package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGraphicsState_MatchesContentStreamDefaults(t *testing.T) {
	gs := NewGraphicsState()

	assert.True(t, gs.CTM.IsIdentity())
	assert.Equal(t, 10.0, gs.MiterLimit)
	assert.Equal(t, 1.0, gs.StrokeAlpha)
	assert.Equal(t, 1.0, gs.FillAlpha)
	assert.Equal(t, BlendNormal, gs.BlendMode)
	assert.Equal(t, 100.0, gs.Text.HorizScale)
}

func TestGraphicsState_CloneDeepCopiesClipAndText(t *testing.T) {
	gs := NewGraphicsState()
	gs.Clip = &ClipRegion{Path: &Path{Segments: []PathSegment{{Op: 'm'}}}, Active: true}
	gs.DashPattern = []float64{1, 2}

	clone := gs.Clone()
	clone.Clip.Active = false
	clone.DashPattern[0] = 99
	clone.Text.FontSize = 12

	assert.True(t, gs.Clip.Active, "mutating the clone's clip region must not affect the source")
	assert.Equal(t, 1.0, gs.DashPattern[0], "mutating the clone's dash pattern must not affect the source")
	assert.Equal(t, 0.0, gs.Text.FontSize, "mutating the clone's text state must not affect the source")
}

func TestGraphicsStack_PushPopRespectsSentinel(t *testing.T) {
	stack := NewGraphicsStack(NewGraphicsState())
	assert.Equal(t, 1, stack.Depth())

	ok := stack.Pop()
	assert.False(t, ok, "popping the sole sentinel state must fail")
	assert.Equal(t, 1, stack.Depth())

	stack.Push()
	assert.Equal(t, 2, stack.Depth())

	ok = stack.Pop()
	assert.True(t, ok)
	assert.Equal(t, 1, stack.Depth())
}

func TestGraphicsStack_PushClonesCurrentTop(t *testing.T) {
	stack := NewGraphicsStack(NewGraphicsState())
	stack.Top().CTM = Translation(5, 5)

	stack.Push()
	assert.Equal(t, Translation(5, 5), stack.Top().CTM)

	stack.Top().CTM = Translation(9, 9)
	stack.Pop()
	assert.Equal(t, Translation(5, 5), stack.Top().CTM, "popping must restore the parent's own CTM, unaffected by child mutation")
}

func TestGraphicsStack_SnapshotAndRestore(t *testing.T) {
	stack := NewGraphicsStack(NewGraphicsState())
	stack.Push()
	stack.Push()
	require.Equal(t, 3, stack.Depth())

	snap := stack.Snapshot()
	stack.Push()
	stack.Push()
	assert.Equal(t, 5, stack.Depth())

	stack.Restore(snap)
	assert.Equal(t, 3, stack.Depth())
}

func TestGraphicsStack_ResetToTopCloneCollapsesDepth(t *testing.T) {
	stack := NewGraphicsStack(NewGraphicsState())
	stack.Push()
	stack.Push()
	require.Equal(t, 3, stack.Depth())

	stack.Top().CTM = Translation(1, 1)
	stack.ResetToTopClone()

	assert.Equal(t, 1, stack.Depth())
	assert.Equal(t, Translation(1, 1), stack.Top().CTM)
}

func TestTextState_BeginTextResetsMatricesNotFontParams(t *testing.T) {
	ts := NewTextState()
	ts.SetMatrix(Translation(3, 4))
	ts.FontSize = 12
	ts.Leading = 14

	ts.BeginText()

	assert.True(t, ts.Tm.IsIdentity())
	assert.True(t, ts.Tlm.IsIdentity())
	assert.Equal(t, 12.0, ts.FontSize, "font size persists across BT per PDF semantics")
	assert.Equal(t, 14.0, ts.Leading)
}

func TestTextState_TranslateUpdatesLineAndTextMatrix(t *testing.T) {
	ts := NewTextState()
	ts.Translate(10, 20)

	assert.Equal(t, Translation(10, 20), ts.Tm)
	assert.Equal(t, Translation(10, 20), ts.Tlm)
}

func TestTextState_TranslateSetLeadingNegatesTy(t *testing.T) {
	ts := NewTextState()
	ts.TranslateSetLeading(0, -15)

	assert.Equal(t, 15.0, ts.Leading)
}

func TestTextState_NextLineUsesCurrentLeading(t *testing.T) {
	ts := NewTextState()
	ts.Leading = 12
	ts.Translate(100, 700)

	ts.NextLine()

	assert.Equal(t, 100.0, ts.Tm.E)
	assert.Equal(t, 688.0, ts.Tm.F)
}

func TestPath_CloneIsIndependent(t *testing.T) {
	p := &Path{Segments: []PathSegment{{Op: 'm'}}}
	clone := p.Clone()
	clone.Segments[0].Op = 'l'

	assert.Equal(t, byte('m'), p.Segments[0].Op)
}

func TestPath_CloneOfNilIsNil(t *testing.T) {
	var p *Path
	assert.Nil(t, p.Clone())
}

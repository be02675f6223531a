package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run the same edit scripts through both undo engines — the
// in-memory History and the on-disk operation log — and check that they
// agree on the resulting canvas. The two implementations share mutation
// semantics but nothing else, so divergence here means one of them broke
// the inversion contract.

type editStep struct {
	command string
	apply   func(c *Canvas) []Mutation
}

func conformanceScript() []editStep {
	red := brush(255, 0, 0)
	green := brush(0, 255, 0)
	blue := brush(0, 0, 255)
	return []editStep{
		{"pencil", func(c *Canvas) []Mutation { return pencil(c, 2, 2, red) }},
		{"line", func(c *Canvas) []Mutation { return line(c, 0, 0, 7, 0, green) }},
		{"rect", func(c *Canvas) []Mutation { return rectangle(c, 1, 1, 6, 6, blue, false) }},
		{"pencil", func(c *Canvas) []Mutation { return pencil(c, 2, 2, green) }},
		{"fill", func(c *Canvas) []Mutation { return floodFill(c, 3, 3, red) }},
	}
}

// runScript applies the script to both a History-backed canvas and an
// oplog-backed canvas, returning both plus the log path.
func runScript(t *testing.T) (*Canvas, *History, *Canvas, string) {
	t.Helper()
	logFile := filepath.Join(t.TempDir(), "conform.kaku.log")

	mem := NewCanvas(8, 8)
	h := NewHistory()
	disk := NewCanvas(8, 8)

	for _, step := range conformanceScript() {
		muts := step.apply(mem)
		applyMutations(mem, muts)
		h.Commit(cellChange(muts))

		// The disk canvas replays the identical mutations via the log.
		for _, m := range muts {
			disk.Set(m.X, m.Y, m.New)
		}
		require.NoError(t, appendEntry(logFile, makeLogEntry(step.command, muts)))
	}
	return mem, h, disk, logFile
}

func undoOnDisk(t *testing.T, c *Canvas, logFile string, count int) {
	t.Helper()
	undone, err := popForUndo(logFile, count)
	require.NoError(t, err)
	for i := len(undone) - 1; i >= 0; i-- {
		muts := undone[i].Mutations
		for j := len(muts) - 1; j >= 0; j-- {
			c.Set(muts[j].X, muts[j].Y, muts[j].Old)
		}
	}
}

func redoOnDisk(t *testing.T, c *Canvas, logFile string, count int) {
	t.Helper()
	redone, err := pushForRedo(logFile, count)
	require.NoError(t, err)
	for _, entry := range redone {
		for _, m := range entry.Mutations {
			c.Set(m.X, m.Y, m.New)
		}
	}
}

func TestEnginesAgreeAfterScript(t *testing.T) {
	mem, _, disk, _ := runScript(t)
	assert.Equal(t, mem.Cells(), disk.Cells())
}

func TestEnginesAgreeAfterFullUndo(t *testing.T) {
	mem, h, disk, logFile := runScript(t)

	for h.Undo(mem) {
	}
	undoOnDisk(t, disk, logFile, len(conformanceScript()))

	assert.Equal(t, mem.Cells(), disk.Cells())
	for y := 0; y < mem.Height; y++ {
		for x := 0; x < mem.Width; x++ {
			cell, _ := mem.Get(x, y)
			assert.True(t, cell.IsEmpty(), "cell (%d,%d) survived full undo", x, y)
		}
	}
}

func TestEnginesAgreeAfterUndoRedoCycle(t *testing.T) {
	mem, h, disk, logFile := runScript(t)
	want := mem.Cells()

	require.True(t, h.Undo(mem))
	require.True(t, h.Undo(mem))
	require.True(t, h.Redo(mem))
	require.True(t, h.Redo(mem))

	undoOnDisk(t, disk, logFile, 2)
	redoOnDisk(t, disk, logFile, 2)

	assert.Equal(t, want, mem.Cells(), "undo/redo must be an identity on the in-memory engine")
	assert.Equal(t, want, disk.Cells(), "undo/redo must be an identity on the log engine")
}

func TestEnginesAgreeOnRedoClear(t *testing.T) {
	mem, h, disk, logFile := runScript(t)

	require.True(t, h.Undo(mem))
	undoOnDisk(t, disk, logFile, 1)

	// A fresh edit clears redo in both engines.
	muts := pencil(mem, 7, 7, brush(9, 9, 9))
	applyMutations(mem, muts)
	h.Commit(cellChange(muts))

	for _, m := range muts {
		disk.Set(m.X, m.Y, m.New)
	}
	require.NoError(t, appendEntry(logFile, makeLogEntry("pencil", muts)))

	assert.False(t, h.CanRedo())
	_, err := pushForRedo(logFile, 1)
	assert.ErrorIs(t, err, errNothingToRedo)

	assert.Equal(t, mem.Cells(), disk.Cells())
}

func TestEnginesAgreeUnderPartialUndo(t *testing.T) {
	mem, h, disk, logFile := runScript(t)

	for i := 0; i < 3; i++ {
		require.True(t, h.Undo(mem))
	}
	undoOnDisk(t, disk, logFile, 3)

	assert.Equal(t, mem.Cells(), disk.Cells())
}

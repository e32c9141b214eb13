package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitViewIdentical(t *testing.T) {
	rows := SplitView("a\nb\n", "a\nb\n")
	require.Len(t, rows, 2)
	for i, r := range rows {
		assert.Equal(t, Equal, r.Kind)
		assert.Equal(t, i+1, r.OldNo)
		assert.Equal(t, i+1, r.NewNo)
	}
}

func TestSplitViewModifiedLine(t *testing.T) {
	oldText := "const a = obj.b;\nconst c = 1;\n"
	newText := "const a = obj?.b;\nconst c = 1;\n"

	rows := SplitView(oldText, newText)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{Kind: Modified, OldNo: 1, Old: "const a = obj.b;", NewNo: 1, New: "const a = obj?.b;"}, rows[0])
	assert.Equal(t, Equal, rows[1].Kind)
	assert.Equal(t, 2, rows[1].OldNo)
}

func TestSplitViewAddedAndRemoved(t *testing.T) {
	rows := SplitView("x\ny\nz\n", "x\nz\nw\n")

	stats := Stats(rows)
	assert.Equal(t, 2, stats[Equal])
	assert.Equal(t, 1, stats[Removed])
	assert.Equal(t, 1, stats[Added])

	last := rows[len(rows)-1]
	assert.Equal(t, Added, last.Kind)
	assert.Equal(t, 0, last.OldNo)
	assert.Equal(t, 3, last.NewNo)
	assert.Equal(t, "w", last.New)
}

func TestSplitViewEmpty(t *testing.T) {
	assert.Empty(t, SplitView("", ""))

	rows := SplitView("", "a?.b")
	require.Len(t, rows, 1)
	assert.Equal(t, Added, rows[0].Kind)
}

func TestPalette(t *testing.T) {
	assert.Equal(t, "#ffffff", DefaultStyles.Palette(false).Background)
	assert.Equal(t, "rgb(17 24 39)", DefaultStyles.Palette(true).Background)
}

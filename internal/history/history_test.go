package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linealab/linea/internal/canvas"
)

func addObjects(id canvas.ObjectID) canvas.DataAction {
	return canvas.DataAction{
		Kind:    canvas.ActionAddObject,
		Objects: canvas.ObjectMap{id: {ID: id, Type: canvas.TypeNode}},
	}
}

func TestAppendAdvancesCursor(t *testing.T) {
	tr := New()
	assert.Nil(t, tr.Root)

	tr.Append(addObjects(1))
	require.NotNil(t, tr.Root)
	assert.Equal(t, tr.Root, tr.Cur)

	tr.Append(addObjects(2))
	require.Len(t, tr.Root.Children, 1)
	assert.Equal(t, tr.Root.Children[0], tr.Cur)
}

func TestLinearFollowsFirstChild(t *testing.T) {
	tr := New()
	tr.Append(addObjects(1))
	tr.Append(addObjects(2))

	// A manually grafted second branch is ignored by the linear walk.
	tr.Root.Children = append(tr.Root.Children, &Entry{Action: addObjects(9)})

	actions := tr.Linear()
	require.Len(t, actions, 2)
	assert.Equal(t, canvas.ObjectID(1), actions[0].Objects.SortedIDs()[0])
	assert.Equal(t, canvas.ObjectID(2), actions[1].Objects.SortedIDs()[0])
}

func TestLinearEntriesNil(t *testing.T) {
	assert.Empty(t, LinearEntries(nil))
}

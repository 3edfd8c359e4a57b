package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/cabin-manager/internal/model"
)

func TestLoad_EmbeddedDataset(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)

	res := ds.Reservations()
	require.NotEmpty(t, res)
	require.NotEmpty(t, ds.ShoppingList())
	require.NotEmpty(t, ds.TodoList())

	for _, r := range res {
		assert.NotEmpty(t, r.ID)
		assert.Empty(t, r.UserID, "demo reservations carry no owner")
		assert.Nil(t, r.ApprovedByID, "demo reservations carry no approver")
		assert.False(t, r.EndDate.Before(r.StartDate), "reservation %s ends before it starts", r.ID)
	}
	for _, it := range ds.ShoppingList() {
		assert.Nil(t, it.AddedBy)
		assert.NotEmpty(t, it.Text)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	ds := MustLoad()

	items := ds.ShoppingList()
	items[0].Text = "changed"

	assert.NotEqual(t, "changed", ds.ShoppingList()[0].Text)
}

func TestParse(t *testing.T) {
	ds, err := Parse([]byte(`
reservations:
  - id: r1
    title: Trip
    startDate: 2025-01-01T00:00:00Z
    endDate: 2025-01-05T00:00:00Z
    status: APPROVED
todoList:
  - id: t1
    task: Chop wood
    isCompleted: true
`))
	require.NoError(t, err)

	require.Len(t, ds.Reservations(), 1)
	assert.Equal(t, model.StatusApproved, ds.Reservations()[0].Status)
	assert.Equal(t, 2025, ds.Reservations()[0].StartDate.Year())

	require.Len(t, ds.TodoList(), 1)
	assert.True(t, ds.TodoList()[0].Done)
	assert.NotNil(t, ds.ShoppingList(), "missing sections decode as empty, not nil")
}

func TestParse_RejectsUnknownStatus(t *testing.T) {
	_, err := Parse([]byte(`
reservations:
  - id: r1
    status: MAYBE
`))
	assert.Error(t, err)
}

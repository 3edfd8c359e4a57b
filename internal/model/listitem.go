package model

import (
	"math"
	"time"
)

// ListItem is the storage shape shared by the shopping list and the to-do
// list: a line of text and a done flag. The two resources only differ in
// what they call these fields on the wire (itemName/isBought vs
// task/isCompleted), see ShoppingListItem and ToDoItem.
type ListItem struct {
	ID        string
	Text      string
	Done      bool
	AddedByID string
	AddedBy   *UserRef
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListItemChanges is an effective patch for a ListItem.
type ListItemChanges struct {
	Text *string
	Done *bool
}

func (c ListItemChanges) IsEmpty() bool {
	return c.Text == nil && c.Done == nil
}

type ShoppingListItem struct {
	ID        string    `json:"id"`
	ItemName  string    `json:"itemName"`
	IsBought  bool      `json:"isBought"`
	AddedByID string    `json:"addedById,omitempty"`
	AddedBy   *UserRef  `json:"addedBy,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

func NewShoppingListItem(it ListItem) ShoppingListItem {
	return ShoppingListItem{
		ID:        it.ID,
		ItemName:  it.Text,
		IsBought:  it.Done,
		AddedByID: it.AddedByID,
		AddedBy:   it.AddedBy,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

type ToDoItem struct {
	ID          string    `json:"id"`
	Task        string    `json:"task"`
	IsCompleted bool      `json:"isCompleted"`
	AddedByID   string    `json:"addedById,omitempty"`
	AddedBy     *UserRef  `json:"addedBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

func NewToDoItem(it ListItem) ToDoItem {
	return ToDoItem{
		ID:          it.ID,
		Task:        it.Text,
		IsCompleted: it.Done,
		AddedByID:   it.AddedByID,
		AddedBy:     it.AddedBy,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

// Progress is the data behind a list's progress bar.
type Progress struct {
	Total   int `json:"total"`
	Done    int `json:"done"`
	Percent int `json:"percent"`
}

// Percent returns part/total as a rounded percentage, 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// Package demo holds the canned dataset served to DUMMY sessions. The data
// is compiled into the binary and never written; every accessor returns a
// fresh copy.
package demo

import (
	_ "embed"
	"fmt"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sakif/cabin-manager/internal/model"
)

//go:embed demo.yaml
var embedded []byte

type yamlReservation struct {
	ID          string    `yaml:"id"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	StartDate   time.Time `yaml:"startDate"`
	EndDate     time.Time `yaml:"endDate"`
	Status      string    `yaml:"status"`
}

type yamlShoppingItem struct {
	ID       string `yaml:"id"`
	ItemName string `yaml:"itemName"`
	IsBought bool   `yaml:"isBought"`
}

type yamlTodoItem struct {
	ID          string `yaml:"id"`
	Task        string `yaml:"task"`
	IsCompleted bool   `yaml:"isCompleted"`
}

type yamlDataset struct {
	Reservations []yamlReservation  `yaml:"reservations"`
	ShoppingList []yamlShoppingItem `yaml:"shoppingList"`
	TodoList     []yamlTodoItem     `yaml:"todoList"`
}

// Dataset is a parsed, read-only demo dataset.
type Dataset struct {
	reservations []model.Reservation
	shoppingList []model.ListItem
	todoList     []model.ListItem
}

// Load parses the dataset compiled into the binary.
func Load() (*Dataset, error) {
	return Parse(embedded)
}

// MustLoad is Load for tests; the embedded file is part of the build, so a
// parse failure is a programming error.
func MustLoad() *Dataset {
	ds, err := Load()
	if err != nil {
		panic(err)
	}
	return ds
}

// Parse builds a Dataset from YAML shaped like demo.yaml.
func Parse(data []byte) (*Dataset, error) {
	var raw yamlDataset
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("demo: parsing dataset: %w", err)
	}

	ds := &Dataset{
		reservations: make([]model.Reservation, 0, len(raw.Reservations)),
		shoppingList: make([]model.ListItem, 0, len(raw.ShoppingList)),
		todoList:     make([]model.ListItem, 0, len(raw.TodoList)),
	}

	for _, r := range raw.Reservations {
		status, err := model.ParseStatus(r.Status)
		if err != nil {
			return nil, fmt.Errorf("demo: reservation %s: %w", r.ID, err)
		}
		ds.reservations = append(ds.reservations, model.Reservation{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			StartDate:   r.StartDate,
			EndDate:     r.EndDate,
			Status:      status,
		})
	}
	for _, it := range raw.ShoppingList {
		ds.shoppingList = append(ds.shoppingList, model.ListItem{ID: it.ID, Text: it.ItemName, Done: it.IsBought})
	}
	for _, it := range raw.TodoList {
		ds.todoList = append(ds.todoList, model.ListItem{ID: it.ID, Text: it.Task, Done: it.IsCompleted})
	}

	return ds, nil
}

func (d *Dataset) Reservations() []model.Reservation {
	return slices.Clone(d.reservations)
}

func (d *Dataset) ShoppingList() []model.ListItem {
	return slices.Clone(d.shoppingList)
}

func (d *Dataset) TodoList() []model.ListItem {
	return slices.Clone(d.todoList)
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/cabin-manager/internal/apperror"
	"github.com/sakif/cabin-manager/internal/auth"
	"github.com/sakif/cabin-manager/internal/authz"
	"github.com/sakif/cabin-manager/internal/model"
	"github.com/sakif/cabin-manager/internal/repository"
)

// ListKind is what differs between the shopping list and the to-do list
// at the service level: the authz resource and the validation messages.
type ListKind struct {
	Resource     authz.Resource
	TextRequired string
	NothingToDo  string
}

var (
	ShoppingListKind = ListKind{
		Resource:     authz.ShoppingList,
		TextRequired: "Item name is required",
		NothingToDo:  "No valid item to update",
	}
	TodoListKind = ListKind{
		Resource:     authz.TodoList,
		TextRequired: "Task is required",
		NothingToDo:  "No ToDo provided to update",
	}
)

// ListPatch is an update request. Text is nil unless the body carried a
// string; Done is nil unless it carried a boolean.
type ListPatch struct {
	Text *string
	Done *bool
}

// ListService implements both list resources; one instance per kind.
type ListService struct {
	kind   ListKind
	repo   repository.ListItemRepository
	demo   func() []model.ListItem
	logger *slog.Logger
}

func NewListService(kind ListKind, repo repository.ListItemRepository, demo func() []model.ListItem, logger *slog.Logger) *ListService {
	return &ListService{
		kind:   kind,
		repo:   repo,
		demo:   demo,
		logger: logger.With(slog.String("list", kind.Resource.String())),
	}
}

// Resource is the authz resource this list is checked as.
func (s *ListService) Resource() authz.Resource {
	return s.kind.Resource
}

func (s *ListService) check(p *auth.Principal, act authz.Action) error {
	return authz.Check(p, authz.Request{Resource: s.kind.Resource, Action: act})
}

// List returns the canned items for DUMMY and every live item otherwise.
func (s *ListService) List(ctx context.Context, p *auth.Principal) ([]model.ListItem, error) {
	if err := s.check(p, authz.Read); err != nil {
		return nil, err
	}
	if authz.ReadsDemoData(p) {
		return s.demo(), nil
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.kind.Resource, err)
	}
	return items, nil
}

// Create adds an unchecked item attributed to the caller.
func (s *ListService) Create(ctx context.Context, p *auth.Principal, text *string) (*model.ListItem, error) {
	if err := s.check(p, authz.Create); err != nil {
		return nil, err
	}
	v := nonBlank(text)
	if v == nil {
		return nil, apperror.ValidationFailed("text", s.kind.TextRequired)
	}

	item := &model.ListItem{Text: *v, AddedByID: p.UserID}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("creating %s item: %w", s.kind.Resource, err)
	}
	item.AddedBy = &model.UserRef{Username: p.Username}

	s.logger.Info("item added", slog.String("id", item.ID), slog.String("user", p.Username))
	return item, nil
}

// Update writes the effective fields of patch. Setting Done to its current
// value is a successful no-op.
func (s *ListService) Update(ctx context.Context, p *auth.Principal, id string, patch ListPatch) (*model.ListItem, error) {
	if err := s.check(p, authz.Update); err != nil {
		return nil, err
	}

	changes := model.ListItemChanges{Text: nonBlank(patch.Text), Done: patch.Done}
	if changes.IsEmpty() {
		return nil, apperror.ValidationFailed("", s.kind.NothingToDo)
	}

	if err := s.repo.Update(ctx, id, changes); err != nil {
		return nil, fmt.Errorf("updating %s item %s: %w", s.kind.Resource, id, err)
	}
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reloading %s item %s: %w", s.kind.Resource, id, err)
	}
	return item, nil
}

func (s *ListService) Delete(ctx context.Context, p *auth.Principal, id string) error {
	if err := s.check(p, authz.Delete); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting %s item %s: %w", s.kind.Resource, id, err)
	}
	s.logger.Info("item deleted", slog.String("id", id), slog.String("user", p.Username))
	return nil
}

// Progress counts done items in the caller's read projection.
func (s *ListService) Progress(ctx context.Context, p *auth.Principal) (*model.Progress, error) {
	items, err := s.List(ctx, p)
	if err != nil {
		return nil, err
	}
	progress := &model.Progress{Total: len(items)}
	for _, it := range items {
		if it.Done {
			progress.Done++
		}
	}
	progress.Percent = model.Percent(progress.Done, progress.Total)
	return progress, nil
}

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/cabin-manager/internal/auth"
	"github.com/sakif/cabin-manager/internal/authz"
	"github.com/sakif/cabin-manager/internal/model"
	"github.com/sakif/cabin-manager/internal/service"
)

// ListFields is the wire vocabulary of one list resource: the JSON names
// of its text and flag fields, and its generic 500 messages.
type ListFields struct {
	Text string
	Done string

	ListFailed   string
	CreateFailed string
	UpdateFailed string
	DeleteFailed string
}

var (
	ShoppingListFields = ListFields{
		Text:         "itemName",
		Done:         "isBought",
		ListFailed:   "Internal Server Error",
		CreateFailed: "Internal Server Error",
		UpdateFailed: "Failed to update item",
		DeleteFailed: "Internal Server Error",
	}
	TodoListFields = ListFields{
		Text:         "task",
		Done:         "isCompleted",
		ListFailed:   "Oh no! Something went wrong!",
		CreateFailed: "Failed to add task",
		UpdateFailed: "Failed to update ToDo",
		DeleteFailed: "Failed to delete ToDo",
	}
)

// ListHandler serves one list resource. T is the item's wire shape
// (model.ShoppingListItem or model.ToDoItem) and present converts to it.
type ListHandler[T any] struct {
	svc     *service.ListService
	fields  ListFields
	present func(model.ListItem) T
	logger  *slog.Logger
}

func NewListHandler[T any](svc *service.ListService, fields ListFields, present func(model.ListItem) T, logger *slog.Logger) *ListHandler[T] {
	return &ListHandler[T]{svc: svc, fields: fields, present: present, logger: logger}
}

// readBody decodes a JSON object and picks out the text and flag fields.
func (h *ListHandler[T]) readBody(w http.ResponseWriter, r *http.Request) (text OptionalString, done OptionalBool, err error) {
	var raw map[string]json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		return text, done, err
	}
	if v, ok := raw[h.fields.Text]; ok {
		_ = text.UnmarshalJSON(v)
	}
	if v, ok := raw[h.fields.Done]; ok {
		_ = done.UnmarshalJSON(v)
	}
	return text, done, nil
}

func (h *ListHandler[T]) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), auth.PrincipalFromContext(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err, h.fields.ListFailed)
		return
	}

	out := make([]T, len(items))
	for i, it := range items {
		out[i] = h.present(it)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ListHandler[T]) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())

	text, _, err := h.readBody(w, r)
	if err != nil {
		bodyError(w, r, h.logger, p, authz.Request{Resource: h.svc.Resource(), Action: authz.Create}, err)
		return
	}

	item, err := h.svc.Create(r.Context(), p, text.Get())
	if err != nil {
		writeError(w, r, h.logger, err, h.fields.CreateFailed)
		return
	}
	writeJSON(w, http.StatusCreated, h.present(*item))
}

func (h *ListHandler[T]) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())

	text, done, err := h.readBody(w, r)
	if err != nil {
		bodyError(w, r, h.logger, p, authz.Request{Resource: h.svc.Resource(), Action: authz.Update}, err)
		return
	}

	item, err := h.svc.Update(r.Context(), p, chi.URLParam(r, "id"), service.ListPatch{Text: text.Get(), Done: done.Get()})
	if err != nil {
		writeError(w, r, h.logger, err, h.fields.UpdateFailed)
		return
	}
	writeJSON(w, http.StatusOK, h.present(*item))
}

func (h *ListHandler[T]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())
	if err := h.svc.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.logger, err, h.fields.DeleteFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleProgress serves the progress-bar numbers for the list.
func (h *ListHandler[T]) HandleProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.svc.Progress(r.Context(), auth.PrincipalFromContext(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err, h.fields.ListFailed)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

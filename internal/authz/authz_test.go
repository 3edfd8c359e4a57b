package authz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/cabin-manager/internal/apperror"
	"github.com/sakif/cabin-manager/internal/auth"
	"github.com/sakif/cabin-manager/internal/model"
)

func principal(role model.Role) *auth.Principal {
	return &auth.Principal{UserID: "u-" + string(role), Username: string(role), Role: role}
}

var (
	allResources = []Resource{Reservation, ShoppingList, TodoList}
	allActions   = []Action{Read, Create, Update, Delete}
)

func TestCheck_NoSessionIsUnauthorizedForEverything(t *testing.T) {
	for _, res := range allResources {
		for _, act := range allActions {
			err := Check(nil, Request{Resource: res, Action: act})
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrUnauthorized), "%v/%v", res, act)
			assert.Equal(t, "Unauthorized", err.Error())
		}
	}
}

func TestCheck_DummyMayOnlyRead(t *testing.T) {
	p := principal(model.RoleDummy)

	for _, res := range allResources {
		assert.NoError(t, Check(p, Request{Resource: res, Action: Read}))

		for _, act := range []Action{Create, Update, Delete} {
			err := Check(p, Request{Resource: res, Action: act})
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrForbidden))
			assert.Equal(t, DummyDenial(res, act), err.Error())
		}
	}
}

func TestCheck_DummyMessages(t *testing.T) {
	p := principal(model.RoleDummy)

	tests := []struct {
		res  Resource
		act  Action
		want string
	}{
		{Reservation, Create, "DUMMY users cannot add items to the reservation list"},
		{Reservation, Update, "DUMMY users cannot update items in the calendar"},
		{Reservation, Delete, "DUMMY users cannot delete items from the calendar"},
		{ShoppingList, Create, "DUMMY users cannot add items to the shopping list"},
		{ShoppingList, Delete, "DUMMY users cannot delete items from the shopping list"},
		{TodoList, Update, "Cannot update ToDo`s as a Dummy user"},
	}

	for _, tt := range tests {
		err := Check(p, Request{Resource: tt.res, Action: tt.act})
		assert.EqualError(t, err, tt.want)
	}
}

func TestCheck_DummyDeniedEvenWithoutAdminFields(t *testing.T) {
	// Rule 2 outranks rule 3: the message is the DUMMY one.
	err := Check(principal(model.RoleDummy), Request{Resource: Reservation, Action: Update, AdminFields: true})
	assert.EqualError(t, err, "DUMMY users cannot update items in the calendar")
}

func TestCheck_AdminFields(t *testing.T) {
	req := Request{Resource: Reservation, Action: Update, AdminFields: true}

	err := Check(principal(model.RoleUser), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrForbidden))
	assert.Equal(t, "Only admins can update status and comment", err.Error())

	assert.NoError(t, Check(principal(model.RoleAdmin), req))
}

func TestCheck_UserAndAdminMayMutate(t *testing.T) {
	for _, role := range []model.Role{model.RoleUser, model.RoleAdmin} {
		for _, res := range allResources {
			for _, act := range allActions {
				assert.NoError(t, Check(principal(role), Request{Resource: res, Action: act}), "%s %v/%v", role, res, act)
			}
		}
	}
}

func TestCheck_UnknownRoleDenied(t *testing.T) {
	p := &auth.Principal{UserID: "u1", Role: "REGULAR"}

	for _, act := range allActions {
		err := Check(p, Request{Resource: ShoppingList, Action: act})
		assert.True(t, errors.Is(err, apperror.ErrForbidden))
	}
}

func TestReadsDemoData(t *testing.T) {
	assert.True(t, ReadsDemoData(principal(model.RoleDummy)))
	assert.False(t, ReadsDemoData(principal(model.RoleUser)))
	assert.False(t, ReadsDemoData(principal(model.RoleAdmin)))
	assert.False(t, ReadsDemoData(nil))
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCanPerform_Matrix walks every role x action pair
func TestCanPerform_Matrix(t *testing.T) {
	want := map[Role][]Action{
		RoleUser:   {ActionRead, ActionComment},
		RoleWriter: {ActionRead, ActionComment, ActionCreateArticle},
		RoleAdmin:  {ActionRead, ActionComment, ActionCreateArticle, ActionHideArticle, ActionGrantRoles},
	}

	for _, role := range Roles {
		allowed := make(map[Action]bool)
		for _, a := range want[role] {
			allowed[a] = true
		}
		for _, action := range Actions {
			assert.Equal(t, allowed[action], CanPerform(role, action),
				"role=%s action=%s", role, action)
		}
	}
}

func TestCanPerform_UnknownDenied(t *testing.T) {
	assert.False(t, CanPerform(Role("root"), ActionRead))
	assert.False(t, CanPerform(Role(""), ActionComment))
	assert.False(t, CanPerform(RoleAdmin, Action("delete_everything")))
}

func TestParseRole(t *testing.T) {
	for _, r := range Roles {
		got, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := ParseRole("superuser")
	assert.Error(t, err)
}

func TestRole_Label(t *testing.T) {
	assert.Equal(t, "Администратор", RoleAdmin.Label())
	assert.Equal(t, "Писатель", RoleWriter.Label())
	assert.Equal(t, "Пользователь", RoleUser.Label())
	assert.Equal(t, "Пользователь", Role("bogus").Label())
}

func TestUserPatch_Apply(t *testing.T) {
	u := User{ID: "1", Username: "old", Email: "old@ikit.ru", Role: RoleWriter}
	name := "new"
	UserPatch{Username: &name}.Apply(&u)

	assert.Equal(t, "new", u.Username)
	assert.Equal(t, "old@ikit.ru", u.Email)
	assert.Equal(t, RoleWriter, u.Role)
}

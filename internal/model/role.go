package model

import "fmt"

// Role represents a user's access level on the portal.
type Role string

const (
	RoleUser   Role = "user"
	RoleWriter Role = "writer"
	RoleAdmin  Role = "admin"
)

// Roles lists every role from least to most privileged.
var Roles = []Role{RoleUser, RoleWriter, RoleAdmin}

// Action is something a user may try to do on the portal.
type Action string

const (
	ActionRead          Action = "read"
	ActionComment       Action = "comment"
	ActionCreateArticle Action = "create_article"
	ActionHideArticle   Action = "hide_article"
	ActionGrantRoles    Action = "grant_roles"
)

// Actions lists every action in capability order.
var Actions = []Action{
	ActionRead,
	ActionComment,
	ActionCreateArticle,
	ActionHideArticle,
	ActionGrantRoles,
}

var capabilities = map[Role]map[Action]bool{
	RoleUser: {
		ActionRead:    true,
		ActionComment: true,
	},
	RoleWriter: {
		ActionRead:          true,
		ActionComment:       true,
		ActionCreateArticle: true,
	},
	RoleAdmin: {
		ActionRead:          true,
		ActionComment:       true,
		ActionCreateArticle: true,
		ActionHideArticle:   true,
		ActionGrantRoles:    true,
	},
}

// CanPerform reports whether role is allowed to perform action.
// Unknown roles and actions are always denied.
func CanPerform(role Role, action Action) bool {
	return capabilities[role][action]
}

// Valid checks if the role is one of the known values
func (r Role) Valid() bool {
	_, ok := capabilities[r]
	return ok
}

// ParseRole converts a form or storage value into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Label is the human readable role name shown in the UI.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Администратор"
	case RoleWriter:
		return "Писатель"
	default:
		return "Пользователь"
	}
}

// Description summarizes what the role allows.
func (r Role) Description() string {
	switch r {
	case RoleAdmin:
		return "Полный доступ к управлению системой"
	case RoleWriter:
		return "Может создавать и публиковать новости"
	default:
		return "Может читать и комментировать новости"
	}
}

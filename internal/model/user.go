package model

// User is the authenticated account held by a session.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// UserPatch carries the profile fields a user may change.
// Nil fields are left untouched. The role is not patchable.
type UserPatch struct {
	Username *string
	Email    *string
}

// Apply merges the patch into u.
func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
}

package clinicapi

// RoleUpdate is the body of a role change.
type RoleUpdate struct {
	Role string `json:"role"`
}

// NotesUpdate is the body of an appointment notes update.
type NotesUpdate struct {
	Notes string `json:"notes"`
}

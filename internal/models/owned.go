package models

// Owned is implemented by records stamped with the user that imported them.
type Owned interface {
	OwnerID() int
}

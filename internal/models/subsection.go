package models

// Subsection is a subseccional of the bar association.
type Subsection struct {
	ID     int64  `db:"id" json:"id"`
	Nome   string `db:"nome" json:"nome"`
	UserID int    `db:"user_id" json:"user_id"`
	Status bool   `db:"status" json:"status"`
}

func (s Subsection) OwnerID() int {
	return s.UserID
}

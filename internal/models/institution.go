package models

type Institution struct {
	ID     int64  `db:"id" json:"id"`
	Nome   string `db:"nome" json:"nome"`
	UserID int    `db:"user_id" json:"user_id"`
	Status bool   `db:"status" json:"status"`
}

func (i Institution) OwnerID() int {
	return i.UserID
}

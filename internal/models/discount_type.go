package models

type DiscountType struct {
	ID     int64  `db:"id" json:"id"`
	Nome   string `db:"nome" json:"nome"`
	UserID int    `db:"user_id" json:"user_id"`
	Status bool   `db:"status" json:"status"`
}

func (d DiscountType) OwnerID() int {
	return d.UserID
}

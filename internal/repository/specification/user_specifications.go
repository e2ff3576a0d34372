package specification

import "gorm.io/gorm"

// ByEmailOrNameLike matches users whose email or full name contains Term.
type ByEmailOrNameLike struct {
	Term string
}

func (s ByEmailOrNameLike) Apply(db *gorm.DB) *gorm.DB {
	like := "%" + s.Term + "%"
	return db.Where("email ILIKE ? OR full_name ILIKE ?", like, like)
}

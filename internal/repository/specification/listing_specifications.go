package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByCity filters listings by city (exact match).
type ByCity struct {
	City string
}

func (s ByCity) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("city = ?", s.City)
}

// ByPriceRange filters listings whose total price falls inside [Min, Max].
// A zero bound is open.
type ByPriceRange struct {
	Min int64
	Max int64
}

func (s ByPriceRange) Apply(db *gorm.DB) *gorm.DB {
	if s.Min > 0 {
		db = db.Where("total_price >= ?", s.Min)
	}
	if s.Max > 0 {
		db = db.Where("total_price <= ?", s.Max)
	}
	return db
}

// ByMinRooms filters listings with at least N rooms.
type ByMinRooms struct {
	Rooms int
}

func (s ByMinRooms) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("rooms >= ?", s.Rooms)
}

// ByStatus filters listings by publication status.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ByOwner filters listings by owning user.
type ByOwner struct {
	OwnerId uuid.UUID
}

func (s ByOwner) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("owner_id = ?", s.OwnerId)
}

package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newID returns a time-ordered id so that ordering by id follows insertion order.
func newID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = newID()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error        { assignID(&u.ID); return nil }
func (b *Bill) BeforeCreate(*gorm.DB) error        { assignID(&b.ID); return nil }
func (c *Customer) BeforeCreate(*gorm.DB) error    { assignID(&c.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error     { assignID(&p.ID); return nil }
func (i *Invoice) BeforeCreate(*gorm.DB) error     { assignID(&i.ID); return nil }
func (t *Transaction) BeforeCreate(*gorm.DB) error { assignID(&t.ID); return nil }
func (a *AuditLog) BeforeCreate(*gorm.DB) error    { assignID(&a.ID); return nil }

// All lists every persisted model, in migration order.
func All() []any {
	return []any{
		&User{},
		&Session{},
		&Bill{},
		&Customer{},
		&Product{},
		&Invoice{},
		&Transaction{},
		&AuditLog{},
	}
}

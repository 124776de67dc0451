package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IBase is implemented by every stored document.
type IBase interface {
	GenIDIfEmpty()
	SetID(id primitive.ObjectID)
	GetID() primitive.ObjectID
	GetCreatedAt() time.Time
	Touch(now time.Time)
}

// Base carries the storage-assigned identifier and bookkeeping timestamps.
type Base struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

func (m *Base) GenIDIfEmpty() {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
}

func (m *Base) SetID(id primitive.ObjectID) {
	m.ID = id
}

func (m *Base) GetID() primitive.ObjectID {
	return m.ID
}

func (m *Base) GetCreatedAt() time.Time {
	return m.CreatedAt
}

// Touch stamps UpdatedAt and, for new documents, CreatedAt.
func (m *Base) Touch(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

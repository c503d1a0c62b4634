package aggregate

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base for all persisted domain objects. Embedded by value,
// not inherited.
type Entity struct {
	id string
}

func newEntity() Entity {
	return Entity{id: uuid.New().String()}
}

func restoreEntity(id string) Entity {
	return Entity{id: id}
}

func (e *Entity) ID() string { return e.id }

// AuditedEntity extends Entity with creation and modification timestamps.
type AuditedEntity struct {
	Entity
	createdAt time.Time
	updatedAt time.Time
}

func newAuditedEntity() AuditedEntity {
	now := time.Now().UTC()
	return AuditedEntity{
		Entity:    newEntity(),
		createdAt: now,
		updatedAt: now,
	}
}

func restoreAuditedEntity(id string, createdAt, updatedAt time.Time) AuditedEntity {
	return AuditedEntity{
		Entity:    restoreEntity(id),
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (e *AuditedEntity) CreatedAt() time.Time { return e.createdAt }
func (e *AuditedEntity) UpdatedAt() time.Time { return e.updatedAt }

func (e *AuditedEntity) touch() {
	e.updatedAt = time.Now().UTC()
}

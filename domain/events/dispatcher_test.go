package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_Publish(t *testing.T) {
	d := NewDispatcher()

	var created, all []string
	d.Subscribe(TypeEntryCreated, func(e DomainEvent) {
		created = append(created, e.GetAggregateID())
	})
	d.SubscribeAll(func(e DomainEvent) {
		all = append(all, e.GetEventType())
	})

	now := time.Now()
	d.Publish(
		NewEntryCreated("a", []string{"go"}, now),
		NewEntryArchived("a", now),
	)

	assert.Equal(t, []string{"a"}, created)
	assert.Equal(t, []string{TypeEntryCreated, TypeEntryArchived}, all)

	d.Clear(TypeEntryCreated)
	d.Publish(NewEntryCreated("b", nil, now))
	assert.Equal(t, []string{"a"}, created)
	assert.Len(t, all, 3)
}

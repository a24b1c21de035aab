package publishers

import (
	"time"

	"github.com/samvad-hq/cloudspeakers-go/internal/domain"
)

// Message attribute keys set by the queue and topic publishers.
const (
	AttrTargetID = "target_id"
	AttrItemKind = "item_kind"
)

// Event is the payload published downstream for one new item.
type Event struct {
	TargetID    string      `json:"target_id"`
	TargetName  string      `json:"target_name"`
	Item        domain.Item `json:"item"`
	CollectedAt time.Time   `json:"collected_at"`
}

// NewEvent constructs an Event for the given target and item.
func NewEvent(targetID, targetName string, item domain.Item) Event {
	return Event{
		TargetID:    targetID,
		TargetName:  targetName,
		Item:        item,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes returns the routing attributes of the event, skipping empty values.
func (e Event) attributes() map[string]string {
	attrs := make(map[string]string, 2)
	if e.TargetID != "" {
		attrs[AttrTargetID] = e.TargetID
	}
	if e.Item.Kind != "" {
		attrs[AttrItemKind] = e.Item.Kind
	}
	return attrs
}

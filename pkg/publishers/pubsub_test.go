package publishers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/samvad-hq/cloudspeakers-go/internal/domain"
)

func TestPubSubPublisherPublishes(t *testing.T) {
	server := pstest.NewServer()
	defer server.Close()
	t.Setenv("PUBSUB_EMULATOR_HOST", server.Addr)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admin, err := pubsub.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	defer admin.Close()
	if _, err := admin.CreateTopic(ctx, "items"); err != nil {
		t.Fatalf("create topic: %v", err)
	}

	pub, err := newPubSubPublisher(ctx, PublisherConfig{
		ID:     "gcp",
		Type:   TypePubSub,
		PubSub: &PubSubPublisherConfig{ProjectID: "test-project", Topic: "items"},
	}, nil)
	if err != nil {
		t.Fatalf("newPubSubPublisher: %v", err)
	}
	fanout := NewFanout([]Publisher{pub})
	defer fanout.Close()

	n, err := fanout.Publish(ctx, NewEvent("tijs", "Tijs", domain.Item{ID: "p1", Kind: domain.KindPlaylistItem}))
	if err != nil || n != 1 {
		t.Fatalf("Publish: delivered=%d err=%v", n, err)
	}

	msgs := server.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message on the emulator, got %d", len(msgs))
	}
	if msgs[0].Attributes[AttrTargetID] != "tijs" {
		t.Fatalf("unexpected attributes: %v", msgs[0].Attributes)
	}
	var evt Event
	if err := json.Unmarshal(msgs[0].Data, &evt); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if evt.Item.ID != "p1" {
		t.Fatalf("unexpected payload: %+v", evt)
	}
}

package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/samvad-hq/cloudspeakers-go/internal/domain"
)

type fakeSNSClient struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNSClient) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSNSPublisherPublishes(t *testing.T) {
	client := &fakeSNSClient{}
	pub := &snsPublisher{id: "topic", topicARN: "arn:aws:sns:::topic", client: client, log: noopLogger{}}

	err := pub.Publish(context.Background(), NewEvent("top-albums", "Top albums", domain.Item{ID: "h1", Kind: domain.KindHotlistEntry}))
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.TopicArn); got != "arn:aws:sns:::topic" {
		t.Fatalf("TopicArn = %s", got)
	}
	attr, ok := client.input.MessageAttributes[AttrTargetID]
	if !ok || aws.ToString(attr.StringValue) != "top-albums" || aws.ToString(attr.DataType) != "String" {
		t.Fatalf("target_id attribute missing or wrong: %#v", attr)
	}
	if msg := aws.ToString(client.input.Message); !strings.Contains(msg, `"kind":"hotlist_entry"`) {
		t.Fatalf("Message missing item kind: %s", msg)
	}
}

func TestSNSPublisherPublishError(t *testing.T) {
	pub := &snsPublisher{id: "topic", topicARN: "arn", client: &fakeSNSClient{err: errors.New("boom")}, log: noopLogger{}}

	if err := pub.Publish(context.Background(), NewEvent("t", "T", domain.Item{ID: "h1"})); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSAPI is the slice of the SNS client used by the broadcaster; tests
// substitute a fake.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSBroadcaster publishes broadcast notifications to an SNS topic.
type SNSBroadcaster struct {
	enabled  bool
	topicARN string
	client   SNSAPI
}

// NewSNSBroadcaster creates a broadcaster. The channel is active only when
// enabled and a topic ARN is configured.
func NewSNSBroadcaster(ctx context.Context, region, topicARN string, enabled bool) (*SNSBroadcaster, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SNSBroadcaster{
		enabled:  enabled,
		topicARN: topicARN,
		client:   sns.NewFromConfig(cfg),
	}, nil
}

func (b *SNSBroadcaster) Publish(ctx context.Context, message, subject string) error {
	if !b.enabled || b.topicARN == "" {
		slog.Info("broadcast skipped", "message", message)
		return nil
	}
	if subject == "" {
		subject = DefaultSubject
	}

	out, err := b.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(b.topicARN),
		Message:  aws.String(message),
		Subject:  aws.String(subject),
	})
	if err != nil {
		return fmt.Errorf("publish to %q: %w", b.topicARN, err)
	}
	slog.Info("broadcast published", "message_id", aws.ToString(out.MessageId))
	return nil
}

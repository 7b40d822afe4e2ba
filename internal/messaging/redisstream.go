package messaging

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const consumerIDLength = 10

// NewRedisStreamPublisher creates a watermill publisher backed by Redis Streams.
func NewRedisStreamPublisher(client *redis.Client, logger *zap.Logger) (message.Publisher, error) {
	return redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client:     client,
			Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
		},
		NewZapLoggerAdapter(logger),
	)
}

// NewRedisStreamSubscriber creates a subscriber in consumerGroup. Each process gets a
// unique consumer name so several instances can share the group.
func NewRedisStreamSubscriber(client *redis.Client, consumerGroup string, logger *zap.Logger) (message.Subscriber, error) {
	newID, err := nanoid.Standard(consumerIDLength)
	if err != nil {
		return nil, err
	}

	return redisstream.NewSubscriber(
		redisstream.SubscriberConfig{
			Client:        client,
			Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
			ConsumerGroup: consumerGroup,
			Consumer:      fmt.Sprintf("%s-%s", consumerGroup, newID()),
		},
		NewZapLoggerAdapter(logger),
	)
}

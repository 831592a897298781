package queue

import (
	"context"
	"errors"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sirupsen/logrus"
)

const flushTimeoutMs = 5000

var _ Publisher = (*Kafka)(nil)

// Kafka publishes page events keyed by page id, so the events of one page keep
// their order within a partition.
type Kafka struct {
	producer *kafka.Producer
	topic    string
	done     chan struct{}
}

func NewKafka(brokers, topic string) (*Kafka, error) {
	if brokers == "" || topic == "" {
		return nil, errors.New("kafka brokers and topic are required")
	}

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
	})
	if err != nil {
		return nil, err
	}

	k := &Kafka{producer: producer, topic: topic, done: make(chan struct{})}
	go k.reportDeliveries()

	return k, nil
}

func (k *Kafka) reportDeliveries() {
	defer close(k.done)

	for e := range k.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				logrus.Errorf("failed to deliver page event %s: %v", ev.Key, ev.TopicPartition.Error)
			}
		case kafka.Error:
			logrus.Errorf("kafka: %v", ev)
		}
	}
}

func (k *Kafka) Publish(ctx context.Context, event *PageEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := event.MarshalBinary()
	if err != nil {
		return err
	}

	return k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.PageID),
		Value:          value,
	}, nil)
}

// Close waits for queued events before shutting the producer down.
func (k *Kafka) Close() error {
	if left := k.producer.Flush(flushTimeoutMs); left > 0 {
		logrus.Warnf("closing kafka producer with %d undelivered page events", left)
	}
	k.producer.Close()
	<-k.done

	return nil
}

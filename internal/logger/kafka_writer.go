package logger

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// KafkaWriter 把每一筆 log 送到 kafka topic, 非同步寫入不阻塞請求
type KafkaWriter struct {
	w       messageWriter
	service []byte
}

func NewKafkaWriter(cfg KafkaConfig, service string) (*KafkaWriter, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, errors.New("kafka log writer requires brokers and topic")
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
		MaxAttempts:  3,
		Async:        true,
	}
	return newKafkaWriter(w, service), nil
}

func newKafkaWriter(w messageWriter, service string) *KafkaWriter {
	return &KafkaWriter{
		w:       w,
		service: []byte(service),
	}
}

// Write zerolog 會重用 p, 送出前需要複製
func (kw *KafkaWriter) Write(p []byte) (n int, err error) {
	value := make([]byte, len(p))
	copy(value, p)

	err = kw.w.WriteMessages(context.Background(), kafka.Message{
		Key:   kw.service,
		Value: value,
	})
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

func (kw *KafkaWriter) Close() error {
	return kw.w.Close()
}

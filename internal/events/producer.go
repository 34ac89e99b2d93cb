package events

import (
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type Type string

const (
	TypeBorrowed Type = "borrowed"
	TypeReturned Type = "returned"
)

// BorrowEvent is the audit record published after a committed borrow or
// return. Publishing is fire-and-forget and never affects the transaction
// outcome.
type BorrowEvent struct {
	EventID  string    `json:"eventId"`
	Type     Type      `json:"type"`
	BorrowID int       `json:"borrowId"`
	BookID   int       `json:"bookId"`
	UserID   int       `json:"userId"`
	At       time.Time `json:"at"`
}

type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.Logger
}

// NewProducer wraps a sarama producer; a nil producer disables publishing.
func NewProducer(producer sarama.SyncProducer, topic string, log *zap.Logger) *Producer {
	return &Producer{
		producer: producer,
		topic:    topic,
		log:      log.Named("events"),
	}
}

func (p *Producer) Publish(ev BorrowEvent) {
	if p == nil || p.producer == nil {
		return
	}
	value, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("marshal event", zap.Error(err))
		return
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		p.log.Error("publish event", zap.String("type", string(ev.Type)), zap.Error(err))
		return
	}
	p.log.Debug("event published", zap.String("type", string(ev.Type)), zap.Int("borrowId", ev.BorrowID))
}

func (p *Producer) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}

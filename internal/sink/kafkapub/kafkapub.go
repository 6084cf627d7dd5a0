// Package kafkapub publishes preheat deltas to Kafka without blocking the
// scroll path.
package kafkapub

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IBM/sarama"

	"github.com/mohammed-shakir/preheat-window/internal/core/model"
)

type DeltaEvent struct {
	View    string         `json:"view"`
	Seq     uint64         `json:"seq"`
	Added   []model.ItemID `json:"added"`
	Removed []model.ItemID `json:"removed"`
	TS      time.Time      `json:"ts"`
}

// Producer is the part of sarama.AsyncProducer the publisher drives.
type Producer interface {
	Input() chan<- *sarama.ProducerMessage
	Errors() <-chan *sarama.ProducerError
	Close() error
}

// Observer records publish outcomes.
type Observer interface {
	Observe(sink, op string, err error)
}

type Config struct {
	Brokers []string
	Topic   string
	View    string
	Queue   int
}

var errQueueFull = errors.New("kafkapub: queue full")

// Publisher implements preheat.Sink. Deltas are queued and sent by a single
// goroutine, so they reach the topic in the order the controller emitted them.
// A full queue drops the delta.
type Publisher struct {
	topic string
	view  string
	log   *slog.Logger
	obs   Observer
	now   func() time.Time

	mu     sync.RWMutex
	closed bool
	events chan DeltaEvent
	seq    atomic.Uint64

	prod    Producer
	stopped chan struct{}
	errDone chan struct{}
}

func New(cfg Config, log *slog.Logger, obs Observer) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafkapub: no brokers")
	}
	sc := sarama.NewConfig()
	sc.Version = sarama.V2_5_0_0
	sc.Producer.Return.Errors = true
	sc.Producer.Return.Successes = false
	sc.Producer.RequiredAcks = sarama.WaitForLocal

	prod, err := sarama.NewAsyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("kafkapub: create async producer: %w", err)
	}
	return NewWithProducer(prod, cfg, log, obs), nil
}

func NewWithProducer(prod Producer, cfg Config, log *slog.Logger, obs Observer) *Publisher {
	if cfg.Queue <= 0 {
		cfg.Queue = 1024
	}
	if log == nil {
		log = slog.Default()
	}
	p := &Publisher{
		topic:   cfg.Topic,
		view:    cfg.View,
		log:     log.With("component", "kafkapub", "topic", cfg.Topic),
		obs:     obs,
		now:     time.Now,
		events:  make(chan DeltaEvent, cfg.Queue),
		prod:    prod,
		stopped: make(chan struct{}),
		errDone: make(chan struct{}),
	}
	go p.pump()
	go p.drainErrors()
	return p
}

func (p *Publisher) pump() {
	defer close(p.stopped)
	for ev := range p.events {
		b, err := json.Marshal(ev)
		if err != nil {
			p.log.Error("marshal delta", "err", err)
			p.observe(err)
			continue
		}
		p.prod.Input() <- &sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.StringEncoder(ev.View),
			Value: sarama.ByteEncoder(b),
		}
		p.observe(nil)
	}
}

func (p *Publisher) drainErrors() {
	defer close(p.errDone)
	for perr := range p.prod.Errors() {
		if perr != nil {
			p.log.Warn("producer error", "err", perr.Err)
			p.observeOp("deliver", perr.Err)
		}
	}
}

func (p *Publisher) observe(err error) { p.observeOp("publish", err) }

func (p *Publisher) observeOp(op string, err error) {
	if p.obs != nil {
		p.obs.Observe("kafka", op, err)
	}
}

// OnPreheatSetChanged enqueues non-empty deltas. It never blocks.
func (p *Publisher) OnPreheatSetChanged(added, removed []model.ItemID) {
	if len(added) == 0 && len(removed) == 0 {
		return
	}
	ev := DeltaEvent{
		View:    p.view,
		Seq:     p.seq.Add(1),
		Added:   slices.Clone(added),
		Removed: slices.Clone(removed),
		TS:      p.now().UTC(),
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	select {
	case p.events <- ev:
	default:
		p.observeOp("enqueue", errQueueFull)
	}
}

// Close flushes queued deltas and closes the producer.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.events)
	p.mu.Unlock()

	<-p.stopped
	err := p.prod.Close()
	<-p.errDone
	if err != nil {
		return fmt.Errorf("kafkapub: close producer: %w", err)
	}
	return nil
}

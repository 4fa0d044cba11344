package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/BloggingApp/post-interaction-service/internal/config"
	"github.com/BloggingApp/post-interaction-service/internal/dto"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const PARTITION_KEY_HEADER = "partition-key"

var (
	errNotAcked     = errors.New("broker did not acknowledge the message")
	errNotConnected = errors.New("rabbitmq channel is not open")
)

const (
	reconnectMinBackoff = time.Second
	reconnectMaxBackoff = 30 * time.Second
)

// MQConn is the process-wide event publisher. It is created once at startup with New,
// shared by every request, and released with Close on shutdown. A lost connection
// is re-established in the background; publishes fail fast until it is back.
type MQConn struct {
	logger *zap.Logger
	cfg    config.RabbitMQConfig
	ring   *Ring

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel

	done      chan struct{}
	closeOnce sync.Once
}

func New(cfg config.RabbitMQConfig, logger *zap.Logger) (*MQConn, error) {
	mq := newMQConn(cfg, logger)

	conn, ch, err := mq.open(nil)
	if err != nil {
		return nil, err
	}
	mq.conn, mq.ch = conn, ch
	mq.watch(conn, ch)

	return mq, nil
}

func newMQConn(cfg config.RabbitMQConfig, logger *zap.Logger) *MQConn {
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 10 * time.Second
	}
	if cfg.ExchangeType == "" {
		cfg.ExchangeType = amqp.ExchangeDirect
	}

	return &MQConn{
		logger: logger,
		cfg:    cfg,
		ring:   NewRing(cfg.Partitions, 0),
		done:   make(chan struct{}),
	}
}

// dial bounds the TCP connect and the AMQP handshake by the publish timeout.
func (mq *MQConn) dial() (*amqp.Connection, error) {
	return amqp.DialConfig(mq.cfg.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(mq.cfg.PublishTimeout),
	})
}

// open dials unless conn is still usable, then opens a confirm-mode channel
// and declares one exchange per topic.
func (mq *MQConn) open(conn *amqp.Connection) (*amqp.Connection, *amqp.Channel, error) {
	if conn == nil || conn.IsClosed() {
		var err error
		if conn, err = mq.dial(); err != nil {
			return nil, nil, err
		}
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	if err := ch.Confirm(false); err != nil {
		ch.Close()
		return nil, nil, err
	}

	for _, topic := range Topics {
		if err := ch.ExchangeDeclare(string(topic), mq.cfg.ExchangeType, true, false, false, false, nil); err != nil {
			ch.Close()
			return nil, nil, err
		}
	}

	return conn, ch, nil
}

// watch starts a reconnect once the connection or the channel closes.
func (mq *MQConn) watch(conn *amqp.Connection, ch *amqp.Channel) {
	connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))
	chClosed := ch.NotifyClose(make(chan *amqp.Error, 1))

	go func() {
		var reason *amqp.Error
		select {
		case reason = <-connClosed:
		case reason = <-chClosed:
		case <-mq.done:
			return
		}
		if mq.isClosed() {
			return
		}

		if reason != nil {
			mq.logger.Warn("rabbitmq channel closed", zap.String("reason", reason.Reason), zap.Int("code", reason.Code))
		} else {
			mq.logger.Warn("rabbitmq channel closed")
		}
		mq.reconnect()
	}()
}

func (mq *MQConn) reconnect() {
	backoff := reconnectMinBackoff
	for {
		mq.mu.Lock()
		current := mq.conn
		mq.mu.Unlock()

		conn, ch, err := mq.open(current)
		if err == nil {
			mq.mu.Lock()
			if mq.isClosed() {
				mq.mu.Unlock()
				ch.Close()
				conn.Close()
				return
			}
			mq.conn, mq.ch = conn, ch
			mq.mu.Unlock()

			mq.logger.Info("reconnected to rabbitmq")
			mq.watch(conn, ch)
			return
		}

		mq.logger.Warn("failed to reconnect to rabbitmq", zap.Duration("retry_in", backoff), zap.Error(err))
		select {
		case <-mq.done:
			return
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, reconnectMaxBackoff)
	}
}

func (mq *MQConn) isClosed() bool {
	select {
	case <-mq.done:
		return true
	default:
		return false
	}
}

func (mq *MQConn) channel() (*amqp.Channel, error) {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	if mq.ch == nil || mq.ch.IsClosed() {
		return nil, errNotConnected
	}
	return mq.ch, nil
}

// Publish sends payload as JSON to the topic's exchange and waits for the broker
// confirm, bounded by the publish timeout. It reports false on any failure; the
// failure is logged and never retried.
func (mq *MQConn) Publish(ctx context.Context, topic Topic, key string, payload interface{}) bool {
	if err := mq.publish(ctx, topic, key, payload); err != nil {
		mq.logger.Warn(
			"failed to publish event",
			zap.String("topic", string(topic)),
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}

	mq.logger.Debug("event published", zap.String("topic", string(topic)), zap.String("key", key))
	return true
}

func (mq *MQConn) publish(ctx context.Context, topic Topic, key string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	// The triggering write has already committed, so the caller's cancellation must not cut the wait short.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mq.cfg.PublishTimeout)
	defer cancel()

	ch, err := mq.channel()
	if err != nil {
		return err
	}

	confirmation, err := ch.PublishWithDeferredConfirmWithContext(
		ctx,
		string(topic),
		mq.RoutingKey(key),
		false,
		false,
		newPublishing(key, body, time.Now()),
	)
	if err != nil {
		return err
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return errNotAcked
	}

	return nil
}

// RoutingKey is the partition index that owns key.
func (mq *MQConn) RoutingKey(key string) string {
	return strconv.Itoa(mq.ring.Partition(key))
}

func newPublishing(key string, body []byte, now time.Time) amqp.Publishing {
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    now.UTC(),
		Headers:      amqp.Table{PARTITION_KEY_HEADER: key},
		Body:         body,
	}
}

func (mq *MQConn) PublishUserRegistered(ctx context.Context, userID int64, registeredAt time.Time) bool {
	return mq.Publish(ctx, USER_REGISTRATION_TOPIC, UserKey(userID), dto.NewMQUserRegistrationMsg(userID, registeredAt))
}

func (mq *MQConn) Close() error {
	mq.closeOnce.Do(func() { close(mq.done) })

	mq.mu.Lock()
	defer mq.mu.Unlock()

	if mq.ch != nil && !mq.ch.IsClosed() {
		if err := mq.ch.Close(); err != nil {
			mq.logger.Sugar().Errorf("failed to close rabbitmq channel: %s", err.Error())
		}
	}
	if mq.conn != nil && !mq.conn.IsClosed() {
		return mq.conn.Close()
	}
	return nil
}

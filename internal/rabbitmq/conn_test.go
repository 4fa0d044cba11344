package rabbitmq

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/BloggingApp/post-interaction-service/internal/config"
	"github.com/BloggingApp/post-interaction-service/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublish_FailsFastWithoutChannel(t *testing.T) {
	mq := newMQConn(config.RabbitMQConfig{Partitions: 4, PublishTimeout: 5 * time.Second}, zap.NewNop())

	start := time.Now()
	ok := mq.Publish(context.Background(), POST_VIEW_TOPIC, PostUserKey(1, 2), dto.MQPostViewMsg{UserID: 2, PostID: 1})
	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second)

	require.NoError(t, mq.Close())
	require.NoError(t, mq.Close())
	assert.True(t, mq.isClosed())
}

func TestNew_HandshakeBoundedByPublishTimeout(t *testing.T) {
	// accepts TCP but never answers the AMQP handshake
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()
	t.Cleanup(func() {
		select {
		case conn := <-accepted:
			conn.Close()
		default:
		}
	})

	start := time.Now()
	_, err = New(config.RabbitMQConfig{
		URL:            "amqp://guest:guest@" + ln.Addr().String() + "/",
		Partitions:     4,
		PublishTimeout: 200 * time.Millisecond,
	}, zap.NewNop())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

package rabbitmq_client

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/nebula-marketing/lead-importer/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenConnection struct {
	closed int
}

func (c *brokenConnection) Channel() (*amqp.Channel, error) {
	return nil, amqp.ErrChannelMax
}

func (c *brokenConnection) Close() error {
	c.closed++
	return nil
}

func TestOpenChannel_ClosesConnectionOnFailure(t *testing.T) {
	client := New(&config.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	conn := &brokenConnection{}

	ch, err := client.openChannel(conn)

	require.Error(t, err)
	assert.True(t, errors.Is(err, amqp.ErrChannelMax))
	assert.Nil(t, ch)
	assert.Equal(t, 1, conn.closed)
}

package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/flashmind-analytics-api/internal/dto"
)

func TestBroadcastPublisherSendsOverRedis(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	ctx := context.Background()
	subscription := client.Subscribe(ctx, "flashmind.analytics.dashboard")
	defer subscription.Close()
	_, err = subscription.Receive(ctx)
	require.NoError(t, err)

	publisher := NewBroadcastPublisher(nil, client, "flashmind.analytics.dashboard")
	require.NotNil(t, publisher)

	event := dto.DashboardComputedEvent{Scope: "professor:1", TotalQuizzes: 2, FailedQuizzes: []string{}, GeneratedAt: testNow}
	require.NoError(t, publisher.PublishDashboardComputed(ctx, event))

	select {
	case message := <-subscription.Channel():
		var received dto.DashboardComputedEvent
		require.NoError(t, json.Unmarshal([]byte(message.Payload), &received))
		require.Equal(t, "professor:1", received.Scope)
		require.Equal(t, 2, received.TotalQuizzes)
	case <-time.After(2 * time.Second):
		t.Fatal("dashboard event not delivered")
	}
}

func TestNewBroadcastPublisherWithoutTransport(t *testing.T) {
	require.Nil(t, NewBroadcastPublisher(nil, nil, "subject"))
}

package natsstan

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	stan "github.com/nats-io/stan.go"
	"github.com/stretchr/testify/require"
)

func TestClientIDFor(t *testing.T) {
	require.Equal(t, "fixed", ClientIDFor("fixed", "storefront"))

	a := ClientIDFor("", "storefront")
	b := ClientIDFor("", "storefront")
	require.True(t, strings.HasPrefix(a, "storefront-"))
	require.NotEqual(t, a, b)
}

func TestSubscribe_DeliversAndAcks(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		url = "nats://localhost:4223"
	}
	cluster := os.Getenv("STAN_CLUSTER_ID")
	if cluster == "" {
		cluster = "tarana-cluster"
	}
	pub, err := stan.Connect(cluster, ClientIDFor("", "test-pub"), stan.NatsURL(url))
	if err != nil {
		t.Skipf("NATS Streaming not available: %v", err)
	}
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subject := "cart.commands.test." + time.Now().Format("150405.000")
	got := make(chan []byte, 1)
	sub := &Subscriber{ClusterID: cluster, URL: url, Subject: subject, Durable: "test-durable"}
	require.NoError(t, sub.Subscribe(ctx, func(_ context.Context, raw []byte) error {
		got <- raw
		return nil
	}))

	require.NoError(t, pub.Publish(subject, []byte(`{"op":"open"}`)))
	select {
	case raw := <-got:
		require.JSONEq(t, `{"op":"open"}`, string(raw))
	case <-time.After(5 * time.Second):
		t.Fatal("command not delivered")
	}
}

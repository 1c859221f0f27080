package feed

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tac_converter/internal/logging"
)

// TestListener needs a running NATS server at NATS_TEST_URL.
func TestListener(t *testing.T) {
	url := os.Getenv("NATS_TEST_URL")
	if url == "" {
		t.Skip("NATS_TEST_URL not set")
	}

	nc, err := Connect(url, logging.Discard())
	require.NoError(t, err)
	defer nc.Close()

	p, _ := newTestProcessor(nil, EncodingMsgpackZstd)
	results, err := nc.SubscribeSync("test.out.>")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewListener(nc, p, "test.raw", "", logging.Discard()).Run(ctx) }()

	// Request until the listener subscription is live.
	var reply []byte
	require.Eventually(t, func() bool {
		msg, err := nc.Request("test.raw", []byte("TAF EFHK 010825Z 0109/0209 25015KT 9999 FEW020="), 200*time.Millisecond)
		if err != nil {
			return false
		}
		reply = msg.Data
		return true
	}, 5*time.Second, 50*time.Millisecond)

	var decoded map[string]any
	require.NoError(t, Decode(EncodingMsgpackZstd, reply, &decoded))
	assert.Equal(t, "TAF", decoded["family"])

	published, err := results.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "test.out.taf", published.Subject)
	assert.Equal(t, "application/msgpack+zstd", published.Header.Get("Content-Type"))

	cancel()
	assert.NoError(t, <-done)
}

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	flushed  bool
}

func (p *recordingPublisher) PublishMsg(m *nats.Msg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, m.Subject)
	return nil
}

func (p *recordingPublisher) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flushed = true
	return nil
}

// drainingSub delivers late messages once drained, then reports closed.
type drainingSub struct {
	msgs   chan *nats.Msg
	late   []*nats.Msg
	status chan nats.SubStatus
}

func (s *drainingSub) Drain() error {
	go func() {
		for _, m := range s.late {
			s.msgs <- m
		}
		s.status <- nats.SubscriptionClosed
		close(s.status)
	}()
	return nil
}

func (s *drainingSub) StatusChanged(...nats.SubStatus) <-chan nats.SubStatus {
	return s.status
}

func TestListenerDrainHandlesPending(t *testing.T) {
	p, _ := newTestProcessor(nil, EncodingJSON)
	pub := &recordingPublisher{}
	l := NewListener(nil, p, "tac.raw", "", logging.Discard())
	l.pub = pub

	raw := func(tac string) *nats.Msg {
		return &nats.Msg{Subject: "tac.raw", Data: []byte(tac)}
	}
	msgs := make(chan *nats.Msg, 4)
	// Buffered before the shutdown.
	msgs <- raw("METAR EFHK 051050Z 22005KT CAVOK 15/08 Q1021 NOSIG=")
	sub := &drainingSub{
		msgs:   msgs,
		late:   []*nats.Msg{raw("TAF EFHK 010825Z 0109/0209 25015KT 9999 FEW020=")},
		status: make(chan nats.SubStatus, 1),
	}

	require.NoError(t, l.drain(context.Background(), sub, msgs))
	assert.ElementsMatch(t, []string{"test.out.metar", "test.out.taf"}, pub.subjects)
	assert.True(t, pub.flushed)
	assert.Empty(t, msgs)
}

func TestListenerDrainTimeout(t *testing.T) {
	p, _ := newTestProcessor(nil, EncodingJSON)
	pub := &recordingPublisher{}
	l := NewListener(nil, p, "tac.raw", "", logging.Discard())
	l.pub = pub
	l.drainTimeout = 10 * time.Millisecond

	msgs := make(chan *nats.Msg, 1)
	msgs <- &nats.Msg{Subject: "tac.raw", Data: []byte("METAR EFHK 051050Z 22005KT CAVOK 15/08 Q1021 NOSIG=")}
	done := make(chan error, 1)
	go func() { done <- l.drain(context.Background(), stuckSub{}, msgs) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("drain did not give up")
	}
	assert.Equal(t, []string{"test.out.metar"}, pub.subjects)
	assert.True(t, pub.flushed)
}

// stuckSub never finishes draining.
type stuckSub struct{}

func (stuckSub) Drain() error { return nil }

func (stuckSub) StatusChanged(...nats.SubStatus) <-chan nats.SubStatus {
	return make(chan nats.SubStatus)
}

package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Connect opens a NATS connection that reconnects forever and logs
// connection state changes.
func Connect(url string, logger *slog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("tac_converter"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return nc, nil
}

// publisher is the part of *nats.Conn used to send results.
type publisher interface {
	PublishMsg(m *nats.Msg) error
	Flush() error
}

// subscription is the part of *nats.Subscription used on shutdown.
type subscription interface {
	Drain() error
	StatusChanged(statuses ...nats.SubStatus) <-chan nats.SubStatus
}

// Listener subscribes to raw TAC messages and publishes conversion results.
type Listener struct {
	nc           *nats.Conn
	pub          publisher
	proc         *Processor
	subject      string
	queue        string
	logger       *slog.Logger
	buffer       int
	drainTimeout time.Duration
}

// NewListener creates a listener on subject. A non-empty queue joins a
// queue group so several listeners share the load.
func NewListener(nc *nats.Conn, proc *Processor, subject, queue string, logger *slog.Logger) *Listener {
	return &Listener{
		nc:           nc,
		pub:          nc,
		proc:         proc,
		subject:      subject,
		queue:        queue,
		logger:       logger,
		buffer:       256,
		drainTimeout: 30 * time.Second,
	}
}

// Run handles messages until ctx is cancelled, then drains the
// subscription. Messages delivered before the drain completes are still
// converted and published.
func (l *Listener) Run(ctx context.Context) error {
	msgs := make(chan *nats.Msg, l.buffer)

	var sub *nats.Subscription
	var err error
	if l.queue != "" {
		sub, err = l.nc.ChanQueueSubscribe(l.subject, l.queue, msgs)
	} else {
		sub, err = l.nc.ChanSubscribe(l.subject, msgs)
	}
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", l.subject, err)
	}
	l.logger.Info("listening", "subject", l.subject, "queue", l.queue, "encoding", l.proc.Encoding())

	for {
		select {
		case <-ctx.Done():
			return l.drain(context.WithoutCancel(ctx), sub, msgs)
		case m := <-msgs:
			l.handle(ctx, m)
		}
	}
}

// drain unsubscribes, handles what the subscription still delivers until
// it is closed, then flushes the results.
func (l *Listener) drain(ctx context.Context, sub subscription, msgs <-chan *nats.Msg) error {
	closed := sub.StatusChanged(nats.SubscriptionClosed)
	if err := sub.Drain(); err != nil {
		l.logger.Warn("drain subscription", "error", err)
	}

	timeout := time.NewTimer(l.drainTimeout)
	defer timeout.Stop()

	handled := 0
wait:
	for {
		select {
		case m := <-msgs:
			l.handle(ctx, m)
			handled++
		case <-closed:
			break wait
		case <-timeout.C:
			l.logger.Warn("subscription drain timed out", "timeout", l.drainTimeout)
			break wait
		}
	}

	// The buffer may still hold messages delivered before the close.
	for {
		select {
		case m := <-msgs:
			l.handle(ctx, m)
			handled++
		default:
			l.logger.Info("subscription drained", "subject", l.subject, "handled", handled)
			return l.pub.Flush()
		}
	}
}

func (l *Listener) handle(ctx context.Context, m *nats.Msg) {
	d, err := l.proc.Process(ctx, m.Subject, m.Data, m.Header)
	if err != nil {
		l.logger.Warn("process message", "subject", m.Subject, "error", err)
		return
	}

	out := nats.NewMsg(d.Subject)
	out.Data = d.Payload
	out.Header.Set("Content-Type", l.proc.Encoding().ContentType())
	out.Header.Set("Tac-Status", d.Output.Status)
	if err := l.pub.PublishMsg(out); err != nil {
		l.logger.Error("publish result", "subject", d.Subject, "error", err)
		return
	}
	l.proc.counter.FeedMessage("published")

	if m.Reply != "" {
		if err := m.Respond(d.Payload); err != nil {
			l.logger.Warn("respond", "reply", m.Reply, "error", err)
		}
	}
	l.logger.Debug("converted", "id", d.Output.ID, "family", d.Output.Family, "status", d.Output.Status)
}

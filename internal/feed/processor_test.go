package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tac_converter/internal/converter"
	"tac_converter/internal/logging"
	"tac_converter/internal/storage"
)

var epoch = time.Date(2024, time.March, 5, 10, 55, 0, 0, time.UTC)

type memSink struct {
	mu      sync.Mutex
	records []storage.Record
	err     error
}

func (s *memSink) Store(_ context.Context, r storage.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, r)
	return nil
}

type countMap struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *countMap) FeedMessage(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[outcome]++
}

func newTestProcessor(sink storage.Sink, enc Encoding) (*Processor, *countMap) {
	counts := &countMap{}
	p := NewProcessor(ProcessorConfig{
		Converter: converter.New(converter.WithLogger(logging.Discard())),
		Sink:      sink,
		Encoding:  enc,
		OutPrefix: "test.out",
		Clock:     clockwork.NewFakeClockAt(epoch),
		Logger:    logging.Discard(),
		Counter:   counts,
	})
	return p, counts
}

func TestProcess(t *testing.T) {
	sink := &memSink{}
	p, counts := newTestProcessor(sink, EncodingJSON)

	d, err := p.Process(context.Background(), "tac.raw", []byte(" METAR EFHK 051050Z 22005KT CAVOK 15/08 Q1021 NOSIG=\n"), nil)
	require.NoError(t, err)

	assert.Equal(t, "test.out.metar", d.Subject)
	assert.Equal(t, "METAR", d.Output.Family)
	assert.Equal(t, "SUCCESS", d.Output.Status)
	assert.Equal(t, epoch, d.Output.ReceivedAt)
	assert.Equal(t, "EFHK", d.Output.Message.Location())

	var decoded map[string]any
	require.NoError(t, Decode(EncodingJSON, d.Payload, &decoded))
	assert.Equal(t, d.Output.ID, decoded["id"])
	assert.Equal(t, "tac.raw", decoded["subject"])

	require.Len(t, sink.records, 1)
	assert.Equal(t, d.Output.ID, sink.records[0].ID.String())
	assert.Equal(t, "feed", sink.records[0].Source)
	assert.Equal(t, "METAR EFHK 051050Z 22005KT CAVOK 15/08 Q1021 NOSIG=", sink.records[0].RawTAC)
	assert.Equal(t, map[string]int{"converted": 1, "stored": 1}, counts.counts)
}

func TestProcessHeaders(t *testing.T) {
	p, _ := newTestProcessor(nil, EncodingMsgpackZstd)

	h := nats.Header{}
	h.Set(HeaderFamily, "metar")
	h.Set(HeaderMode, "lenient")
	hints, err := p.Hints(h)
	require.NoError(t, err)
	assert.True(t, hints.Lenient())
	assert.Equal(t, "METAR", hints.Family.String())

	bad := nats.Header{}
	bad.Set(HeaderFamily, "NOTAM")
	_, err = p.Process(context.Background(), "tac.raw", []byte("METAR EFHK 051050Z CAVOK="), bad)
	assert.Error(t, err)
}

func TestProcessUnknownFamily(t *testing.T) {
	sink := &memSink{}
	p, _ := newTestProcessor(sink, EncodingMsgpack)

	d, err := p.Process(context.Background(), "tac.raw", []byte("HELLO WORLD"), nil)
	require.NoError(t, err)
	assert.Equal(t, "test.out.unknown", d.Subject)
	assert.Equal(t, "FAIL", d.Output.Status)
	assert.Equal(t, converter.ErrUnknownFamily.Error(), d.Output.Error)
	assert.Nil(t, d.Output.Message)

	var decoded map[string]any
	require.NoError(t, Decode(EncodingMsgpack, d.Payload, &decoded))
	assert.Equal(t, "UNKNOWN", decoded["family"])
	assert.Len(t, sink.records, 1)
}

func TestProcessStoreFailureStillDelivers(t *testing.T) {
	sink := &memSink{err: errors.New("disk full")}
	p, counts := newTestProcessor(sink, EncodingJSON)

	d, err := p.Process(context.Background(), "tac.raw", []byte("TAF EFHK 010825Z 0109/0209 25015KT 9999 FEW020="), nil)
	require.NoError(t, err)
	assert.Equal(t, "test.out.taf", d.Subject)
	assert.Equal(t, 1, counts.counts["store_error"])
}

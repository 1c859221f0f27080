// Package feed converts TAC messages arriving on a NATS subject and
// publishes the results.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"

	"tac_converter/internal/conversion"
	"tac_converter/internal/converter"
	"tac_converter/internal/model"
	"tac_converter/internal/storage"
)

// Headers read from incoming messages to override the default hints.
const (
	HeaderFamily = "Tac-Family"
	HeaderMode   = "Tac-Mode"
)

// Counter receives feed message outcomes.
type Counter interface {
	FeedMessage(outcome string)
}

type nopCounter struct{}

func (nopCounter) FeedMessage(string) {}

// Output is the published conversion result.
type Output struct {
	ID         string            `json:"id"`
	ReceivedAt time.Time         `json:"received_at"`
	Subject    string            `json:"subject"`
	Family     string            `json:"family"`
	Status     string            `json:"status"`
	Message    model.Message     `json:"message,omitempty"`
	Issues     conversion.Issues `json:"issues,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Delivery is an encoded output and the subject to publish it on.
type Delivery struct {
	Subject string
	Payload []byte
	Output  Output
}

// Processor converts raw messages into deliveries.
type Processor struct {
	conv      *converter.Converter
	sink      storage.Sink
	hints     conversion.Hints
	encoding  Encoding
	outPrefix string
	clock     clockwork.Clock
	logger    *slog.Logger
	counter   Counter
}

// ProcessorConfig configures NewProcessor. Sink and Counter are optional.
type ProcessorConfig struct {
	Converter *converter.Converter
	Sink      storage.Sink
	Hints     conversion.Hints
	Encoding  Encoding
	OutPrefix string
	Clock     clockwork.Clock
	Logger    *slog.Logger
	Counter   Counter
}

// NewProcessor creates a processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	p := &Processor{
		conv:      cfg.Converter,
		sink:      cfg.Sink,
		hints:     cfg.Hints,
		encoding:  cfg.Encoding,
		outPrefix: cfg.OutPrefix,
		clock:     cfg.Clock,
		logger:    cfg.Logger,
		counter:   cfg.Counter,
	}
	if p.conv == nil {
		p.conv = converter.New()
	}
	if p.clock == nil {
		p.clock = clockwork.NewRealClock()
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.counter == nil {
		p.counter = nopCounter{}
	}
	if p.outPrefix == "" {
		p.outPrefix = "tac.converted"
	}
	return p
}

// Hints returns the hints for a message, applying header overrides to the
// defaults.
func (p *Processor) Hints(header nats.Header) (conversion.Hints, error) {
	h := p.hints
	if header == nil {
		return h, nil
	}
	if v := header.Get(HeaderFamily); v != "" {
		f, err := conversion.ParseFamily(v)
		if err != nil {
			return h, err
		}
		h.Family = f
	}
	if v := header.Get(HeaderMode); v != "" {
		m, err := conversion.ParseParsingMode(v)
		if err != nil {
			return h, err
		}
		h.Mode = m
	}
	return h, nil
}

// Process converts data received on subject. The record is stored before
// the delivery is returned; a storage failure is logged and counted but
// does not stop the delivery.
func (p *Processor) Process(ctx context.Context, subject string, data []byte, header nats.Header) (Delivery, error) {
	received := p.clock.Now().UTC()
	tac := strings.TrimSpace(string(data))

	out := Output{
		ReceivedAt: received,
		Subject:    subject,
	}

	hints, err := p.Hints(header)
	if err != nil {
		p.counter.FeedMessage("error")
		return Delivery{}, fmt.Errorf("bad headers: %w", err)
	}
	if hints.TranslationTime.IsZero() {
		hints.TranslationTime = received
	}

	parsed, err := p.conv.Parse(tac, hints)
	if err != nil {
		if !errors.Is(err, converter.ErrUnknownFamily) {
			p.counter.FeedMessage("error")
			return Delivery{}, err
		}
		parsed = converter.Parsed{Family: conversion.FamilyUnknown, Status: conversion.StatusFail}
		out.Error = err.Error()
	}
	p.counter.FeedMessage("converted")

	rec, err := storage.NewRecord(parsed, tac, "feed", received)
	if err != nil {
		p.counter.FeedMessage("error")
		return Delivery{}, err
	}
	out.ID = rec.ID.String()
	out.Family = parsed.Family.String()
	out.Status = parsed.Status.String()
	out.Message = parsed.Message
	out.Issues = parsed.Issues

	if p.sink != nil {
		if err := p.sink.Store(ctx, rec); err != nil {
			p.counter.FeedMessage("store_error")
			p.logger.Error("store conversion", "id", out.ID, "error", err)
		} else {
			p.counter.FeedMessage("stored")
		}
	}

	payload, err := Encode(p.encoding, out)
	if err != nil {
		p.counter.FeedMessage("error")
		return Delivery{}, fmt.Errorf("encode output: %w", err)
	}

	return Delivery{
		Subject: p.OutSubject(parsed.Family),
		Payload: payload,
		Output:  out,
	}, nil
}

// OutSubject is the subject results of a family are published on.
func (p *Processor) OutSubject(f conversion.Family) string {
	return p.outPrefix + "." + strings.ToLower(f.String())
}

// Encoding returns the payload encoding.
func (p *Processor) Encoding() Encoding {
	return p.encoding
}

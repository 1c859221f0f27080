package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Encoding selects the payload format of published results.
type Encoding int

const (
	EncodingJSON Encoding = iota
	EncodingMsgpack
	EncodingMsgpackZstd
)

var encodingNames = map[Encoding]string{
	EncodingJSON:        "json",
	EncodingMsgpack:     "msgpack",
	EncodingMsgpackZstd: "msgpack+zstd",
}

func (e Encoding) String() string {
	if name, ok := encodingNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Encoding(%d)", int(e))
}

// ContentType is the header value published with each payload.
func (e Encoding) ContentType() string {
	switch e {
	case EncodingMsgpack:
		return "application/msgpack"
	case EncodingMsgpackZstd:
		return "application/msgpack+zstd"
	default:
		return "application/json"
	}
}

// ParseEncoding parses an encoding name.
func ParseEncoding(s string) (Encoding, error) {
	for e, name := range encodingNames {
		if name == s {
			return e, nil
		}
	}
	return EncodingJSON, fmt.Errorf("unknown encoding %q", s)
}

// Encoders are safe for concurrent EncodeAll and DecodeAll calls.
var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
	zstdErr     error
)

func zstdCodec() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEncoder, zstdErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if zstdErr != nil {
			return
		}
		zstdDecoder, zstdErr = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	})
	return zstdEncoder, zstdDecoder, zstdErr
}

// Encode marshals v in the given encoding. Msgpack output uses the json
// struct tags so both formats share field names.
func Encode(e Encoding, v any) ([]byte, error) {
	switch e {
	case EncodingJSON:
		return json.Marshal(v)
	case EncodingMsgpack, EncodingMsgpackZstd:
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("msgpack encode: %w", err)
		}
		if e == EncodingMsgpack {
			return buf.Bytes(), nil
		}
		zw, _, err := zstdCodec()
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return zw.EncodeAll(buf.Bytes(), nil), nil
	}
	return nil, fmt.Errorf("unsupported encoding %s", e)
}

// Decode unmarshals b produced by Encode into v.
func Decode(e Encoding, b []byte, v any) error {
	switch e {
	case EncodingJSON:
		return json.Unmarshal(b, v)
	case EncodingMsgpackZstd:
		_, zr, err := zstdCodec()
		if err != nil {
			return fmt.Errorf("zstd: %w", err)
		}
		if b, err = zr.DecodeAll(b, nil); err != nil {
			return fmt.Errorf("zstd decode: %w", err)
		}
		fallthrough
	case EncodingMsgpack:
		dec := msgpack.NewDecoder(bytes.NewReader(b))
		dec.SetCustomStructTag("json")
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("msgpack decode: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported encoding %s", e)
}

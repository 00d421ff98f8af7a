package apiconnect

import (
	"bytes"
	"encoding/json"
	"errors"

	"connectrpc.com/connect"
)

// jsonCodec encodes messages with encoding/json. Decoding rejects unknown
// fields and trailing data.
type jsonCodec struct {
	name string
}

var (
	_ connect.Codec = jsonCodec{}

	codecOptions = []connect.Option{
		connect.WithCodec(jsonCodec{name: "json"}),
		connect.WithCodec(jsonCodec{name: "json; charset=utf-8"}),
	}
)

func (c jsonCodec) Name() string {
	return c.name
}

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(msg); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after message")
	}
	return nil
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	out := make([]connect.HandlerOption, 0, len(codecOptions)+len(opts))
	for _, o := range codecOptions {
		out = append(out, o)
	}
	return append(out, opts...)
}

// clientOptions selects the plain JSON codec for clients.
func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{codecOptions[0]}, opts...)
}

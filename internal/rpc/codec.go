package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CODEC_NAME is the content subtype both ends negotiate: application/grpc+json.
const CODEC_NAME = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CODEC_NAME
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

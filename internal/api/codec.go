// Package api defines the wire messages and Connect plumbing for the trip
// ledger RPC services.
//
// Messages are plain Go structs carried as JSON, so the package registers its
// own codec under the "json" name in place of Connect's protobuf-backed one.
// Amounts travel as decimal strings ("42.5") and are converted to integer
// minor units by the service layer.
package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// codecName matches the content subtype Connect clients send for JSON
// ("application/json"), so browser and curl callers work unchanged.
const codecName = "json"

type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return codecName }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// WithJSON returns the option that makes handlers and clients speak the
// package's JSON messages. Constructors in this package apply it already.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}

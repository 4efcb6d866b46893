// Package chat implements the response-normalization pipeline for the
// Gemini Data Analytics streamed chat protocol: proto-composite
// normalization, table extraction, display formatting, and reply
// accumulation.
package chat

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Normalize converts a proto composite value into a plain Go structure:
// struct values become map[string]any, list values become []any, scalars
// map to float64/string/bool, null and nil become nil. The conversion is
// recursive and never fails.
func Normalize(v *structpb.Value) any {
	if v == nil {
		return nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StructValue:
		return NormalizeStruct(k.StructValue)
	case *structpb.Value_ListValue:
		values := k.ListValue.GetValues()
		out := make([]any, 0, len(values))
		for _, el := range values {
			out = append(out, Normalize(el))
		}
		return out
	case *structpb.Value_NumberValue:
		return k.NumberValue
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_BoolValue:
		return k.BoolValue
	case *structpb.Value_NullValue:
		return nil
	default:
		return nil
	}
}

// NormalizeStruct converts a proto Struct into a plain map, recursing into
// nested values.
func NormalizeStruct(s *structpb.Struct) map[string]any {
	if s == nil {
		return nil
	}
	fields := s.GetFields()
	out := make(map[string]any, len(fields))
	for key, val := range fields {
		out[key] = Normalize(val)
	}
	return out
}

// NormalizeMessage converts an arbitrary proto message into a plain nested
// structure via its JSON form. When the message cannot be converted the
// failure is logged at warn level and the message's text form is returned
// instead, so callers always get a usable value.
func NormalizeMessage(m proto.Message) any {
	if m == nil {
		return nil
	}
	raw, err := protojson.Marshal(m)
	if err == nil {
		var out any
		if err = json.Unmarshal(raw, &out); err == nil {
			return out
		}
	}
	log.Warn().Err(err).
		Str("type", string(proto.MessageName(m))).
		Msg("could not convert message to plain value, falling back to string form")
	return fmt.Sprint(m)
}

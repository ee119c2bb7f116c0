package transcode

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for transcode events.
var (
	SignalEncodeComplete    = capitan.NewSignal("transcode.encode.complete", "Encode operation finished")
	SignalDecodeComplete    = capitan.NewSignal("transcode.decode.complete", "Decode operation finished")
	SignalRestrictComplete  = capitan.NewSignal("transcode.restrict.complete", "Restrict operation finished")
	SignalCharsetRegistered = capitan.NewSignal("transcode.charset.registered", "Charset added to a registry")
	SignalRestrictorCreated = capitan.NewSignal("transcode.restrictor.created", "Restrictor instantiated")
)

// Keys for typed event data.
var (
	KeyCharset      = capitan.NewStringKey("charset")
	KeyPolicy       = capitan.NewStringKey("policy")
	KeyTypeName     = capitan.NewStringKey("type_name")
	KeySize         = capitan.NewIntKey("size")
	KeyDuration     = capitan.NewDurationKey("duration")
	KeyError        = capitan.NewErrorKey("error")
	KeyHandledCount = capitan.NewIntKey("handled_count")
	KeyFieldCount   = capitan.NewIntKey("field_count")
	KeyAliasCount   = capitan.NewIntKey("alias_count")
)

// emitEncodeComplete emits an event when an encode finishes.
// size is the number of bytes produced.
func emitEncodeComplete(ctx context.Context, charset string, policy ErrorPolicy, size int, duration time.Duration, handled int, err error) {
	fields := conversionFields(charset, policy, size, duration, handled)
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEncodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEncodeComplete, fields...)
	}
}

// emitDecodeComplete emits an event when a decode finishes.
// size is the number of bytes consumed.
func emitDecodeComplete(ctx context.Context, charset string, policy ErrorPolicy, size int, duration time.Duration, handled int, err error) {
	fields := conversionFields(charset, policy, size, duration, handled)
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}

func conversionFields(charset string, policy ErrorPolicy, size int, duration time.Duration, handled int) []capitan.Field {
	return []capitan.Field{
		KeyCharset.Field(charset),
		KeyPolicy.Field(string(policy)),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyHandledCount.Field(handled),
	}
}

// emitRestrictorCreated emits an event when a restrictor is created.
func emitRestrictorCreated(ctx context.Context, typeName string, fields int) {
	capitan.Emit(ctx, SignalRestrictorCreated,
		KeyTypeName.Field(typeName),
		KeyFieldCount.Field(fields),
	)
}

// emitRestrictComplete emits an event when a restrict or check finishes.
func emitRestrictComplete(ctx context.Context, typeName string, duration time.Duration, fieldCount int, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
		KeyFieldCount.Field(fieldCount),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalRestrictComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalRestrictComplete, fields...)
	}
}

// emitCharsetRegistered emits an event when a charset is registered.
func emitCharsetRegistered(ctx context.Context, charset string, aliases int) {
	capitan.Emit(ctx, SignalCharsetRegistered,
		KeyCharset.Field(charset),
		KeyAliasCount.Field(aliases),
	)
}

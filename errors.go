package registers

import (
	"errors"
	"fmt"
)

// Kind classifies a transaction failure by the phase that produced it.
type Kind uint8

const (
	// KindBus marks failures reported by the bus driver itself.
	KindBus Kind = iota + 1
	// KindEncode marks outbound payloads that could not be serialized.
	KindEncode
	// KindDecode marks inbound bytes that could not be deserialized.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindBus:
		return "bus"
	case KindEncode:
		return "encode"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

// Kind-only sentinels. errors.Is(err, ErrBus) matches any transaction error
// whose Kind is KindBus, regardless of the operation and underlying cause.
var (
	ErrBus    = errors.New("bus failure")
	ErrEncode = errors.New("payload encoding failed")
	ErrDecode = errors.New("payload decoding failed")
)

func (k Kind) sentinel() error {
	switch k {
	case KindBus:
		return ErrBus
	case KindEncode:
		return ErrEncode
	case KindDecode:
		return ErrDecode
	}
	return nil
}

// ReadError reports a failed register read. Kind is KindBus when the bus
// transaction failed and KindDecode when the device answered but the payload
// could not be deserialized.
type ReadError struct {
	ID   ID
	Kind Kind
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read register %s: %s: %s", e.ID, e.Kind, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Is reduces the error to its kind: target matches when it is the sentinel
// of e.Kind.
func (e *ReadError) Is(target error) bool { return target == e.Kind.sentinel() }

// WriteError reports a failed register write. Kind is KindEncode when the
// payload could not be serialized (in which case the bus was never touched)
// and KindBus when the transaction failed.
type WriteError struct {
	ID   ID
	Kind Kind
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write register %s: %s: %s", e.ID, e.Kind, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func (e *WriteError) Is(target error) bool { return target == e.Kind.sentinel() }

// CommandError reports a failed command invocation. All three kinds apply:
// encode for the parameters, bus for the transaction, decode for the
// response.
type CommandError struct {
	ID   ID
	Kind Kind
	Err  error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("invoke command %s: %s: %s", e.ID, e.Kind, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

func (e *CommandError) Is(target error) bool { return target == e.Kind.sentinel() }

package i2c

import (
	"context"

	"github.com/mklimuk/registers"
)

// ReadRegister reads reg from the device at addr and decodes the payload in
// place. On the wire this is one transaction: write the effective read id,
// repeated start, read exactly reg.Size() bytes.
func ReadRegister(b Bus, addr uint16, reg registers.Readable) error {
	return ReadRegisterContext(context.Background(), blockingBus{b}, addr, reg)
}

// ReadRegisterContext is ReadRegister honoring ctx through the bus driver.
func ReadRegisterContext(ctx context.Context, b ContextBus, addr uint16, reg registers.Readable) error {
	id := registers.ReadID(reg)
	idBuf := make([]byte, id.Size())
	id.Put(idBuf)
	payload := make([]byte, reg.Size())
	if err := b.WriteRead(ctx, addr, idBuf, payload); err != nil {
		return &registers.ReadError{ID: id, Kind: registers.KindBus, Err: err}
	}
	if err := reg.Decode(payload); err != nil {
		return &registers.ReadError{ID: id, Kind: registers.KindDecode, Err: err}
	}
	return nil
}

// WriteRegister writes reg to the device at addr. The payload is encoded
// before the bus is touched, so an encoding failure never starts a
// transaction. On the wire: one transaction of write(effective write id)
// then write(payload).
func WriteRegister(b Bus, addr uint16, reg registers.Writable) error {
	return WriteRegisterContext(context.Background(), blockingBus{b}, addr, reg)
}

// WriteRegisterContext is WriteRegister honoring ctx through the bus driver.
func WriteRegisterContext(ctx context.Context, b ContextBus, addr uint16, reg registers.Writable) error {
	id := registers.WriteID(reg)
	payload := make([]byte, reg.Size())
	if err := reg.Encode(payload); err != nil {
		return &registers.WriteError{ID: id, Kind: registers.KindEncode, Err: err}
	}
	idBuf := make([]byte, id.Size())
	id.Put(idBuf)
	if err := b.Transact(ctx, addr, registers.WriteOp(idBuf), registers.WriteOp(payload)); err != nil {
		return &registers.WriteError{ID: id, Kind: registers.KindBus, Err: err}
	}
	return nil
}

// InvokeCommand sends cmd to the device at addr and decodes the response
// into resp. Parameters are encoded before the bus is touched. On the wire:
// one transaction of write(id), write(parameters), read(resp.Size() bytes).
// Zero-length parameter and response payloads keep their step in the
// sequence.
func InvokeCommand(b Bus, addr uint16, cmd registers.Command, resp registers.Decoder) error {
	return InvokeCommandContext(context.Background(), blockingBus{b}, addr, cmd, resp)
}

// InvokeCommandContext is InvokeCommand honoring ctx through the bus driver.
func InvokeCommandContext(ctx context.Context, b ContextBus, addr uint16, cmd registers.Command, resp registers.Decoder) error {
	id := cmd.CommandID()
	params := cmd.Params()
	paramBuf := make([]byte, params.Size())
	if err := params.Encode(paramBuf); err != nil {
		return &registers.CommandError{ID: id, Kind: registers.KindEncode, Err: err}
	}
	idBuf := make([]byte, id.Size())
	id.Put(idBuf)
	respBuf := make([]byte, resp.Size())
	err := b.Transact(ctx, addr,
		registers.WriteOp(idBuf),
		registers.WriteOp(paramBuf),
		registers.ReadOp(respBuf),
	)
	if err != nil {
		return &registers.CommandError{ID: id, Kind: registers.KindBus, Err: err}
	}
	if err := resp.Decode(respBuf); err != nil {
		return &registers.CommandError{ID: id, Kind: registers.KindDecode, Err: err}
	}
	return nil
}

package spi

import (
	"context"

	"github.com/mklimuk/registers"
)

// ReadRegister reads reg from the selected device and decodes the payload in
// place. On the wire: one transaction of write(effective read id) then
// read(reg.Size() bytes), inside a single chip-select window.
func ReadRegister(d Device, reg registers.Readable) error {
	return ReadRegisterContext(context.Background(), blockingDevice{d}, reg)
}

// ReadRegisterContext is ReadRegister honoring ctx through the device driver.
func ReadRegisterContext(ctx context.Context, d ContextDevice, reg registers.Readable) error {
	id := registers.ReadID(reg)
	idBuf := make([]byte, id.Size())
	id.Put(idBuf)
	payload := make([]byte, reg.Size())
	if err := d.Transact(ctx, registers.WriteOp(idBuf), registers.ReadOp(payload)); err != nil {
		return &registers.ReadError{ID: id, Kind: registers.KindBus, Err: err}
	}
	if err := reg.Decode(payload); err != nil {
		return &registers.ReadError{ID: id, Kind: registers.KindDecode, Err: err}
	}
	return nil
}

// WriteRegister writes reg to the selected device. The payload is encoded
// before the device is touched, so an encoding failure never starts a
// transaction.
func WriteRegister(d Device, reg registers.Writable) error {
	return WriteRegisterContext(context.Background(), blockingDevice{d}, reg)
}

// WriteRegisterContext is WriteRegister honoring ctx through the device
// driver.
func WriteRegisterContext(ctx context.Context, d ContextDevice, reg registers.Writable) error {
	id := registers.WriteID(reg)
	payload := make([]byte, reg.Size())
	if err := reg.Encode(payload); err != nil {
		return &registers.WriteError{ID: id, Kind: registers.KindEncode, Err: err}
	}
	idBuf := make([]byte, id.Size())
	id.Put(idBuf)
	if err := d.Transact(ctx, registers.WriteOp(idBuf), registers.WriteOp(payload)); err != nil {
		return &registers.WriteError{ID: id, Kind: registers.KindBus, Err: err}
	}
	return nil
}

// InvokeCommand sends cmd to the selected device and decodes the response
// into resp. Parameters are encoded before the device is touched. On the
// wire: one transaction of write(id), write(parameters), read(resp.Size()
// bytes). Zero-length parameter and response payloads keep their step in the
// sequence.
func InvokeCommand(d Device, cmd registers.Command, resp registers.Decoder) error {
	return InvokeCommandContext(context.Background(), blockingDevice{d}, cmd, resp)
}

// InvokeCommandContext is InvokeCommand honoring ctx through the device
// driver.
func InvokeCommandContext(ctx context.Context, d ContextDevice, cmd registers.Command, resp registers.Decoder) error {
	id := cmd.CommandID()
	params := cmd.Params()
	paramBuf := make([]byte, params.Size())
	if err := params.Encode(paramBuf); err != nil {
		return &registers.CommandError{ID: id, Kind: registers.KindEncode, Err: err}
	}
	idBuf := make([]byte, id.Size())
	id.Put(idBuf)
	respBuf := make([]byte, resp.Size())
	err := d.Transact(ctx,
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

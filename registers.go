// Package registers defines the contracts for describing register-addressable
// peripherals — registers, commands and their fixed-size wire payloads — plus
// the failure taxonomy shared by the i2c and spi transaction helpers.
//
// A peripheral driver declares one type per register or command, implements
// the relevant contracts on it, and passes values to the helpers in the i2c
// and spi packages. The library performs no retries, no timing and no
// logging; it only encodes identifiers and payloads and drives a single
// atomic bus transaction per call.
package registers

// Register associates a type with the identifier of a peripheral register.
// RegisterID must be pure: constant across calls and free of side effects.
type Register interface {
	RegisterID() ID
}

// Readable is a register whose payload can be read from the device.
type Readable interface {
	Register
	Decoder
}

// Writable is a register whose payload can be written to the device.
type Writable interface {
	Register
	Encoder
}

// ReadIdentifier overrides the identifier put on the wire when reading.
// Hardware that derives its read opcode from the canonical id, for example
// by setting a direction flag bit, implements this next to Register.
type ReadIdentifier interface {
	ReadRegisterID() ID
}

// WriteIdentifier overrides the identifier put on the wire when writing.
type WriteIdentifier interface {
	WriteRegisterID() ID
}

// ReadID resolves the identifier used on the wire when reading r: the
// ReadIdentifier override when implemented, the canonical id otherwise.
func ReadID(r Register) ID {
	if o, ok := r.(ReadIdentifier); ok {
		return o.ReadRegisterID()
	}
	return r.RegisterID()
}

// WriteID resolves the identifier used on the wire when writing r. Read and
// write overrides are independent; overriding one leaves the other at the
// canonical id.
func WriteID(r Register) ID {
	if o, ok := r.(WriteIdentifier); ok {
		return o.WriteRegisterID()
	}
	return r.RegisterID()
}

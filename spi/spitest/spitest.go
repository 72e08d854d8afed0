// Package spitest provides a scriptable in-memory SPI device for driver
// tests, mirroring i2ctest for the chip-select-addressed world.
package spitest

import (
	"context"
	"sync"

	"github.com/mklimuk/registers"
	"github.com/mklimuk/registers/spi"
)

// Device records transactions and replays responses. The zero value is
// usable: reads return zero bytes and every call succeeds. Safe for
// concurrent use.
type Device struct {
	mu sync.Mutex

	// Err fails every subsequent call once set.
	Err error
	// Responses holds the payloads served to read steps, one per step.
	Responses [][]byte
	// Transactions collects the ops of every call, including failed ones.
	Transactions [][]registers.Op
}

var _ spi.ContextDevice = (*Device)(nil)

func (d *Device) Transact(_ context.Context, ops ...registers.Op) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	recorded := make([]registers.Op, 0, len(ops))
	if d.Err != nil {
		for _, op := range ops {
			if op.IsRead() {
				recorded = append(recorded, registers.ReadOp(make([]byte, len(op.R))))
			} else {
				recorded = append(recorded, registers.WriteOp(cloneBytes(op.W)))
			}
		}
		d.Transactions = append(d.Transactions, recorded)
		return d.Err
	}
	for _, op := range ops {
		if op.IsRead() {
			d.serve(op.R)
			recorded = append(recorded, registers.ReadOp(cloneBytes(op.R)))
		} else {
			recorded = append(recorded, registers.WriteOp(cloneBytes(op.W)))
		}
	}
	d.Transactions = append(d.Transactions, recorded)
	return nil
}

// Blocking returns a view of the same recorder implementing the blocking
// spi.Device interface.
func (d *Device) Blocking() spi.Device { return blockingView{d} }

// Calls returns the number of transactions seen so far.
func (d *Device) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Transactions)
}

func (d *Device) serve(r []byte) {
	if len(d.Responses) == 0 {
		return
	}
	copy(r, d.Responses[0])
	d.Responses = d.Responses[1:]
}

type blockingView struct{ d *Device }

func (v blockingView) Transact(ops ...registers.Op) error {
	return v.d.Transact(context.Background(), ops...)
}

func cloneBytes(p []byte) []byte {
	if p == nil {
		return nil
	}
	c := make([]byte, len(p))
	copy(c, p)
	return c
}

// Package i2ctest provides a scriptable in-memory bus for driver tests. It
// records every transaction it sees and serves canned responses, so a test
// can assert the exact byte sequences a driver puts on the wire without
// hardware.
package i2ctest

import (
	"context"
	"sync"

	"github.com/mklimuk/registers"
	"github.com/mklimuk/registers/i2c"
)

// Transaction is one recorded bus call. A WriteRead call is recorded as a
// write op followed by a read op, which is also its shape on the wire.
type Transaction struct {
	Addr uint16
	Ops  []registers.Op
}

// Bus records calls and replays responses. The zero value is usable: reads
// return zero bytes and every call succeeds. Safe for concurrent use.
//
// Responses are consumed one slice per read step, in order. When a response
// is shorter than the read buffer the remaining bytes stay zero; extra bytes
// are dropped. When Err is set every call fails with it after being
// recorded.
type Bus struct {
	mu sync.Mutex

	// Err fails every subsequent call once set.
	Err error
	// Responses holds the payloads served to read steps.
	Responses [][]byte
	// Transactions collects every call, including failed ones.
	Transactions []Transaction
}

var _ i2c.ContextBus = (*Bus)(nil)

func (b *Bus) WriteRead(_ context.Context, addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		b.record(addr, registers.WriteOp(cloneBytes(w)), registers.ReadOp(make([]byte, len(r))))
		return b.Err
	}
	b.serve(r)
	b.record(addr, registers.WriteOp(cloneBytes(w)), registers.ReadOp(cloneBytes(r)))
	return nil
}

func (b *Bus) Transact(_ context.Context, addr uint16, ops ...registers.Op) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	recorded := make([]registers.Op, 0, len(ops))
	if b.Err != nil {
		for _, op := range ops {
			if op.IsRead() {
				recorded = append(recorded, registers.ReadOp(make([]byte, len(op.R))))
			} else {
				recorded = append(recorded, registers.WriteOp(cloneBytes(op.W)))
			}
		}
		b.record(addr, recorded...)
		return b.Err
	}
	for _, op := range ops {
		if op.IsRead() {
			b.serve(op.R)
			recorded = append(recorded, registers.ReadOp(cloneBytes(op.R)))
		} else {
			recorded = append(recorded, registers.WriteOp(cloneBytes(op.W)))
		}
	}
	b.record(addr, recorded...)
	return nil
}

// Blocking returns a view of the same recorder implementing the blocking
// i2c.Bus interface.
func (b *Bus) Blocking() i2c.Bus { return blockingView{b} }

// Calls returns the number of bus calls seen so far.
func (b *Bus) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Transactions)
}

func (b *Bus) record(addr uint16, ops ...registers.Op) {
	b.Transactions = append(b.Transactions, Transaction{Addr: addr, Ops: ops})
}

func (b *Bus) serve(r []byte) {
	if len(b.Responses) == 0 {
		return
	}
	copy(r, b.Responses[0])
	b.Responses = b.Responses[1:]
}

type blockingView struct{ b *Bus }

func (v blockingView) WriteRead(addr uint16, w, r []byte) error {
	return v.b.WriteRead(context.Background(), addr, w, r)
}

func (v blockingView) Transact(addr uint16, ops ...registers.Op) error {
	return v.b.Transact(context.Background(), addr, ops...)
}

func cloneBytes(p []byte) []byte {
	if p == nil {
		return nil
	}
	c := make([]byte, len(p))
	copy(c, p)
	return c
}

package metrics

import "sync/atomic"

type Counters struct {
	TransactionsProcessed uint64
	TransactionsApproved  uint64
	TransactionsDeclined  uint64
	TransactionsAborted   uint64
	BillerCalls           uint64
	BreakerRejections     uint64
}

func (c *Counters) IncProcessed() {
	atomic.AddUint64(&c.TransactionsProcessed, 1)
}

func (c *Counters) IncApproved() {
	atomic.AddUint64(&c.TransactionsApproved, 1)
}

func (c *Counters) IncDeclined() {
	atomic.AddUint64(&c.TransactionsDeclined, 1)
}

func (c *Counters) IncAborted() {
	atomic.AddUint64(&c.TransactionsAborted, 1)
}

func (c *Counters) IncBillerCalls() {
	atomic.AddUint64(&c.BillerCalls, 1)
}

func (c *Counters) IncBreakerRejections() {
	atomic.AddUint64(&c.BreakerRejections, 1)
}

package axi

import (
	"sync/atomic"
)

// DriverMetrics contains atomic counters for a Driver.
// They may be read concurrently with driver activity.
type DriverMetrics struct {
	// CommandCount is the number of command blocks issued.
	CommandCount atomic.Uint64
	// RoundCount is the number of pipelined block transfer rounds flushed.
	RoundCount atomic.Uint64
	// TxBytes is the number of bytes handed to the transport.
	TxBytes atomic.Uint64
	// RxBytes is the number of bytes received from the transport.
	RxBytes atomic.Uint64
	// ShortReadRecoveryCount is the number of read rounds completed by the
	// follow-up read.
	ShortReadRecoveryCount atomic.Uint64
	// SeqMismatchCount is the number of status blocks with a wrong sequence.
	SeqMismatchCount atomic.Uint64
	// TransportErrCount is the number of failed transport calls.
	TransportErrCount atomic.Uint64
}

func (m *DriverMetrics) incCommandCount() {
	m.CommandCount.Add(1)
}

func (m *DriverMetrics) incRoundCount() {
	m.RoundCount.Add(1)
}

func (m *DriverMetrics) addTxBytes(n int) {
	m.TxBytes.Add(uint64(n)) //nolint:gosec // n is a byte count
}

func (m *DriverMetrics) addRxBytes(n int) {
	m.RxBytes.Add(uint64(n)) //nolint:gosec // n is a byte count
}

func (m *DriverMetrics) incShortReadRecoveryCount() {
	m.ShortReadRecoveryCount.Add(1)
}

func (m *DriverMetrics) incSeqMismatchCount() {
	m.SeqMismatchCount.Add(1)
}

func (m *DriverMetrics) incTransportErrCount() {
	m.TransportErrCount.Add(1)
}

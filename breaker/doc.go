// Package breaker implements the CircuitBreaker and Bulkhead components of
// the command execution engine: per-command-name failure-density tripping
// over a rolling bucketed window, and concurrency isolation via a counting
// semaphore or a bounded worker pool.
//
// # Ecosystem Position
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     Command Submission (engine)                 │
//	├─────────────────────────────────────────────────────────────────┤
//	│                                                                 │
//	│   engine          CircuitBreaker        Bulkhead.Execute        │
//	│   ┌───────┐       ┌──────────────┐      ┌───────────┐           │
//	│   │Execute│──────▶│    Allow     │─────▶│  Acquire  │──┐        │
//	│   └───────┘       └──────────────┘      │  (slot)   │  │        │
//	│                                         └───────────┘  retry    │
//	│                                               │        attempts │
//	│                   Success/Timeout/         Release        │     │
//	│                   Failure  ◀──────────────────────────────┘     │
//	└─────────────────────────────────────────────────────────────────┘
//
// The engine asks the breaker first whether the submission proceeds at
// all; only an admitted submission then takes a bulkhead slot, inside
// which the retry attempts run and report their outcomes to the breaker.
//
// # States
//
// CLOSED → OPEN when rolling-window total events ≥ MinRequestVolume and
// error rate ≥ ErrorThresholdPercent. OPEN → HALF_OPEN after SleepWindow
// elapses. HALF_OPEN → CLOSED on a single success probe; HALF_OPEN → OPEN
// on a single failure probe. ForcedOpen/ForcedClosed always win.
//
// # Core Components
//
//   - [CircuitBreaker]: per-command rolling-window breaker
//   - [Bulkhead]: [IsolationSemaphore] or [IsolationThreadPool] concurrency cap,
//     with an optional ratelimit.Config admission gate ahead of the slot
//     itself (BulkheadConfig.AdmissionRate)
//   - [Registry]: lazy per-command-name breaker+pool ownership
//
// # Error Handling
//
//   - [ErrOpen]: breaker rejected the attempt without running it
//   - [ErrPoolRejected]: bulkhead had no available slot
package breaker

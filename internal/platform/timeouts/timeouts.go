// Package timeouts defines shared timeout constants used by the commands.
package timeouts

import "time"

// TelemetryShutdown limits how long span export may take on exit.
const TelemetryShutdown = 5 * time.Second

// StoreWrite caps a single dataset write.
const StoreWrite = 5 * time.Second

// BatchFinalize caps the batch summary write issued after cancellation.
const BatchFinalize = 2 * time.Second

package generator

import "github.com/louisbranch/encounters/internal/platform/timeouts"

var (
	storeWriteTimeout = timeouts.StoreWrite
	finalizeTimeout   = timeouts.BatchFinalize
)

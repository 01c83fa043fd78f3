package register

import "time"

// NewMemStore exposes the in-memory store to external tests.
func NewMemStore(now func() time.Time) Store { return newMemStore(now) }

package utils

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// DeferredWriter holds writes in memory until they are flushed. With a Target
// it passes writes straight through except between Hold and Release. Each
// Write is kept or dropped whole, so line oriented writers such as a logger
// never lose half a line. Safe for concurrent use.
type DeferredWriter struct {
	// Target receives writes while the writer is not held, and the held
	// writes on Release. Without a Target every write is held.
	Target io.Writer

	// Limit caps the held bytes. Writes that would exceed it are dropped and
	// counted. Zero means no limit.
	Limit int

	mu      sync.Mutex
	buf     bytes.Buffer
	dropped int
	held    bool
}

// Write passes p to the Target or holds it. Held writes never fail so that
// callers do not stop writing.
func (d *DeferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Target != nil && !d.held {
		return d.Target.Write(p)
	}
	if d.Limit > 0 && d.buf.Len()+len(p) > d.Limit {
		d.dropped++
		return len(p), nil
	}
	return d.buf.Write(p)
}

// Hold starts holding writes until Release.
func (d *DeferredWriter) Hold() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.held = true
}

// Release writes everything held to the Target and resumes passing writes
// through.
func (d *DeferredWriter) Release() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.held = false
	if d.Target == nil {
		return nil
	}
	return d.flushLocked(d.Target)
}

// Dropped returns the number of writes discarded since the last flush.
func (d *DeferredWriter) Dropped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

// Flush writes everything held to w, followed by a note when writes were
// dropped.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flushLocked(w)
}

func (d *DeferredWriter) flushLocked(w io.Writer) error {
	dropped := d.dropped
	d.dropped = 0

	if d.buf.Len() > 0 {
		if _, err := d.buf.WriteTo(w); err != nil {
			return err
		}
	}
	if dropped > 0 {
		_, err := fmt.Fprintf(w, "(%d more log lines dropped)\n", dropped)
		return err
	}
	return nil
}

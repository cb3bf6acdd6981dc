package errors

import (
	"fmt"
	"sync"
)

// registry maps codes to their Errno so a decoded response code can be
// turned back into an error.
var registry = struct {
	sync.RWMutex
	codes map[int]*Errno
}{codes: make(map[int]*Errno)}

// Register records e under its code and returns it. A duplicate code is a
// programming error and panics at init time.
func Register(e *Errno) *Errno {
	registry.Lock()
	defer registry.Unlock()

	if prev, dup := registry.codes[e.Code]; dup {
		panic(fmt.Sprintf("errno %d registered twice (%q, %q)", e.Code, prev.MessageEN, e.MessageEN))
	}
	registry.codes[e.Code] = e
	return e
}

// Lookup returns the Errno registered for code.
func Lookup(code int) (*Errno, bool) {
	registry.RLock()
	defer registry.RUnlock()

	e, ok := registry.codes[code]
	return e, ok
}

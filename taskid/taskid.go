// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package taskid generates identifiers for live threads (spec.md §3 "native
// task id", §4.E). It is a narrowed adaptation of the teacher's uniqueid
// package: uniqueid hands out 16-byte globally-unique identifiers by
// reusing a random prefix across a 16-bit counter; a thread handle only
// needs to be unique among the threads alive on one device at once; a
// single machine word is enough, and fits the "native_handle_type" role
// spec.md §6 expects without an extra heap allocation per thread.
package taskid

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
)

// ID identifies one thread for the lifetime of the process. The zero value
// is not a valid ID; Generator.Next never returns it.
type ID uint64

// A Generator produces probably-unique IDs cheaply by reusing a random
// 48-bit prefix across a 16-bit counter, regenerating the prefix each time
// the counter wraps. The zero value is ready to use.
type Generator struct {
	mu     sync.Mutex
	prefix uint64 // high 48 bits of the next ID
	count  uint16
	resets int
}

// Next returns a new probably-unique ID.
func (g *Generator) Next() (ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.count == 0 {
		var b [6]byte
		if _, err := rand.Read(b[:]); err != nil {
			return 0, err
		}
		g.prefix = uint64(binary.BigEndian.Uint16(b[0:2]))<<32 | uint64(binary.BigEndian.Uint32(b[2:6]))
		g.resets++
	}
	id := ID(g.prefix<<16 | uint64(g.count))
	g.count++
	return id, nil
}

var defaultGenerator Generator

// Next returns a new probably-unique ID from the package-level generator.
func Next() (ID, error) {
	return defaultGenerator.Next()
}

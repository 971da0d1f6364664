// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package taskid

import "testing"

func TestNextResets(t *testing.T) {
	var g Generator
	expectedResets := 3
	for i := 0; i < expectedResets*(1<<16); i++ {
		if _, err := g.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
	if g.resets != expectedResets {
		t.Errorf("wrong number of resets, want %d got %d", expectedResets, g.resets)
	}
}

func TestNextNeverZero(t *testing.T) {
	var g Generator
	for i := 0; i < 1000; i++ {
		id, err := g.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if id == 0 {
			t.Fatalf("Next returned the zero ID")
		}
	}
}

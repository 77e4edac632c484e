//go:build linux

package platform

import (
	"sync"
	"testing"
)

func TestSetOptionsDuringMoves(t *testing.T) {
	b := NewLinuxBackend(nil, LinuxOptions{RestoreMaximized: true})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(restore bool) {
			defer wg.Done()
			b.SetOptions(LinuxOptions{RestoreMaximized: restore})
		}(i%2 == 0)
		go func() {
			defer wg.Done()
			_ = b.options().RestoreMaximized
		}()
	}
	wg.Wait()

	b.SetOptions(LinuxOptions{RestoreMaximized: false})
	if b.options().RestoreMaximized {
		t.Fatalf("options after SetOptions = %+v, want RestoreMaximized false", b.options())
	}
}

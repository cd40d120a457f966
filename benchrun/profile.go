// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchrun

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// profiles holds the state of the profile collection that brackets a
// benchmark sweep. The harness only starts and stops collection; it
// never interprets the profiles.
type profiles struct {
	cpuFile   *os.File
	blockFile *os.File
}

// startProfiles begins the profile collection requested on the command
// line. Collection covers the whole sweep, calibration included.
func startProfiles(cpuPath, blockPath string) (*profiles, error) {
	p := new(profiles)
	if cpuPath != "" {
		f, err := os.Create(cpuPath)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("starting CPU profile: %w", err)
		}
		p.cpuFile = f
	}
	if blockPath != "" {
		f, err := os.Create(blockPath)
		if err != nil {
			return nil, err
		}
		runtime.SetBlockProfileRate(1)
		p.blockFile = f
	}
	return p, nil
}

// stopProfiles ends collection and writes out the requested profiles.
// The heap profile is written last, after a GC, so it reflects live
// data rather than collectible garbage.
func stopProfiles(p *profiles, memPath string) error {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			return err
		}
	}
	if p.blockFile != nil {
		runtime.SetBlockProfileRate(0)
		if err := pprof.Lookup("block").WriteTo(p.blockFile, 0); err != nil {
			p.blockFile.Close()
			return fmt.Errorf("writing block profile: %w", err)
		}
		if err := p.blockFile.Close(); err != nil {
			return err
		}
	}
	if memPath != "" {
		f, err := os.Create(memPath)
		if err != nil {
			return err
		}
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("writing heap profile: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"testing"
)

func TestRootCmdFlagDefaults(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	delay, err := cmd.Flags().GetInt("delay")
	if err != nil || delay != 5 {
		t.Errorf("delay default = %d (%v), want 5", delay, err)
	}
	timeout, err := cmd.Flags().GetInt("miner-timeout")
	if err != nil || timeout != 600 {
		t.Errorf("miner-timeout default = %d (%v), want 600", timeout, err)
	}
	for _, name := range []string{"big", "loop"} {
		val, err := cmd.Flags().GetBool(name)
		if err != nil || val {
			t.Errorf("%s default = %v (%v), want false", name, val, err)
		}
	}
}

func TestRootCmdFlagParsing(t *testing.T) {
	cmd := newRootCmd()
	args := []string{"--big", "--loop", "--delay", "9", "--miner-path", "/opt/miner"}
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	if big, _ := cmd.Flags().GetBool("big"); !big {
		t.Error("big = false, want true")
	}
	if loop, _ := cmd.Flags().GetBool("loop"); !loop {
		t.Error("loop = false, want true")
	}
	if delay, _ := cmd.Flags().GetInt("delay"); delay != 9 {
		t.Errorf("delay = %d, want 9", delay)
	}
	if path, _ := cmd.Flags().GetString("miner-path"); path != "/opt/miner" {
		t.Errorf("miner-path = %s, want /opt/miner", path)
	}
}

func TestNewLogger(t *testing.T) {
	for _, verbose := range []bool{true, false} {
		logger, err := newLogger(verbose)
		if err != nil {
			t.Fatalf("newLogger(%v): %v", verbose, err)
		}
		if logger == nil {
			t.Fatalf("newLogger(%v) returned nil", verbose)
		}
	}
}

package types

import "testing"

func TestConfig_NumBackQueuesIsThreeTimesThreads(t *testing.T) {
	c := Config{Threads: 7}
	if got := c.NumBackQueues(); got != 21 {
		t.Errorf("Expected NumBackQueues=21, got %d", got)
	}
}

func TestDefaultConfig_HasNonZeroTunables(t *testing.T) {
	c := DefaultConfig()

	if c.Threads <= 0 {
		t.Errorf("Expected Threads > 0, got %d", c.Threads)
	}
	if c.NumFrontQueues <= 0 {
		t.Errorf("Expected NumFrontQueues > 0, got %d", c.NumFrontQueues)
	}
	if c.PerHostDelay <= 0 {
		t.Errorf("Expected PerHostDelay > 0, got %v", c.PerHostDelay)
	}
	if c.UserAgent == "" {
		t.Error("Expected a non-empty default UserAgent")
	}
	if c.DataDir == "" {
		t.Error("Expected a non-empty default DataDir")
	}
}

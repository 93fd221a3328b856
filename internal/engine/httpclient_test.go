package engine

import (
	"testing"
	"time"
)

func TestNewHTTPClient(t *testing.T) {
	c := NewHTTPClient(3 * time.Second)
	if c == nil {
		t.Fatal("NewHTTPClient() returned nil")
	}
	if c.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", c.Timeout)
	}
	if c.Transport == nil {
		t.Fatal("Transport is nil")
	}
}

func TestNewHTTPClientDefaultTimeout(t *testing.T) {
	c := NewHTTPClient(0)
	if c.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s default", c.Timeout)
	}
}

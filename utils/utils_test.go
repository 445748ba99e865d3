package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"reflect"
	"testing"
)

func TestIsContextDone(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{context.Canceled, true},
		{fmt.Errorf("failed to scan: %w", context.DeadlineExceeded), true},
		{errors.New("hci: device busy"), false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := IsContextDone(tt.err); got != tt.want {
			t.Fatalf("IsContextDone(%v): got %v, wanted %v", tt.err, got, tt.want)
		}
	}
}

func TestReverse(t *testing.T) {
	addr := net.HardwareAddr{0xd0, 0x11, 0x22, 0x33, 0x44, 0x55}
	got := Reverse(addr)
	want := net.HardwareAddr{0x55, 0x44, 0x33, 0x22, 0x11, 0xd0}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Reverse(%v): got %v, wanted %v", addr, got, want)
	}

	if addr[0] != 0xd0 {
		t.Fatalf("Reverse(%v) modified its input", addr)
	}
}

// cmd/burrow/status_test.go
package main

import (
	"reflect"
	"testing"

	"github.com/rdmerino/burrow/internal/state"
)

func TestStackNames_StableOrder(t *testing.T) {
	stacks := map[string]state.StackState{
		"media":   {Domain: "media.example.com"},
		"homelab": {Domain: "example.com"},
		"backups": {Domain: "backups.example.com"},
	}

	want := []string{"backups", "homelab", "media"}
	for i := 0; i < 10; i++ {
		if got := stackNames(stacks); !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

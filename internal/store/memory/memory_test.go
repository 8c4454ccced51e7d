package memory

import (
	"context"
	"testing"
)

func TestBackendGetSet(t *testing.T) {
	ctx := context.Background()
	b := New()

	if _, found, err := b.Get(ctx, "problems"); err != nil || found {
		t.Fatalf("Get() on empty backend = found %v, err %v", found, err)
	}

	in := []byte(`[{"id":"a"}]`)
	if err := b.Set(ctx, "problems", in); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	in[0] = 'X'

	got, found, err := b.Get(ctx, "problems")
	if err != nil || !found {
		t.Fatalf("Get() = found %v, err %v", found, err)
	}
	if string(got) != `[{"id":"a"}]` {
		t.Errorf("Get() = %s, caller mutation leaked into the backend", got)
	}
}

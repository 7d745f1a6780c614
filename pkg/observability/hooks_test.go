package observability

import (
	"context"
	"testing"
	"time"
)

type countingFetch struct {
	NoopFetchHooks
	fetches int
}

func (c *countingFetch) OnFetch(context.Context, string, string, time.Duration, error) {
	c.fetches++
}

func TestSetFetchHooks(t *testing.T) {
	t.Cleanup(Reset)

	h := &countingFetch{}
	SetFetchHooks(h)
	Fetch().OnFetch(context.Background(), "central", "g:a:pom:1", time.Millisecond, nil)
	if h.fetches != 1 {
		t.Errorf("fetches = %d, want 1", h.fetches)
	}

	SetFetchHooks(nil)
	if Fetch() != FetchHooks(h) {
		t.Error("SetFetchHooks(nil) replaced registered hooks")
	}

	Reset()
	if _, ok := Fetch().(NoopFetchHooks); !ok {
		t.Errorf("after Reset, Fetch() = %T", Fetch())
	}
}

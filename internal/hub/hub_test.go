package hub_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/nikhil/teamtask/internal/hub"
)

func startHub(t *testing.T) *hub.Hub {
	t.Helper()
	h := hub.New()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func recv(t *testing.T, c *hub.Client) []byte {
	t.Helper()
	select {
	case payload, ok := <-c.Send:
		if !ok {
			t.Fatal("send queue closed")
		}
		return payload
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for payload")
	}
	return nil
}

func TestPublishRoutesByTeam(t *testing.T) {
	is := is.New(t)
	h := startHub(t)

	alice := hub.NewClient(h, nil, 1, 10)
	bob := hub.NewClient(h, nil, 2, 10)
	carol := hub.NewClient(h, nil, 3, 20)
	h.Register(alice)
	h.Register(bob)
	h.Register(carol)

	h.Publish(10, []byte("for team ten"))

	is.Equal(string(recv(t, alice)), "for team ten")
	is.Equal(string(recv(t, bob)), "for team ten")

	// Carol subscribes to another team and sees nothing.
	select {
	case payload := <-carol.Send:
		t.Fatalf("unexpected payload for other team: %q", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishPreservesOrder(t *testing.T) {
	is := is.New(t)
	h := startHub(t)

	c := hub.NewClient(h, nil, 1, 10)
	h.Register(c)

	for i := 0; i < 20; i++ {
		h.Publish(10, []byte(fmt.Sprintf("message %d", i)))
	}
	for i := 0; i < 20; i++ {
		is.Equal(string(recv(t, c)), fmt.Sprintf("message %d", i))
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	is := is.New(t)
	h := startHub(t)

	c := hub.NewClient(h, nil, 1, 10)
	h.Register(c)

	h.Publish(10, []byte("before"))
	is.Equal(string(recv(t, c)), "before")

	h.Unregister(c)
	h.Publish(10, []byte("after"))

	// The queue is closed with nothing further delivered.
	payload, ok := <-c.Send
	is.True(!ok)
	is.Equal(len(payload), 0)
}

func TestUnregisterTwiceIsSafe(t *testing.T) {
	h := startHub(t)

	c := hub.NewClient(h, nil, 1, 10)
	h.Register(c)
	h.Unregister(c)
	h.Unregister(c)

	// Still serving other clients afterwards.
	is := is.New(t)
	other := hub.NewClient(h, nil, 2, 10)
	h.Register(other)
	h.Publish(10, []byte("still alive"))
	is.Equal(string(recv(t, other)), "still alive")
}

func TestSlowClientIsDropped(t *testing.T) {
	is := is.New(t)
	h := startHub(t)

	fast := hub.NewClient(h, nil, 1, 10)
	slow := hub.NewClient(h, nil, 2, 10)

	// Fill the slow client's queue so the next delivery cannot be buffered.
	for i := 0; i < cap(slow.Send); i++ {
		slow.Send <- []byte("backlog")
	}

	h.Register(fast)
	h.Register(slow)

	h.Publish(10, []byte("first"))
	is.Equal(string(recv(t, fast)), "first")
	h.Publish(10, []byte("second"))
	is.Equal(string(recv(t, fast)), "second")

	// The slow client was dropped instead of stalling the fast one: its
	// queue holds only the backlog and is closed.
	for i := 0; i < cap(slow.Send); i++ {
		is.Equal(string(recv(t, slow)), "backlog")
	}
	_, ok := <-slow.Send
	is.True(!ok)
}

func TestRunShutdownClosesClients(t *testing.T) {
	is := is.New(t)
	h := hub.New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	c := hub.NewClient(h, nil, 1, 10)
	h.Register(c)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run did not return after cancel")
	}

	_, ok := <-c.Send
	is.True(!ok)
}

func TestConcurrentPublishAndUnregister(t *testing.T) {
	h := startHub(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		c := hub.NewClient(h, nil, int64(i), 10)
		h.Register(c)

		wg.Add(2)
		go func() {
			defer wg.Done()
			for range c.Send {
			}
		}()
		go func() {
			defer wg.Done()
			h.Unregister(c)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			h.Publish(10, []byte("tick"))
		}
	}()

	wg.Wait()
}

package arduino

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

// fakePort записывает команды и отдаёт по одному ответу на чтение, как плата
type fakePort struct {
	written bytes.Buffer
	replies chunkedPort
}

func newFakePort(replies ...string) *fakePort {
	return &fakePort{replies: chunkedPort{chunks: replies}}
}

func (p *fakePort) Write(b []byte) (int, error) { return p.written.Write(b) }
func (p *fakePort) Read(b []byte) (int, error)  { return p.replies.Read(b) }

func TestPressReleaseProtocol(t *testing.T) {
	port := newFakePort("received\n", "received\n")
	c := NewController(port)

	if err := c.Press(context.Background(), "space"); err != nil {
		t.Fatal(err)
	}
	if err := c.Release(context.Background(), "space"); err != nil {
		t.Fatal(err)
	}

	want := "key_down:space\nkey_up:space\n"
	if got := port.written.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestUnexpectedResponse(t *testing.T) {
	c := NewController(newFakePort("busy\n"))
	err := c.Press(context.Background(), "space")
	if err == nil || !strings.Contains(err.Error(), "unexpected response: 'busy'") {
		t.Fatalf("got %v", err)
	}
}

func TestSilentBoard(t *testing.T) {
	c := NewController(newFakePort())
	if err := c.Release(context.Background(), "space"); !errors.Is(err, ErrNoResponse) {
		t.Fatalf("got %v, want ErrNoResponse", err)
	}
}

func TestResponseSplitAcrossReads(t *testing.T) {
	port := &chunkedPort{chunks: []string{"rec", "eiv", "ed\r\n"}}
	if _, err := WaitForArduinoResponse(port, "received"); err != nil {
		t.Fatal(err)
	}
}

func TestCancelledContextSendsNothing(t *testing.T) {
	port := newFakePort("received\n")
	c := NewController(port)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Press(ctx, "space"); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if port.written.Len() != 0 {
		t.Fatalf("wrote %q after cancel", port.written.String())
	}
}

func TestReleaseAll(t *testing.T) {
	port := newFakePort("received\n")
	if err := NewController(port).ReleaseAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if port.written.String() != "release_all\n" {
		t.Fatalf("got %q", port.written.String())
	}
}

type chunkedPort struct {
	chunks []string
}

func (p *chunkedPort) Read(b []byte) (int, error) {
	if len(p.chunks) == 0 {
		return 0, nil
	}
	n := copy(b, p.chunks[0])
	p.chunks = p.chunks[1:]
	return n, nil
}

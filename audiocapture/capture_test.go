package audiocapture

import (
	"errors"
	"testing"
)

// fakeStream records teardown calls and can fail them on demand.
type fakeStream struct {
	stopped  bool
	closed   bool
	stopErr  error
	closeErr error
}

func (s *fakeStream) Stop() error  { s.stopped = true; return s.stopErr }
func (s *fakeStream) Close() error { s.closed = true; return s.closeErr }

// fakeOpener hands the capture's block callback back to the test so it can
// play the hardware producer.
type fakeOpener struct {
	stream  *fakeStream
	onBlock func([]float32)
	openErr error
	opens   int
}

func (f *fakeOpener) open(sampleRate, channels int, onBlock func([]float32)) (Stream, error) {
	f.opens++
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.onBlock = onBlock
	f.stream = &fakeStream{}
	return f.stream, nil
}

func newTestCapture(opener *fakeOpener) *Capture {
	return New(Config{Open: opener.open})
}

func TestArmDisarmConcatenatesBlocks(t *testing.T) {
	opener := &fakeOpener{}
	c := newTestCapture(opener)

	if err := c.Arm(); err != nil {
		t.Fatalf("Arm: %v", err)
	}
	opener.onBlock([]float32{0.1, 0.2})
	opener.onBlock([]float32{0.3})
	opener.onBlock([]float32{0.4, 0.5})

	samples, err := c.Disarm()
	if err != nil {
		t.Fatalf("Disarm: %v", err)
	}
	want := []float32{0.1, 0.2, 0.3, 0.4, 0.5}
	if len(samples) != len(want) {
		t.Fatalf("got %d samples, want %d", len(samples), len(want))
	}
	for i := range want {
		if samples[i] != want[i] {
			t.Fatalf("samples[%d] = %v, want %v", i, samples[i], want[i])
		}
	}
	if !opener.stream.stopped || !opener.stream.closed {
		t.Fatal("stream not released on disarm")
	}
}

func TestDisarmWithoutBlocks(t *testing.T) {
	opener := &fakeOpener{}
	c := newTestCapture(opener)

	if err := c.Arm(); err != nil {
		t.Fatalf("Arm: %v", err)
	}
	samples, err := c.Disarm()
	if err != nil {
		t.Fatalf("Disarm: %v", err)
	}
	if samples != nil {
		t.Fatalf("expected nil samples for empty capture, got %d", len(samples))
	}
}

func TestArmFailureLeavesDisarmed(t *testing.T) {
	opener := &fakeOpener{openErr: errors.New("device unavailable")}
	c := newTestCapture(opener)

	if err := c.Arm(); err == nil {
		t.Fatal("expected Arm error")
	}
	if c.Armed() {
		t.Fatal("capture armed after failed Arm")
	}
	// A later successful arm must work.
	opener.openErr = nil
	if err := c.Arm(); err != nil {
		t.Fatalf("Arm after recovery: %v", err)
	}
}

func TestDoubleArm(t *testing.T) {
	opener := &fakeOpener{}
	c := newTestCapture(opener)

	if err := c.Arm(); err != nil {
		t.Fatalf("Arm: %v", err)
	}
	if err := c.Arm(); !errors.Is(err, ErrArmed) {
		t.Fatalf("second Arm = %v, want ErrArmed", err)
	}
}

func TestDisarmWhileDisarmed(t *testing.T) {
	c := newTestCapture(&fakeOpener{})
	samples, err := c.Disarm()
	if err != nil || samples != nil {
		t.Fatalf("Disarm on idle capture = (%v, %v), want (nil, nil)", samples, err)
	}
}

func TestBlocksAreCopied(t *testing.T) {
	opener := &fakeOpener{}
	c := newTestCapture(opener)

	if err := c.Arm(); err != nil {
		t.Fatalf("Arm: %v", err)
	}
	buf := []float32{1, 2, 3}
	opener.onBlock(buf)
	// The driver reuses its buffer between callbacks.
	buf[0], buf[1], buf[2] = 9, 9, 9

	samples, err := c.Disarm()
	if err != nil {
		t.Fatalf("Disarm: %v", err)
	}
	if samples[0] != 1 || samples[1] != 2 || samples[2] != 3 {
		t.Fatalf("samples mutated by driver buffer reuse: %v", samples)
	}
}

func TestRepeatedCyclesReleaseStreams(t *testing.T) {
	opener := &fakeOpener{}
	c := newTestCapture(opener)

	for i := 0; i < 3; i++ {
		if err := c.Arm(); err != nil {
			t.Fatalf("cycle %d Arm: %v", i, err)
		}
		opener.onBlock([]float32{0.5})
		if _, err := c.Disarm(); err != nil {
			t.Fatalf("cycle %d Disarm: %v", i, err)
		}
		if !opener.stream.stopped || !opener.stream.closed {
			t.Fatalf("cycle %d leaked stream", i)
		}
	}
	if opener.opens != 3 {
		t.Fatalf("opens = %d, want 3", opener.opens)
	}
}

func TestDisarmErrorStillReturnsSamples(t *testing.T) {
	opener := &fakeOpener{}
	c := newTestCapture(opener)

	if err := c.Arm(); err != nil {
		t.Fatalf("Arm: %v", err)
	}
	opener.onBlock([]float32{0.7})
	opener.stream.closeErr = errors.New("close failed")

	samples, err := c.Disarm()
	if err == nil {
		t.Fatal("expected Disarm error")
	}
	if len(samples) != 1 {
		t.Fatalf("samples lost on teardown error: %v", samples)
	}
	if !opener.stream.closed {
		t.Fatal("close not attempted")
	}
}

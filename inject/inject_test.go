package inject

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestInjectWritesThenPastes(t *testing.T) {
	var order []string
	var wrote string
	c := &Clipboard{
		write: func(text string) error {
			order = append(order, "write")
			wrote = text
			return nil
		},
		sleep: func(time.Duration) { order = append(order, "sleep") },
		paste: func() error {
			order = append(order, "paste")
			return nil
		},
	}

	if err := c.Inject("hello world"); err != nil {
		t.Fatalf("Inject: %v", err)
	}
	if wrote != "hello world" {
		t.Fatalf("wrote = %q", wrote)
	}
	want := []string{"write", "sleep", "paste"}
	if len(order) != len(want) {
		t.Fatalf("order = %v", order)
	}
	for i, step := range want {
		if order[i] != step {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestInjectEmptyTextNoOp(t *testing.T) {
	c := &Clipboard{
		write: func(string) error {
			t.Fatal("write called for empty text")
			return nil
		},
		sleep: func(time.Duration) {},
		paste: func() error { return nil },
	}
	if err := c.Inject(""); err != nil {
		t.Fatalf("Inject: %v", err)
	}
}

func TestInjectWriteError(t *testing.T) {
	boom := errors.New("no clipboard")
	pasted := false
	c := &Clipboard{
		write: func(string) error { return boom },
		sleep: func(time.Duration) {},
		paste: func() error { pasted = true; return nil },
	}
	err := c.Inject("text")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if pasted {
		t.Fatal("paste sent after clipboard write failed")
	}
	if !strings.Contains(err.Error(), "write clipboard") {
		t.Fatalf("err = %v", err)
	}
}

func TestInjectPasteError(t *testing.T) {
	boom := errors.New("keyboard busy")
	c := &Clipboard{
		write: func(string) error { return nil },
		sleep: func(time.Duration) {},
		paste: func() error { return boom },
	}
	if err := c.Inject("text"); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

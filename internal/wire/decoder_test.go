package wire

import (
	"reflect"
	"testing"
)

func TestLineDecoder_ChunkBoundaries(t *testing.T) {
	d := NewLineDecoder()

	if got := d.Feed([]byte("LOG:42,Al")); got != nil {
		t.Fatalf("partial chunk produced lines: %v", got)
	}
	if d.Pending() == 0 {
		t.Fatal("partial line not buffered")
	}

	got := d.Feed([]byte("ice\nLOGIN:7,Bob\nLOGOUT:7,"))
	want := []string{"LOG:42,Alice", "LOGIN:7,Bob"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Feed = %v, want %v", got, want)
	}

	got = d.Feed([]byte("Bob\n"))
	if !reflect.DeepEqual(got, []string{"LOGOUT:7,Bob"}) {
		t.Fatalf("Feed = %v, want [LOGOUT:7,Bob]", got)
	}
}

func TestLineDecoder_CRLF(t *testing.T) {
	d := NewLineDecoder()
	got := d.Feed([]byte("NEW_SESSION\r\n"))
	if !reflect.DeepEqual(got, []string{"NEW_SESSION"}) {
		t.Fatalf("Feed = %v, want [NEW_SESSION]", got)
	}
}

func TestLineDecoder_InvalidUTF8Replaced(t *testing.T) {
	d := NewLineDecoder()
	got := d.Feed([]byte("LOG:1,Al\xffce\n"))
	if len(got) != 1 {
		t.Fatalf("Feed = %v, want one line", got)
	}
	if got[0] != "LOG:1,Al�ce" {
		t.Errorf("line = %q, want bad byte replaced", got[0])
	}
}

func TestLineDecoder_BlankLinesDiscarded(t *testing.T) {
	d := NewLineDecoder()
	got := d.Feed([]byte("\n   \n\r\nLOGIN:7,Bob\n\n"))
	if !reflect.DeepEqual(got, []string{"LOGIN:7,Bob"}) {
		t.Fatalf("Feed = %v, want [LOGIN:7,Bob]", got)
	}
}

func TestLineDecoder_Reset(t *testing.T) {
	d := NewLineDecoder()
	d.Feed([]byte("LOGIN:7,B"))
	d.Reset()
	got := d.Feed([]byte("ob\n"))
	if !reflect.DeepEqual(got, []string{"ob"}) {
		t.Fatalf("Feed after Reset = %v, want torn tail discarded", got)
	}
}

package fbx

import (
	"bytes"
	"io"
	"testing"
)

// bytes.Buffer is not an io.Seeker.
func TestSkipToWithoutSeek(t *testing.T) {
	r := &positionReader{r: bytes.NewBufferString("0123456789")}
	if err := r.SkipTo(4); err != nil {
		t.Fatal(err)
	}
	if r.position != 4 {
		t.Error("position: ", r.position)
	}
	b := make([]byte, 2)
	if _, err := io.ReadFull(r, b); err != nil || string(b) != "45" {
		t.Error("read after skip: ", string(b), err)
	}
	if r.position != 6 {
		t.Error("position: ", r.position)
	}
	if err := r.SkipTo(5); err == nil {
		t.Error("rewind should fail")
	}
	if err := r.SkipTo(20); err != io.EOF {
		t.Error("skip past end: ", err)
	}
}

func TestSkipToWithSeek(t *testing.T) {
	r := &positionReader{r: bytes.NewReader([]byte("0123456789"))}
	if err := r.SkipTo(7); err != nil || r.position != 7 {
		t.Fatal("SkipTo: ", r.position, err)
	}
	b := make([]byte, 1)
	if _, err := io.ReadFull(r, b); err != nil || b[0] != '7' {
		t.Error("read after skip: ", string(b), err)
	}
}

package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStringHash(t *testing.T) {
	if StringHash("") != 5381 {
		t.Error("StringHash of empty string failed")
	}
	if StringHash("tr1") != StringHash("tr1") {
		t.Error("StringHash not deterministic")
	}
	if StringHash("tr1") == StringHash("tr2") {
		t.Error("StringHash collision on tr1/tr2")
	}
}

func TestByteBuffer(t *testing.T) {
	buf := ReserveByteBuffer()
	if len(buf) != 0 {
		t.Error("ReserveByteBuffer returned non-empty buffer")
	}
	buf = append(buf, "chr1"...)
	ReleaseByteBuffer(buf)
	if buf = ReserveByteBuffer(); len(buf) != 0 {
		t.Error("ReserveByteBuffer returned non-empty buffer after release")
	}
}

func TestFileHelpers(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs", "cigarco")
	MkdirAll(dir, 0700)
	name := filepath.Join(dir, "run.log")
	f := FileCreate(name)
	if _, err := f.WriteString("Run\n"); err != nil {
		t.Fatal(err)
	}
	Close(f)
	if data, err := os.ReadFile(name); err != nil || string(data) != "Run\n" {
		t.Error("FileCreate/Close did not write the log file", err)
	}
}

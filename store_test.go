package savings

import (
	"errors"
	"io/fs"
	"testing"
	"time"
)

func TestStore_WriteRead(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.Read(KeyGoals); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("reading a missing key: got %v, want fs.ErrNotExist", err)
	}

	payload := []byte(`[{"id":"x"}]`)
	if err := store.Write(KeyGoals, payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := store.Read(KeyGoals)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("Read = %s, want %s", got, payload)
	}

	// overwrite replaces wholesale
	if err := store.Write(KeyGoals, []byte(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = store.Read(KeyGoals)
	if string(got) != `[]` {
		t.Errorf("after overwrite Read = %s, want []", got)
	}

	if err := store.Remove(KeyGoals); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := store.Read(KeyGoals); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("reading a removed key: got %v, want fs.ErrNotExist", err)
	}
	// removing again is not an error
	if err := store.Remove(KeyGoals); err != nil {
		t.Errorf("removing a missing key: %v", err)
	}
}

func TestStore_Watch(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	changed := make(chan string, 8)
	done := make(chan struct{})
	defer close(done)
	if err := store.Watch(done, func(key string) { changed <- key }); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	// a write from "another process" (same API, same directory)
	other, _ := OpenStore(dir)
	if err := other.Write(KeyRates, []byte(`{}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case key := <-changed:
			if key == KeyRates {
				return // notification received
			}
		case <-deadline:
			t.Fatal("no change notification for the rates key")
		}
	}
}

package store_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	_ "modernc.org/sqlite"

	"subgen/internal/store"
	"subgen/internal/testsupport"
)

func TestAppendAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	id, err := st.Append(ctx, store.Record{
		AudioPath:  "/audio/talk.wav",
		Generated:  "0.000 --> 1.000\nhello\n\n",
		Translated: "0.000 --> 1.000\nhola\n\n",
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if id == 0 {
		t.Fatal("expected record id to be assigned")
	}

	rec, err := st.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec.AudioPath != "/audio/talk.wav" || rec.Translated != "0.000 --> 1.000\nhola\n\n" {
		t.Fatalf("unexpected record: %#v", rec)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if _, err := st.Get(context.Background(), 42); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for _, name := range []string{"a.wav", "b.wav", "c.wav"} {
		if _, err := st.Append(ctx, store.Record{AudioPath: name}); err != nil {
			t.Fatalf("Append %s: %v", name, err)
		}
	}

	records, err := st.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].AudioPath != "c.wav" || records[1].AudioPath != "b.wav" {
		t.Fatalf("unexpected order: %q, %q", records[0].AudioPath, records[1].AudioPath)
	}

	all, err := st.List(ctx, 0)
	if err != nil {
		t.Fatalf("List all failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
}

func TestReopenPreservesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "subtitles.db")
	ctx := context.Background()

	first, err := store.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := first.Append(ctx, store.Record{AudioPath: "keep.wav"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := store.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()
	count, err := second.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected existing row to survive reopen, got %d rows", count)
	}
}

func TestOpenAcceptsExistingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subtitles.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE subtitles (id INTEGER PRIMARY KEY, audio_file TEXT, generated_subtitles TEXT, translated_subtitles TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO subtitles (audio_file, generated_subtitles, translated_subtitles) VALUES ('old.mp3', NULL, NULL)`); err != nil {
		t.Fatalf("seed row: %v", err)
	}
	db.Close()

	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	records, err := st.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 1 || records[0].AudioPath != "old.mp3" || records[0].Generated != "" {
		t.Fatalf("unexpected records: %#v", records)
	}
}

func TestConcurrentAppendsAcrossHandles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subtitles.db")
	ctx := context.Background()

	handles := make([]*store.Store, 3)
	for i := range handles {
		st, err := store.Open(path)
		if err != nil {
			t.Fatalf("Open %d failed: %v", i, err)
		}
		defer st.Close()
		handles[i] = st
	}

	const perHandle = 10
	var wg sync.WaitGroup
	errs := make(chan error, len(handles)*perHandle)
	for _, st := range handles {
		wg.Add(1)
		go func(st *store.Store) {
			defer wg.Done()
			for range perHandle {
				if _, err := st.Append(ctx, store.Record{AudioPath: "x.wav"}); err != nil {
					errs <- err
				}
			}
		}(st)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent append failed: %v", err)
	}

	count, err := handles[0].Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != len(handles)*perHandle {
		t.Fatalf("expected %d rows, got %d", len(handles)*perHandle, count)
	}
}

package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/etnz/stocksboard"
	"github.com/redis/go-redis/v9"
)

var alice = stocksboard.Session{Token: "t1", Role: "ROLE_ADMIN", UserID: "1", Username: "alice"}

// storages returns one fresh instance of every backend.
func storages(t *testing.T) map[string]Storage {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return map[string]Storage{
		"memory": NewMemoryStorage(nil),
		"file":   NewFileStorage(filepath.Join(t.TempDir(), "sb", "session.json")),
		"redis":  NewRedisStorage(client, "test"),
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	for name, storage := range storages(t) {
		t.Run(name, func(t *testing.T) {
			st := NewStore(storage)

			got, err := st.Get(ctx)
			if err != nil {
				t.Fatalf("Get() on empty storage: %v", err)
			}
			if !got.IsZero() || got != (stocksboard.Session{}) {
				t.Errorf("Get() on empty storage = %+v, want zero session", got)
			}

			if err := st.Set(ctx, alice); err != nil {
				t.Fatalf("Set(): %v", err)
			}
			got, err = st.Get(ctx)
			if err != nil {
				t.Fatalf("Get(): %v", err)
			}
			if got != alice {
				t.Errorf("Get() = %+v, want %+v", got, alice)
			}

			for _, k := range Keys {
				if _, err := storage.Get(ctx, k); err != nil {
					t.Errorf("storage.Get(%q) after Set: %v", k, err)
				}
			}

			if err := st.Clear(ctx); err != nil {
				t.Fatalf("Clear(): %v", err)
			}
			for _, k := range Keys {
				if _, err := storage.Get(ctx, k); !errors.Is(err, ErrNotFound) {
					t.Errorf("storage.Get(%q) after Clear: err = %v, want ErrNotFound", k, err)
				}
			}
			got, _ = st.Get(ctx)
			if !got.IsZero() {
				t.Errorf("Get() after Clear = %+v, want zero session", got)
			}
		})
	}
}

func TestStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	st := NewStore(NewMemoryStorage(nil))
	bob := stocksboard.Session{Token: "t2", Role: "ROLE_USER", UserID: "2", Username: "bob"}
	if err := st.Set(ctx, alice); err != nil {
		t.Fatal(err)
	}
	if err := st.Set(ctx, bob); err != nil {
		t.Fatal(err)
	}
	if got, _ := st.Get(ctx); got != bob {
		t.Errorf("Get() = %+v, want %+v", got, bob)
	}
}

func TestPartialSessionIsNoSession(t *testing.T) {
	ctx := context.Background()
	for _, values := range []map[string]string{
		{KeyToken: "t1"},
		{KeyToken: "t1", KeyRole: "ROLE_ADMIN", KeyUsername: "alice"},
		{KeyRole: "ROLE_ADMIN", KeyUserID: "1", KeyUsername: "alice"},
	} {
		got, err := NewStore(NewMemoryStorage(values)).Get(ctx)
		if err != nil {
			t.Fatalf("Get() with %v: %v", values, err)
		}
		if got != (stocksboard.Session{}) || !got.IsZero() {
			t.Errorf("Get() with %v = %+v, want the zero session", values, got)
		}
	}
}

func TestClearKeepsForeignKeys(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage(map[string]string{"theme": "dark"})
	st := NewStore(m)
	if err := st.Set(ctx, alice); err != nil {
		t.Fatal(err)
	}
	if err := st.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if got := m.Len(); got != 1 {
		t.Errorf("Len() after Clear = %d, want 1", got)
	}
}

func TestFileStorage(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "conf", "session.json")
	f := NewFileStorage(path)
	if err := NewStore(f).Set(ctx, alice); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("session file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("session file mode = %v, want 0600", perm)
	}

	// A second storage on the same file sees the session.
	got, err := NewStore(NewFileStorage(path)).Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != alice {
		t.Errorf("Get() from a new FileStorage = %+v, want %+v", got, alice)
	}

	if err := NewStore(f).Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("session file still present after Clear: %v", err)
	}
}

func TestFileStorageCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	_, err := NewStore(NewFileStorage(path)).Get(context.Background())
	if err == nil {
		t.Fatal("Get() on a corrupted file succeeded, want an error")
	}
}

func TestRedisStorageProfiles(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	work := NewStore(NewRedisStorage(client, "work"))
	home := NewStore(NewRedisStorage(client, ""))
	if err := work.Set(ctx, alice); err != nil {
		t.Fatal(err)
	}
	if got, _ := home.Get(ctx); !got.IsZero() {
		t.Errorf("default profile sees %+v, want zero session", got)
	}
	if got := mr.HGet("stocksboard:session:work", KeyUsername); got != "alice" {
		t.Errorf("hash field username = %q, want alice", got)
	}
}

func TestConnectRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	r, err := ConnectRedis(ctx, RedisConfig{Addr: mr.Addr(), Profile: "p"})
	if err != nil {
		t.Fatalf("ConnectRedis(): %v", err)
	}
	defer r.Close()
	if err := r.Set(ctx, map[string]string{KeyToken: "x"}); err != nil {
		t.Fatal(err)
	}

	addr := mr.Addr()
	mr.Close()
	if _, err := ConnectRedis(ctx, RedisConfig{Addr: addr}); err == nil {
		t.Error("ConnectRedis() to a stopped server succeeded, want an error")
	}
}

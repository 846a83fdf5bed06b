package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/graphcalc/session"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "graphs.db"))
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	sess := session.New()
	sess.Title = "parabola"
	sess.Add("y = a*x^2")
	sess.SetParam("a", 3)

	if err := s.Save(ctx, "  p1 ", sess); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	got, err := s.Load(ctx, "p1")
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if got.Title != "parabola" || len(got.Expressions) != 1 || got.Expressions[0].Source != "y = a*x^2" {
		t.Errorf("Load() = %+v", got)
	}
	if got.Params["a"] != 3 {
		t.Errorf("param a = %v, want 3", got.Params["a"])
	}
	if got.Expressions[0].ID != sess.Expressions[0].ID {
		t.Error("line id not preserved")
	}
}

func TestSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	clock := time.UnixMilli(1_000_000)
	s.now = func() time.Time { return clock }

	a := session.New()
	a.Add("y = x")
	if err := s.Save(ctx, "g", a); err != nil {
		t.Fatal(err)
	}
	clock = clock.Add(time.Minute)
	b := session.New()
	b.Add("y = 2x")
	b.Add("y = 3x")
	if err := s.Save(ctx, "g", b); err != nil {
		t.Fatal(err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("List() has %d entries, want 1", len(list))
	}
	e := list[0]
	if e.Lines != 2 || !e.Created.Equal(time.UnixMilli(1_000_000)) || !e.Updated.Equal(clock) {
		t.Errorf("entry = %+v", e)
	}
}

func TestListOrder(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	clock := time.UnixMilli(0)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	for _, name := range []string{"first", "second", "third"} {
		if err := s.Save(ctx, name, session.New()); err != nil {
			t.Fatal(err)
		}
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"third", "second", "first"}
	for i, e := range list {
		if e.Name != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, e.Name, want[i])
		}
	}
}

func TestErrors(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"load missing", func() error { _, err := s.Load(ctx, "nope"); return err }, ErrNotFound},
		{"delete missing", func() error { return s.Delete(ctx, "nope") }, ErrNotFound},
		{"save blank", func() error { return s.Save(ctx, " ", session.New()) }, ErrName},
		{"load blank", func() error { _, err := s.Load(ctx, ""); return err }, ErrName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	if err := s.Save(ctx, "gone", session.New()); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete() = %v", err)
	}
	if _, err := s.Load(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after Delete = %v, want ErrNotFound", err)
	}
}

func TestLoadRepairsCorruptBlob(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	_, err := s.db.Exec(`INSERT INTO sessions (name, blob, created_at, updated_at) VALUES ('bad', '!!!', 0, 0)`)
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Load(ctx, "bad")
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if len(got.Expressions) != 0 || got.Theme != session.DefaultTheme {
		t.Errorf("repaired session = %+v, want defaults", got)
	}
}

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/roach88/predicate/internal/codec"
	"github.com/roach88/predicate/internal/model"
	"github.com/roach88/predicate/internal/sample"
	"github.com/roach88/predicate/internal/schema"
	"github.com/roach88/predicate/internal/testutil"
)

type customer = sample.Customer

func adults(t *testing.T) *model.Compound[customer] {
	t.Helper()
	root := model.NewRootWithIDs[customer](testutil.NewSequentialIDs())
	if err := root.AddAtomic().Configure("Age", "greater-than-or-equal", 18); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}
	return root
}

func TestSaveLoadTree(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewStepClock()
	s := createTestStore(t, WithClock(clock.Now))

	root := adults(t)
	f, err := SaveTree(ctx, s, "adults", root)
	if err != nil {
		t.Fatalf("SaveTree() failed: %v", err)
	}

	if f.Name != "adults" || f.Seq != 1 {
		t.Errorf("saved = %+v", f)
	}
	if f.RootID != testutil.ID(1).String() {
		t.Errorf("RootID = %q, want %q", f.RootID, testutil.ID(1))
	}
	if !f.SavedAt.Equal(testutil.Epoch) {
		t.Errorf("SavedAt = %v, want %v", f.SavedAt, testutil.Epoch)
	}
	want, _ := codec.Fingerprint[customer](root)
	if f.Fingerprint != want {
		t.Errorf("Fingerprint = %q, want %q", f.Fingerprint, want)
	}

	back, err := LoadTree[customer](ctx, s, "adults")
	if err != nil {
		t.Fatalf("LoadTree() failed: %v", err)
	}
	if back.ID() != root.ID() {
		t.Errorf("root ID = %v, want %v", back.ID(), root.ID())
	}
	if got := back.Atomics()[0].Value(); got != 18 {
		t.Errorf("value = %#v, want 18", got)
	}
}

func TestSave_ReplacesAndBumpsSeq(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, WithClock(testutil.NewStepClock().Now))

	if _, err := SaveTree(ctx, s, "a", adults(t)); err != nil {
		t.Fatal(err)
	}
	if _, err := SaveTree(ctx, s, "b", adults(t)); err != nil {
		t.Fatal(err)
	}

	seniors := adults(t)
	seniors.Atomics()[0].SetValue(65)
	f, err := SaveTree(ctx, s, "a", seniors)
	if err != nil {
		t.Fatal(err)
	}
	if f.Seq != 3 {
		t.Errorf("Seq = %d, want 3", f.Seq)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Name != "a" || list[1].Name != "b" {
		t.Errorf("List() = %+v", list)
	}

	history, err := s.History(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 || history[0].Name != "b" || history[1].Name != "a" {
		t.Errorf("History() = %+v", history)
	}
}

func TestFindByFingerprint(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	for _, name := range []string{"one", "two"} {
		if _, err := SaveTree(ctx, s, name, adults(t)); err != nil {
			t.Fatal(err)
		}
	}
	fp, _ := codec.Fingerprint[customer](adults(t))

	found, err := s.FindByFingerprint(ctx, fp)
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 2 || found[0].Name != "one" || found[1].Name != "two" {
		t.Errorf("FindByFingerprint() = %+v", found)
	}

	none, err := s.FindByFingerprint(ctx, "nope")
	if err != nil {
		t.Fatal(err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", none)
	}
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	if _, err := s.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
	if _, err := LoadTree[customer](ctx, s, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadTree() error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	if _, err := SaveTree(ctx, s, "adults", adults(t)); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "adults"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := s.Load(ctx, "adults"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() after delete = %v, want ErrNotFound", err)
	}
}

func TestSave_RejectsInvalidDocuments(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	tests := []struct {
		name, doc string
	}{
		{"atomic root", `{"$predicate-unit-type":"atomic-predicate","Member":"Age"}`},
		{"unknown field", `{"$predicate-unit-type":"compound-predicate","Extra":1}`},
		{"not json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Save(ctx, "bad", []byte(tt.doc), "fp")
			var ve *schema.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("Save() error = %v, want *schema.ValidationError", err)
			}
		})
	}

	if _, err := s.Save(ctx, "  ", []byte(`{"$predicate-unit-type":"compound-predicate"}`), "fp"); err == nil {
		t.Error("expected error for empty name")
	}
}

package store

import (
	"context"
	"fmt"

	"github.com/roach88/predicate/internal/codec"
	"github.com/roach88/predicate/internal/model"
)

// SaveTree serializes root and saves it under name.
func SaveTree[T any](ctx context.Context, s *Store, name string, root *model.Compound[T]) (Filter, error) {
	doc, err := codec.MarshalJSON[T](root)
	if err != nil {
		return Filter{}, fmt.Errorf("save filter %q: %w", name, err)
	}
	fp, err := codec.Fingerprint[T](root)
	if err != nil {
		return Filter{}, fmt.Errorf("save filter %q: %w", name, err)
	}
	return s.Save(ctx, name, doc, fp)
}

// LoadTree loads the filter saved under name and decodes it against T.
func LoadTree[T any](ctx context.Context, s *Store, name string) (*model.Compound[T], error) {
	f, err := s.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	root, err := codec.UnmarshalRoot[T](f.Document)
	if err != nil {
		return nil, fmt.Errorf("load filter %q: %w", name, err)
	}
	return root, nil
}

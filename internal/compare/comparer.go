// Package compare decides equality of JSON model values for change tracking.
//
// A Comparer is bound to one model type and one strictness mode:
//
//   - CompareStorageForm runs both operands through the converter's forward
//     direction and compares the storage values byte for byte.
//   - CompareRoundTrip forward-converts and then backward-converts each operand,
//     and compares the normalized values with the backend's structural equality.
//
// Snapshots are always a full storage round trip, so a snapshot never shares
// memory with the live value it was taken from.
package compare

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"

	"github.com/roach88/mysqljson/internal/convert"
)

// Comparer is immutable and safe for concurrent use.
type Comparer struct {
	conv     *convert.Converter
	opts     ChangeTrackingOptions
	fallback ChangeTrackingOptions
}

// Option configures a Comparer.
type Option func(*Comparer)

// WithDefaultOptions sets the mode an unset ChangeTrackingOptions resolves to.
func WithDefaultOptions(o ChangeTrackingOptions) Option {
	return func(c *Comparer) {
		c.fallback = o.Resolve(DefaultOptions)
	}
}

// New returns a comparer over conv in the given mode.
func New(conv *convert.Converter, opts ChangeTrackingOptions, options ...Option) *Comparer {
	c := &Comparer{conv: conv, fallback: DefaultOptions}
	for _, opt := range options {
		opt(c)
	}
	c.opts = opts.Resolve(c.fallback)
	return c
}

// Type is the model type the comparer applies to.
func (c *Comparer) Type() reflect.Type { return c.conv.ModelType() }

// Options is the resolved mode. It is never ChangeTrackingDefault.
func (c *Comparer) Options() ChangeTrackingOptions { return c.opts }

// Converter returns the converter the comparer serializes with.
func (c *Comparer) Converter() *convert.Converter { return c.conv }

// Clone returns a new comparer for the same type in the requested mode.
func (c *Comparer) Clone(opts ChangeTrackingOptions) *Comparer {
	return &Comparer{
		conv:     c.conv,
		opts:     opts.Resolve(c.fallback),
		fallback: c.fallback,
	}
}

// Equal reports whether a and b are the same value under the comparer's mode.
func (c *Comparer) Equal(a, b any) (bool, error) {
	aNil, bNil := convert.IsNil(a), convert.IsNil(b)
	if aNil || bNil {
		return aNil && bNil, nil
	}

	switch c.opts {
	case CompareRoundTrip:
		na, err := c.conv.Normalize(a)
		if err != nil {
			return false, fmt.Errorf("compare: %w", err)
		}
		nb, err := c.conv.Normalize(b)
		if err != nil {
			return false, fmt.Errorf("compare: %w", err)
		}
		return c.conv.Backend().StructuralEqual(na, nb)
	default:
		sa, err := c.storageBytes(a)
		if err != nil {
			return false, err
		}
		sb, err := c.storageBytes(b)
		if err != nil {
			return false, err
		}
		return bytes.Equal(sa, sb), nil
	}
}

// Hash returns a hash consistent with Equal. Hash(nil) is 0.
func (c *Comparer) Hash(v any) (uint64, error) {
	if convert.IsNil(v) {
		return 0, nil
	}
	if c.opts == CompareRoundTrip {
		n, err := c.conv.Normalize(v)
		if err != nil {
			return 0, fmt.Errorf("hash: %w", err)
		}
		v = n
	}
	data, err := c.storageBytes(v)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}

// Snapshot returns an independent copy of v produced by a storage round trip.
func (c *Comparer) Snapshot(v any) (any, error) {
	if convert.IsNil(v) {
		return nil, nil
	}
	out, err := c.conv.Normalize(v)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return out, nil
}

func (c *Comparer) storageBytes(v any) ([]byte, error) {
	stored, err := c.conv.ToProvider(v)
	if err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}
	switch s := stored.(type) {
	case string:
		return []byte(s), nil
	case []byte:
		return s, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("compare: unexpected storage value %T", stored)
	}
}

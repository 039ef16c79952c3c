package compare

import (
	"fmt"
	"strings"
)

// ChangeTrackingOptions selects how strictly two JSON values are compared.
// The zero value means "unset" and resolves to the provider default.
type ChangeTrackingOptions int

const (
	// ChangeTrackingDefault defers to the provider-wide default.
	ChangeTrackingDefault ChangeTrackingOptions = iota
	// CompareStorageForm compares the serialized storage values directly.
	CompareStorageForm
	// CompareRoundTrip compares values after a storage round trip.
	CompareRoundTrip
)

// DefaultOptions is the provider default when nothing else is configured.
const DefaultOptions = CompareStorageForm

func (o ChangeTrackingOptions) String() string {
	switch o {
	case ChangeTrackingDefault:
		return "default"
	case CompareStorageForm:
		return "storage-form"
	case CompareRoundTrip:
		return "round-trip"
	default:
		return fmt.Sprintf("ChangeTrackingOptions(%d)", int(o))
	}
}

// Resolve returns o, or fallback when o is unset.
func (o ChangeTrackingOptions) Resolve(fallback ChangeTrackingOptions) ChangeTrackingOptions {
	if o == ChangeTrackingDefault {
		if fallback == ChangeTrackingDefault {
			return DefaultOptions
		}
		return fallback
	}
	return o
}

// ParseChangeTrackingOptions accepts "storage-form", "round-trip" and "default" (or empty).
func ParseChangeTrackingOptions(s string) (ChangeTrackingOptions, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return ChangeTrackingDefault, nil
	case "storage-form":
		return CompareStorageForm, nil
	case "round-trip":
		return CompareRoundTrip, nil
	default:
		return 0, fmt.Errorf("unknown change tracking options %q (expected storage-form or round-trip)", s)
	}
}

func (o ChangeTrackingOptions) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *ChangeTrackingOptions) UnmarshalText(text []byte) error {
	parsed, err := ParseChangeTrackingOptions(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

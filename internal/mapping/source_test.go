package mapping

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mysqljson/internal/compare"
	"github.com/roach88/mysqljson/internal/jsondom"
	"github.com/roach88/mysqljson/internal/jsonlib"
)

type blog struct {
	Title string
	Tags  []string
}

func mustFind[T any](t *testing.T, s *Source) *TypeMapping {
	t.Helper()
	m, ok := Find[T](s, StoreType)
	require.True(t, ok, "no mapping for %s", reflect.TypeFor[T]())
	return m
}

func TestFindMapping(t *testing.T) {
	tests := []struct {
		name      string
		typ       reflect.Type
		storeType string
		wantKind  Kind
		wantOK    bool
	}{
		{"document no store type", reflect.TypeFor[*jsondom.Document](), "", KindDocument, true},
		{"document json", reflect.TypeFor[*jsondom.Document](), "json", KindDocument, true},
		{"element padded upper", reflect.TypeFor[jsondom.Value](), "  JSON ", KindElement, true},
		{"object no store type", reflect.TypeFor[jsondom.Object](), "", KindElement, true},
		{"object json", reflect.TypeFor[jsondom.Object](), "json", KindElement, true},
		{"array json", reflect.TypeFor[jsondom.Array](), "json", KindElement, true},
		{"string element json", reflect.TypeFor[jsondom.String](), "json", KindElement, true},
		{"number json", reflect.TypeFor[jsondom.Number](), "json", KindElement, true},
		{"bool json", reflect.TypeFor[jsondom.Bool](), "json", KindElement, true},
		{"null json", reflect.TypeFor[jsondom.Null](), "json", KindElement, true},
		{"pointer to object", reflect.TypeFor[*jsondom.Object](), "json", 0, false},
		{"object varchar", reflect.TypeFor[jsondom.Object](), "varchar(255)", 0, false},
		{"document other store type", reflect.TypeFor[*jsondom.Document](), "longtext", 0, false},
		{"string json", reflect.TypeFor[string](), "json", KindText, true},
		{"string no store type", reflect.TypeFor[string](), "", 0, false},
		{"string varchar", reflect.TypeFor[string](), "varchar(255)", 0, false},
		{"struct", reflect.TypeFor[blog](), "json", KindPOCO, true},
		{"pointer to struct", reflect.TypeFor[*blog](), "Json", KindPOCO, true},
		{"string map", reflect.TypeFor[map[string]any](), "json", KindPOCO, true},
		{"slice", reflect.TypeFor[[]string](), "json", KindPOCO, true},
		{"struct no store type", reflect.TypeFor[*blog](), "", 0, false},
		{"bytes", reflect.TypeFor[[]byte](), "json", 0, false},
		{"int map", reflect.TypeFor[map[int]string](), "json", 0, false},
		{"int", reflect.TypeFor[int](), "json", 0, false},
		{"pointer to int", reflect.TypeFor[*int](), "json", 0, false},
	}

	s := NewSource()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := s.FindMapping(MappingInfo{Type: tt.typ, StoreType: tt.storeType})
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Nil(t, m)
				return
			}
			require.NotNil(t, m)
			assert.Equal(t, tt.wantKind, m.Kind())
			want := tt.typ
			if tt.wantKind == KindElement {
				want = valueType
				assert.Same(t, s.element, m)
			}
			assert.Equal(t, want, m.ClrType())
			assert.Equal(t, want, m.Comparer().Type())
		})
	}
}

func TestFindMappingNilType(t *testing.T) {
	_, ok := NewSource().FindMapping(MappingInfo{StoreType: "json"})
	assert.False(t, ok)
}

func TestPOCOMappingIsCached(t *testing.T) {
	s := NewSource()
	first := mustFind[*blog](t, s)
	second := mustFind[*blog](t, s)
	assert.Same(t, first, second)

	other := mustFind[blog](t, s)
	assert.NotSame(t, first, other)
}

func TestPOCOMappingConcurrentResolution(t *testing.T) {
	s := NewSource()

	const workers = 16
	results := make([]*TypeMapping, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, _ := Find[map[string][]int](s, StoreType)
			results[i] = m
		}()
	}
	wg.Wait()

	for _, m := range results {
		assert.Same(t, results[0], m)
	}
}

func TestResolutionDeterminism(t *testing.T) {
	a := mustFind[*blog](t, NewSource())
	b := mustFind[*blog](t, NewSource())

	values := []any{
		&blog{Title: "x", Tags: []string{"a", "b"}},
		&blog{Title: "x", Tags: []string{"b", "a"}},
		&blog{},
		nil,
	}
	for _, x := range values {
		ha, err := a.Comparer().Hash(x)
		require.NoError(t, err)
		hb, err := b.Comparer().Hash(x)
		require.NoError(t, err)
		assert.Equal(t, ha, hb)

		for _, y := range values {
			ea, err := a.Comparer().Equal(x, y)
			require.NoError(t, err)
			eb, err := b.Comparer().Equal(x, y)
			require.NoError(t, err)
			assert.Equal(t, ea, eb)
		}
	}
}

func TestSourceOptions(t *testing.T) {
	s := NewSource(
		WithLibrary(jsonlib.Goccy{}),
		WithDefaultChangeTracking(compare.CompareRoundTrip),
	)
	assert.Equal(t, "goccy", s.Library().Name())
	assert.Equal(t, compare.CompareRoundTrip, s.DefaultChangeTracking())
	assert.Equal(t, compare.CompareRoundTrip, mustFind[*blog](t, s).Comparer().Options())
	assert.Equal(t, compare.CompareRoundTrip, s.document.Comparer().Options())

	unset := NewSource(WithDefaultChangeTracking(compare.ChangeTrackingDefault))
	assert.Equal(t, compare.CompareStorageForm, unset.DefaultChangeTracking())
}

func TestFindForValue(t *testing.T) {
	s := NewSource()

	m, ok := s.FindForValue(jsondom.MustParseDocument(`{}`))
	require.True(t, ok)
	assert.Equal(t, KindDocument, m.Kind())

	m, ok = s.FindForValue(jsondom.Object{})
	require.True(t, ok)
	assert.Equal(t, KindElement, m.Kind())

	m, ok = s.FindForValue(`[]`)
	require.True(t, ok)
	assert.Equal(t, KindText, m.Kind())

	m, ok = s.FindForValue(&blog{})
	require.True(t, ok)
	assert.Equal(t, KindPOCO, m.Kind())

	_, ok = s.FindForValue(3.5)
	assert.False(t, ok)

	_, ok = s.FindForValue(nil)
	assert.False(t, ok)
}

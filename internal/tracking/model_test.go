package tracking

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mysqljson/internal/compare"
	"github.com/roach88/mysqljson/internal/jsondom"
	"github.com/roach88/mysqljson/internal/mapping"
)

type post struct {
	Tags []string
}

func newModel(opts ...mapping.SourceOption) *Model {
	return NewModel(mapping.NewSource(opts...))
}

func TestEntityAndPropertyDeclarationOrder(t *testing.T) {
	m := newModel()
	blogs := m.Entity("blogs")
	m.Entity("authors")
	assert.Same(t, blogs, m.Entity("blogs"))

	Prop[string](blogs, "title")
	Prop[*post](blogs, "doc").HasColumnType("json")

	var names []string
	for _, e := range m.Entities() {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"blogs", "authors"}, names)

	var props []string
	for _, p := range blogs.Properties() {
		props = append(props, p.Name())
	}
	assert.Equal(t, []string{"title", "doc"}, props)
}

func TestPropertyMapping(t *testing.T) {
	e := newModel().Entity("blogs")

	doc := Prop[*post](e, "doc").HasColumnType("json").IsRequired()
	m, ok := doc.Mapping()
	require.True(t, ok)
	assert.Equal(t, mapping.StoreType, m.StoreType())
	assert.Equal(t, reflect.TypeFor[*post](), m.ClrType())
	assert.False(t, m.Facets().Nullable)

	tree := Prop[*jsondom.Document](e, "tree")
	_, ok = tree.Mapping()
	assert.True(t, ok)

	title := Prop[string](e, "title")
	_, ok = title.Mapping()
	assert.False(t, ok)
	assert.Nil(t, title.Comparer())
}

func TestSetChangeTrackingOptions(t *testing.T) {
	e := newModel().Entity("blogs")
	doc := Prop[*post](e, "doc").HasColumnType("json")

	_, ok := doc.ChangeTrackingOptions()
	assert.False(t, ok)
	assert.Equal(t, compare.CompareStorageForm, doc.Comparer().Options())

	doc.SetChangeTrackingOptions(compare.CompareRoundTrip)
	opts, ok := doc.ChangeTrackingOptions()
	require.True(t, ok)
	assert.Equal(t, compare.CompareRoundTrip, opts)
	assert.Equal(t, compare.CompareRoundTrip, doc.Comparer().Options())
	assert.Equal(t, reflect.TypeFor[*post](), doc.Comparer().Type())

	m, ok := doc.Mapping()
	require.True(t, ok)
	assert.Same(t, doc.Comparer(), m.Comparer())
}

func TestResetRestoresProviderDefault(t *testing.T) {
	src := mapping.NewSource()
	e := NewModel(src).Entity("blogs")
	doc := Prop[*post](e, "doc").HasColumnType("json")
	native, ok := mapping.Find[*post](src, "json")
	require.True(t, ok)

	custom := native.Comparer().Clone(compare.CompareRoundTrip)
	doc.SetValueComparer(custom)
	doc.SetChangeTrackingOptions(compare.CompareRoundTrip)
	assert.NotSame(t, native.Comparer(), doc.Comparer())

	doc.SetChangeTrackingOptions(compare.ChangeTrackingDefault)

	_, ok = doc.ChangeTrackingOptions()
	assert.False(t, ok)
	assert.Same(t, native.Comparer(), doc.Comparer())
	assert.Equal(t, compare.CompareStorageForm, doc.Comparer().Options())
}

func TestResetHonorsConfiguredDefault(t *testing.T) {
	e := newModel(mapping.WithDefaultChangeTracking(compare.CompareRoundTrip)).Entity("blogs")
	doc := Prop[*post](e, "doc").HasColumnType("json")

	doc.SetChangeTrackingOptions(compare.CompareStorageForm)
	assert.Equal(t, compare.CompareStorageForm, doc.Comparer().Options())

	doc.SetChangeTrackingOptions(compare.ChangeTrackingDefault)
	assert.Equal(t, compare.CompareRoundTrip, doc.Comparer().Options())
}

func TestSetChangeTrackingOptionsOnUnmappedProperty(t *testing.T) {
	e := newModel().Entity("blogs")
	title := Prop[string](e, "title").SetChangeTrackingOptions(compare.CompareRoundTrip)

	opts, ok := title.ChangeTrackingOptions()
	require.True(t, ok)
	assert.Equal(t, compare.CompareRoundTrip, opts)
	assert.Nil(t, title.Comparer())
}

func TestRedeclareWithNewTypeDropsComparer(t *testing.T) {
	e := newModel().Entity("blogs")
	doc := Prop[*post](e, "doc").HasColumnType("json").SetChangeTrackingOptions(compare.CompareRoundTrip)

	again := Prop[map[string]any](e, "doc")
	assert.Same(t, doc, again)
	assert.Equal(t, reflect.TypeFor[map[string]any](), doc.Comparer().Type())

	opts, ok := doc.ChangeTrackingOptions()
	require.True(t, ok)
	assert.Equal(t, compare.CompareRoundTrip, opts)
	assert.Equal(t, opts, doc.Comparer().Options())

	m, ok := doc.Mapping()
	require.True(t, ok)
	assert.Equal(t, opts, m.Comparer().Options())
}

func TestChangeTrackingModeFollowsMappingChanges(t *testing.T) {
	tests := []struct {
		name    string
		declare func(e *Entity) *Property
		wantTyp reflect.Type
	}{
		{
			name: "redeclared type",
			declare: func(e *Entity) *Property {
				Prop[*post](e, "doc").HasColumnType("json").SetChangeTrackingOptions(compare.CompareRoundTrip)
				return Prop[jsondom.Object](e, "doc")
			},
			wantTyp: reflect.TypeFor[jsondom.Value](),
		},
		{
			name: "mode set before column type",
			declare: func(e *Entity) *Property {
				return Prop[*post](e, "doc").SetChangeTrackingOptions(compare.CompareRoundTrip).HasColumnType("json")
			},
			wantTyp: reflect.TypeFor[*post](),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.declare(newModel().Entity("blogs"))
			opts, ok := p.ChangeTrackingOptions()
			require.True(t, ok)
			require.NotNil(t, p.Comparer())
			assert.Equal(t, opts, p.Comparer().Options())
			assert.Equal(t, tt.wantTyp, p.Comparer().Type())
		})
	}
}

func TestRedeclareWithoutModeUsesProviderDefault(t *testing.T) {
	e := newModel().Entity("blogs")
	Prop[*post](e, "doc").HasColumnType("json")
	doc := Prop[map[string]any](e, "doc")

	_, ok := doc.ChangeTrackingOptions()
	assert.False(t, ok)
	assert.Equal(t, compare.CompareStorageForm, doc.Comparer().Options())
}

func TestAnnotations(t *testing.T) {
	p := Prop[string](newModel().Entity("e"), "p")

	p.SetAnnotation("x", 1)
	v, ok := p.Annotation("x")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	p.SetAnnotation("x", nil)
	_, ok = p.Annotation("x")
	assert.False(t, ok)
}

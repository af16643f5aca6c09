package record

import (
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/typedcol"
	"github.com/tuannm99/typedcol/codec"
	"github.com/tuannm99/typedcol/store"
)

func bookSchema(t *testing.T) typedcol.Schema {
	t.Helper()
	spec, err := typedcol.NewEnumSpec("novel", "essay", "poetry")
	require.NoError(t, err)
	return typedcol.Schema{Cols: []typedcol.Column{
		{Name: "title", Type: typedcol.ColText, Nullable: true},
		{Name: "style", Type: typedcol.ColEnum, Enum: spec, Nullable: true},
		{Name: "tags", Type: typedcol.ColArray, Nullable: true},
		{Name: "meta", Type: typedcol.ColObject, Nullable: true},
		{Name: "cover", Type: typedcol.ColBlob, Nullable: true},
	}}
}

func TestSetGet_EnumEndToEnd(t *testing.T) {
	r := New(bookSchema(t), codec.NewRegistry())

	require.NoError(t, r.Set("style", "novel"))
	v, err := r.Get("style")
	require.NoError(t, err)
	require.Equal(t, "novel", v)

	err = r.Set("style", "thriller")
	require.ErrorIs(t, err, codec.ErrInvalidEnumValue)

	// Failed set leaves the stored value untouched.
	v, err = r.Get("style")
	require.NoError(t, err)
	require.Equal(t, "novel", v)
}

func TestSet_ArrayShapeFailsFast(t *testing.T) {
	r := New(bookSchema(t), codec.NewRegistry())

	require.NoError(t, r.Set("tags", []string{"a"}))

	err := r.Set("tags", []any{"ok", []any{"nested"}})
	require.ErrorIs(t, err, codec.ErrInvalidArrayShape)

	v, err := r.Get("tags")
	require.NoError(t, err)
	require.Equal(t, []any{"a"}, v)
}

func TestDirty_EqualValueSkipsFlag(t *testing.T) {
	r := New(bookSchema(t), codec.NewRegistry())

	require.NoError(t, r.Set("title", "War and Peace"))
	dirty, err := r.IsDirty("title")
	require.NoError(t, err)
	require.True(t, dirty)

	require.NoError(t, r.Save(store.NewMemory(nil), uuid.New()))
	dirty, err = r.IsDirty("title")
	require.NoError(t, err)
	require.False(t, dirty)

	// Same value again: flag stays clean.
	require.NoError(t, r.Set("title", "War and Peace"))
	dirty, err = r.IsDirty("title")
	require.NoError(t, err)
	require.False(t, dirty)

	require.NoError(t, r.Set("title", "Anna Karenina"))
	dirty, err = r.IsDirty("title")
	require.NoError(t, err)
	require.True(t, dirty)
}

func TestDirty_BlobAlwaysSet(t *testing.T) {
	r := New(bookSchema(t), codec.NewRegistry())
	db := store.NewMemory(nil)

	bv := typedcol.NewBlobValue([]byte("cover art"))
	require.NoError(t, r.Set("cover", bv))
	require.NoError(t, r.Save(db, uuid.New()))

	dirty, err := r.IsDirty("cover")
	require.NoError(t, err)
	require.False(t, dirty)

	// Setting the very same handle again still dirties the field.
	require.NoError(t, r.Set("cover", bv))
	dirty, err = r.IsDirty("cover")
	require.NoError(t, err)
	require.True(t, dirty)

	require.NoError(t, r.Set("cover", bv))
	dirty, err = r.IsDirty("cover")
	require.NoError(t, err)
	require.True(t, dirty)
}

func TestSet_BlobGetIsStreamShaped(t *testing.T) {
	r := New(bookSchema(t), codec.NewRegistry())

	require.NoError(t, r.Set("cover", []byte("raw bytes")))
	v, err := r.Get("cover")
	require.NoError(t, err)

	bv, ok := v.(*typedcol.BlobValue)
	require.True(t, ok, "blob get must be stream-shaped, got %T", v)
	got, err := io.ReadAll(bv)
	require.NoError(t, err)
	require.Equal(t, "raw bytes", string(got))
}

func TestSet_Null(t *testing.T) {
	schema := bookSchema(t)
	schema.Cols[0].Nullable = false
	r := New(schema, codec.NewRegistry())

	err := r.Set("title", nil)
	require.ErrorIs(t, err, ErrNotNullable)

	require.NoError(t, r.Set("tags", []string{"a"}))
	require.NoError(t, r.Set("tags", nil))
	v, err := r.Get("tags")
	require.NoError(t, err)
	require.Nil(t, v)
	dirty, err := r.IsDirty("tags")
	require.NoError(t, err)
	require.True(t, dirty)
}

func TestArrayOps(t *testing.T) {
	r := New(bookSchema(t), codec.NewRegistry())

	require.NoError(t, r.Set("tags", []string{"novel", "russian"}))

	ok, err := r.Has("tags", "russian")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = r.Has("tags", "fantasy")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, r.Add("tags", "romantic"))
	v, err := r.Get("tags")
	require.NoError(t, err)
	require.Equal(t, []any{"novel", "russian", "romantic"}, v)

	require.NoError(t, r.Remove("tags", "russian"))
	v, err = r.Get("tags")
	require.NoError(t, err)
	require.Equal(t, []any{"novel", "romantic"}, v)
}

func TestArrayOps_RemoveAbsentIsNoop(t *testing.T) {
	r := New(bookSchema(t), codec.NewRegistry())
	db := store.NewMemory(nil)

	require.NoError(t, r.Set("tags", []string{"a"}))
	require.NoError(t, r.Save(db, uuid.New()))

	require.NoError(t, r.Remove("tags", "missing"))
	v, err := r.Get("tags")
	require.NoError(t, err)
	require.Equal(t, []any{"a"}, v)

	dirty, err := r.IsDirty("tags")
	require.NoError(t, err)
	require.False(t, dirty)
}

func TestArrayOps_WrongColumnType(t *testing.T) {
	r := New(bookSchema(t), codec.NewRegistry())

	_, err := r.Has("title", "x")
	require.ErrorIs(t, err, ErrNotArrayColumn)
	err = r.Add("title", "x")
	require.ErrorIs(t, err, ErrNotArrayColumn)
	err = r.Remove("title", "x")
	require.ErrorIs(t, err, ErrNotArrayColumn)
}

func TestUnknownColumn(t *testing.T) {
	r := New(bookSchema(t), codec.NewRegistry())

	_, err := r.Get("nope")
	require.ErrorIs(t, err, ErrUnknownColumn)
	err = r.Set("nope", 1)
	require.ErrorIs(t, err, ErrUnknownColumn)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	schema := bookSchema(t)
	reg := codec.NewRegistry()
	db := store.NewMemory(nil)

	r := New(schema, reg)
	require.NoError(t, r.Set("title", "War and Peace"))
	require.NoError(t, r.Set("style", "novel"))
	require.NoError(t, r.Set("tags", []string{"novel", "russian", "romantic"}))
	require.NoError(t, r.Set("meta", map[string]any{"pages": int64(1225)}))
	require.NoError(t, r.Set("cover", []byte{0x01, 0x02}))

	key := uuid.New()
	require.NoError(t, r.Save(db, key))
	require.Empty(t, r.DirtyColumns())

	loaded, err := Load(db, key, schema, reg)
	require.NoError(t, err)
	require.Empty(t, loaded.DirtyColumns())

	title, err := loaded.Get("title")
	require.NoError(t, err)
	require.Equal(t, "War and Peace", title)

	style, err := loaded.Get("style")
	require.NoError(t, err)
	require.Equal(t, "novel", style)

	tags, err := loaded.Get("tags")
	require.NoError(t, err)
	require.Equal(t, []any{"novel", "russian", "romantic"}, tags)

	meta, err := loaded.Get("meta")
	require.NoError(t, err)
	require.Equal(t, map[string]any{"pages": int64(1225)}, meta)

	cover, err := loaded.Get("cover")
	require.NoError(t, err)
	bv, ok := cover.(*typedcol.BlobValue)
	require.True(t, ok)
	got, err := io.ReadAll(bv)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, got)
	require.NoError(t, bv.Close())

	// meta was never set on this record -> nil, no error.
	fresh := New(schema, reg)
	require.NoError(t, fresh.Set("title", "bare"))
	key2 := uuid.New()
	require.NoError(t, fresh.Save(db, key2))

	loaded2, err := Load(db, key2, schema, reg)
	require.NoError(t, err)
	meta2, err := loaded2.Get("meta")
	require.NoError(t, err)
	require.Nil(t, meta2)
}

func TestLoad_MissingKey(t *testing.T) {
	_, err := Load(store.NewMemory(nil), uuid.New(), bookSchema(t), codec.NewRegistry())
	require.ErrorIs(t, err, store.ErrRecordNotFound)
}

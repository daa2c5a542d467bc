package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_KeepsInsertionOrder(t *testing.T) {
	b := NewBatch(3)
	b.Set("c", Resolution{Name: "C", Store: StoreChrome})
	b.Set("a", NotFound())
	b.Set("b", Resolution{Name: "B", Store: StoreEdge})

	assert.Equal(t, []ExtensionID{"c", "a", "b"}, b.IDs())

	entries := b.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "C", entries[0].Name)
	assert.Equal(t, NameNotFound, entries[1].Name)
	assert.Equal(t, Store(""), entries[1].Store)
}

func TestBatch_DuplicateLastWriteWins(t *testing.T) {
	b := NewBatch(0)
	b.Set("x", NotFound())
	b.Set("y", Resolution{Name: "Y", Store: StoreChrome})
	b.Set("x", Resolution{Name: "X", Store: StoreEdge})

	// 重复 key 只保留一条，位置是第一次出现的位置，值是最后一次写入的值。
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []ExtensionID{"x", "y"}, b.IDs())
	got, ok := b.Get("x")
	require.True(t, ok)
	assert.Equal(t, Resolution{Name: "X", Store: StoreEdge}, got)
}

func TestBatch_Summary(t *testing.T) {
	b := NewBatch(2)
	b.Set("a", Resolution{Name: "A", Store: StoreChrome})
	b.Set("b", NotFound())

	found, missing := b.Summary()
	assert.Equal(t, 1, found)
	assert.Equal(t, 1, missing)
}

func TestParseStore(t *testing.T) {
	cases := map[string]Store{
		"":       "",
		"chrome": StoreChrome,
		" Edge ": StoreEdge,
		"CHROME": StoreChrome,
	}
	for in, want := range cases {
		got, err := ParseStore(in)
		require.NoError(t, err, "input=%q", in)
		assert.Equal(t, want, got, "input=%q", in)
	}

	_, err := ParseStore("firefox")
	assert.Error(t, err)
}

func TestParseExtensionID(t *testing.T) {
	id, ok := ParseExtensionID("  abc  ")
	require.True(t, ok)
	assert.Equal(t, ExtensionID("abc"), id)

	_, ok = ParseExtensionID("   ")
	assert.False(t, ok)
}

package domain_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/devpipe/internal/core/domain"
)

func TestDocument_Get_Interpolation(t *testing.T) {
	doc := newDoc(t, map[string]string{
		"dp.build_root": "/work/build",
		"prefix":        "/usr",
	}, "zlib", "app")
	zlib, _ := doc.Section("zlib")
	zlib.Set("dp.build_dir", "${dp.build_root}/zlib")
	zlib.Set("prefix", "/opt/zlib")
	zlib.Set("lib", "${prefix}/lib")
	app, _ := doc.Section("app")
	app.Set("deps", "${zlib:lib}")
	app.Set("price", "$$5")
	app.Set("global", "${DEFAULT:prefix}")

	tests := []struct {
		section string
		key     string
		want    string
	}{
		{section: "zlib", key: "dp.build_dir", want: "/work/build/zlib"},
		{section: "zlib", key: "lib", want: "/opt/zlib/lib"},
		{section: "app", key: "deps", want: "/opt/zlib/lib"},
		{section: "app", key: "price", want: "$5"},
		{section: "app", key: "global", want: "/usr"},
		{section: "app", key: "prefix", want: "/usr"},
	}

	for _, tt := range tests {
		t.Run(tt.section+"/"+tt.key, func(t *testing.T) {
			got, err := doc.Get(tt.section, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocument_Get_ReinterpolatesOnRead(t *testing.T) {
	doc := newDoc(t, map[string]string{"root": "/a"}, "foo")
	foo, _ := doc.Section("foo")
	foo.Set("dir", "${root}/foo")

	got, err := doc.Get("foo", "dir")
	require.NoError(t, err)
	assert.Equal(t, "/a/foo", got)

	doc.Global().Set("root", "/b")
	got, err = doc.Get("foo", "dir")
	require.NoError(t, err)
	assert.Equal(t, "/b/foo", got)
}

func TestDocument_Get_InterpolationErrors(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "unresolved reference", value: "${missing}"},
		{name: "unresolved section", value: "${nope:key}"},
		{name: "bare dollar", value: "cost $5"},
		{name: "unterminated", value: "${root"},
		{name: "empty reference", value: "${}"},
		{name: "self reference", value: "${loop}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newDoc(t, map[string]string{"root": "/a"}, "foo")
			foo, _ := doc.Section("foo")
			foo.Set("loop", tt.value)

			_, err := doc.Get("foo", "loop")
			require.ErrorIs(t, err, domain.ErrInterpolation)
			require.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}

func TestDocument_Get_DepthLimit(t *testing.T) {
	build := func(n int) *domain.Document {
		doc := newDoc(t, nil)
		g := doc.Global()
		g.Set("k0", "end")
		for i := 1; i <= n; i++ {
			g.Set(fmt.Sprintf("k%d", i), fmt.Sprintf("${k%d}", i-1))
		}
		return doc
	}

	doc := build(domain.MaxInterpolationDepth - 1)
	got, err := doc.Get(domain.GlobalSection, fmt.Sprintf("k%d", domain.MaxInterpolationDepth-1))
	require.NoError(t, err)
	assert.Equal(t, "end", got)

	doc = build(domain.MaxInterpolationDepth + 1)
	_, err = doc.Get(domain.GlobalSection, fmt.Sprintf("k%d", domain.MaxInterpolationDepth+1))
	require.ErrorIs(t, err, domain.ErrInterpolation)
}

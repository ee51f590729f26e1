package signature

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Signature
	}{
		{"empty", "", Signature{0, 0, 0}},
		{"single line", "hello world", Signature{1, 2, 11}},
		{"trailing newline", "a b\nc\n", Signature{2, 3, 6}},
		{"blank lines", "\n\n", Signature{2, 0, 2}},
		{"crlf", "one\r\ntwo", Signature{2, 2, 8}},
		{"multibyte", "héllo wörld", Signature{1, 2, 11}},
		{"truncated sequence", "\xE2\x82", Signature{1, 1, 1}},
		{"truncated inside text", "a\xE2\x82b", Signature{1, 1, 3}},
		{"truncated four byte", "\xF0\x9F\x98!", Signature{1, 1, 2}},
		{"stray bytes", "\xFF\xFE", Signature{1, 1, 2}},
		{"surrogate", "\xED\xA0\x80", Signature{1, 1, 3}},
		{"replacement char", "\uFFFD", Signature{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromBody([]byte(tt.body)))
		})
	}
}

func TestIsNoise(t *testing.T) {
	baseline := NewBaseline(Signature{10, 50, 500})

	assert.True(t, IsNoise(Signature{10, 50, 999}, baseline), "lines and words match")
	assert.False(t, IsNoise(Signature{10, 60, 999}, baseline), "only lines match")
	assert.True(t, IsNoise(Signature{1, 50, 500}, baseline), "words and chars match")
	assert.True(t, IsNoise(Signature{10, 50, 500}, baseline), "exact match")
}

func TestIsNoiseEmptyBaseline(t *testing.T) {
	for _, s := range []Signature{{}, {1, 2, 3}, {10, 50, 500}} {
		assert.False(t, IsNoise(s, Baseline{}))
		assert.False(t, IsNoise(s, NewBaseline()))
	}
}

func TestMatchesIsSymmetric(t *testing.T) {
	sigs := []Signature{{0, 0, 0}, {10, 50, 500}, {10, 50, 999}, {10, 60, 999}, {3, 50, 500}, {3, 4, 5}}
	for _, a := range sigs {
		for _, b := range sigs {
			assert.Equal(t, Matches(a, b), Matches(b, a), "%v vs %v", a, b)
			assert.Equal(t, IsNoise(a, NewBaseline(b)), IsNoise(b, NewBaseline(a)), "%v vs %v", a, b)
		}
	}
}

func TestBaselineCollapsesDuplicates(t *testing.T) {
	var builder BaselineBuilder
	assert.True(t, builder.Add(Signature{5, 20, 300}))
	assert.False(t, builder.Add(Signature{5, 20, 300}))
	assert.True(t, builder.Add(Signature{1, 1, 1}))

	baseline := builder.Freeze()
	require.Equal(t, 2, baseline.Len())
	assert.Equal(t, []Signature{{1, 1, 1}, {5, 20, 300}}, baseline.Signatures())
}

func TestFrozenBaselineIsUnaffectedByLaterAdds(t *testing.T) {
	var builder BaselineBuilder
	builder.Add(Signature{1, 1, 1})
	baseline := builder.Freeze()
	builder.Add(Signature{2, 2, 2})

	assert.Equal(t, 1, baseline.Len())
	assert.False(t, IsNoise(Signature{2, 2, 9}, baseline))
}

func TestBaselineBuilderConcurrentAdds(t *testing.T) {
	var builder BaselineBuilder
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			builder.Add(Signature{i % 5, 0, 0})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 5, builder.Freeze().Len())
}

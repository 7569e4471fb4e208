package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		original string
		codes    []string
		want     string
	}{
		{name: "single", original: "cat.png", codes: []string{"fliph"}, want: "cat__fliph.png"},
		{name: "chain with dotted params", original: "cat.png", codes: []string{"blur_2.0", "noise_0.05"}, want: "cat__blur_2.0__noise_0.05.png"},
		{name: "order preserved", original: "photo.jpg", codes: []string{"fliph", "blur_2.0"}, want: "photo__fliph__blur_2.0.jpg"},
		{name: "dotted stem", original: "my.photo.jpeg", codes: []string{"trans_10_10"}, want: "my.photo__trans_10_10.jpeg"},
		{name: "no extension", original: "raw", codes: []string{"fliph"}, want: "raw__fliph"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Build(tt.original, tt.codes...))
			assert.Equal(t, tt.want, Build(tt.original, tt.codes...), "must be deterministic")
		})
	}
}

func TestBuild_DistinctChainsDistinctNames(t *testing.T) {
	chains := [][]string{
		{"fliph"},
		{"flipv"},
		{"fliph", "flipv"},
		{"flipv", "fliph"},
		{"blur_1.0"},
		{"blur_1.0", "noise_0.01"},
		{"noise_0.01", "blur_1.0"},
		{"trans_10_10"},
		{"trans_10_10", "trans_10_10"},
	}

	seen := make(map[string][]string)
	for _, codes := range chains {
		name := Build("cat.png", codes...)
		prev, dup := seen[name]
		assert.False(t, dup, "%v and %v both produce %s", prev, codes, name)
		seen[name] = codes

		assert.True(t, IsAugmented(name), name)
		assert.Equal(t, codes, Codes(name))
	}
}

func TestIsAugmented(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"cat.png", false},
		{"cat_fliph.png", false},
		{"cat__fliph.png", true},
		{"cat__blur_2.0__noise_0.05.png", true},
		{"__fliph.png", true},
		{"my.photo__fliph.jpg", true},
		{"cat__.png", false},
		{"cat____fliph.png", true},
		{"cat__fliph__.png", true},
		{"cat___.png", true},
		{"cat__fliph", false},
		{"cat__fliph.", false},
		{"notes.txt", false},
		{"notes__draft.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAugmented(tt.name))
		})
	}
}

func TestIsAugmented_BuildOutputs(t *testing.T) {
	sources := []string{"cat.png", "a__.png", "a_.png", "a___.png", ".png", "__.png", "my.photo.jpg", "my__photo.jpg"}
	chains := [][]string{
		{"fliph"},
		{"blur_2.0", "noise_0.05"},
		{"zoom_0_0_4_4", "rot90", "trans_-1_2"},
	}

	for _, src := range sources {
		for _, codes := range chains {
			name := Build(src, codes...)
			assert.True(t, IsAugmented(name), "%s + %v -> %s", src, codes, name)
		}
	}
}

func TestExtensions_Supported(t *testing.T) {
	exts := NewExtensions("png", ".jpg", " jpeg ", "")

	tests := []struct {
		name string
		want bool
	}{
		{"cat.png", true},
		{"cat.jpg", true},
		{"cat.jpeg", true},
		{"cat__fliph.png", true},
		{"cat.PNG", false},
		{"cat.bmp", false},
		{"notes.txt", false},
		{"png", false},
		{"cat.png.tmp", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exts.Supported(tt.name))
		})
	}

	assert.Equal(t, []string{"png", "jpg", "jpeg"}, exts.List())
}

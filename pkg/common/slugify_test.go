package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Super Glue_2000!! ", "super-glue-2000"},
		{"Hello World", "hello-world"},
		{"multi   space", "multi-space"},
		{"under__score__run", "under-score-run"},
		{"MiXeD CaSe", "mixed-case"},
		{"dots.are.kept", "dots.are.kept"},
		{"--leading and trailing--", "leading-and-trailing"},
		{"!!!", ""},
		{"", ""},
		{"   ", ""},
		{"Ünïcödé Glue", "ncd-glue"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Slugify(c.in), "input %q", c.in)
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"Super Glue 2000", "a_b c-d", "  Spring   Sale!  ", "v1.2.3 release"}
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once))
	}
}

func TestSlugifyAlphabet(t *testing.T) {
	out := Slugify("Glue & Paste: 50% OFF _now_ (really)")
	for _, r := range out {
		valid := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '.'
		assert.True(t, valid, "unexpected rune %q in %q", r, out)
	}
	if out != "" {
		assert.NotEqual(t, byte('-'), out[0])
		assert.NotEqual(t, byte('-'), out[len(out)-1])
	}
}

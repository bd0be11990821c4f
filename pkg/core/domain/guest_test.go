package domain

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Uncle Rajan", want: "uncle-rajan"},
		{name: "surrounding whitespace", in: "  Aunt   Meena \t", want: "aunt-meena"},
		{name: "punctuation stripped", in: "Dr. K. Ravi & Family!", want: "dr-k-ravi--family"},
		{name: "digits kept", in: "Table 12", want: "table-12"},
		{name: "non ascii dropped", in: "Zoë Café", want: "zo-caf"},
		{name: "empty", in: "", want: ""},
		{name: "no-break space", in: "Uncle\u00a0Rajan", want: "uncle-rajan"},
		{name: "vertical tab", in: "Uncle\vRajan", want: "uncle-rajan"},
		{name: "em space", in: "Uncle\u2003Rajan", want: "uncle-rajan"},
		{name: "ideographic space", in: "Uncle\u3000Rajan", want: "uncle-rajan"},
		{name: "mixed unicode run", in: "\uFEFFAunt \u00a0\u202fMeena\u3000", want: "aunt-meena"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugifyAlphabet(t *testing.T) {
	allowed := regexp.MustCompile(`^[a-z0-9-]*$`)
	inputs := []string{"Ünïcödé  Näme", "TAB\tSEP", "a/b?c=d", "🎉 party 🎉", "__init__"}
	for _, in := range inputs {
		out := Slugify(in)
		assert.Regexp(t, allowed, out, "input %q", in)
		assert.Equal(t, out, Slugify(in), "not deterministic for %q", in)
	}
}

func TestDeslugify(t *testing.T) {
	name, ok := Deslugify("uncle-rajan")
	assert.True(t, ok)
	assert.Equal(t, "Uncle Rajan", name)

	name, ok = Deslugify("mAdHu-SUDAN")
	assert.True(t, ok)
	assert.Equal(t, "Madhu Sudan", name)

	_, ok = Deslugify("")
	assert.False(t, ok)
}

func TestDeslugifyIsNotInverse(t *testing.T) {
	original := "Dr. K. Ravi"
	back, ok := Deslugify(Slugify(original))
	assert.True(t, ok)
	assert.Equal(t, "Dr K Ravi", back)
	assert.NotEqual(t, original, back)
}

func TestNewGuestLink(t *testing.T) {
	link := NewGuestLink("https://wedding.example.com/", " Uncle Rajan ")
	assert.Equal(t, GuestLink{
		DisplayName: "Uncle Rajan",
		Slug:        "uncle-rajan",
		URL:         "https://wedding.example.com/invite/uncle-rajan",
	}, link)
}

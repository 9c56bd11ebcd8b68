package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripDataURIs(t *testing.T) {
	in := "Look: ![bridge](data:image/png;base64,iVBORw0KGgo+/=) and data:image/jpeg;base64,AAAA end"
	assert.Equal(t, "Look: ![bridge]([image]) and [image] end", StripDataURIs(in))
	assert.Equal(t, "plain text", StripDataURIs("plain text"))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "abc", Clip("  abc  ", 10))
	assert.Equal(t, "ab", Clip("abc", 2))
	assert.Equal(t, "héé", Clip("hééllo", 3))
	assert.Equal(t, "abc", Clip("abc", 0))
}

func TestForPrompt(t *testing.T) {
	assert.Equal(t, "see [im", ForPrompt("see data:image/png;base64,AAAA", 7))
}

func TestTitleFrom(t *testing.T) {
	assert.Equal(t, "Bridge survey", TitleFrom("\n\n## Bridge survey\nbody", 40))
	assert.Equal(t, "first item", TitleFrom("- first item\n- second", 40))
	assert.Equal(t, "abcd", TitleFrom("abcdefgh", 4))
	assert.Empty(t, TitleFrom("   \n  ", 10))
}

func TestSplitText(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitText("short", 10, 2))
	assert.Equal(t, []string{"abcd", "cdef", "efgh"}, SplitText("abcdefgh", 4, 2))
	assert.Equal(t, []string{"abc", "def", "gh"}, SplitText("abcdefgh", 3, 5))
}

func TestSplitParagraphs(t *testing.T) {
	text := "First para.\r\n\r\nSecond para.\n\n\n\nThird para that is long enough to be cut in pieces."

	chunks := SplitParagraphs(text, 30)

	assert.Equal(t, "First para.\n\nSecond para.", chunks[0])
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 30)
	}
	assert.Equal(t, text[strings.Index(text, "Third"):], strings.Join(chunks[1:], ""))

	assert.Empty(t, SplitParagraphs("  \n\n ", 30))
	assert.Equal(t, []string{"a\n\nb"}, SplitParagraphs("a\n\nb", 0))
}

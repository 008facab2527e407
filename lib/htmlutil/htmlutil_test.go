package htmlutil

import (
	"slices"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseFragment(t testing.TB, markup string) *html.Node {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatal(err)
	}
	sel := doc.Find("#target")
	if sel.Length() == 0 {
		t.Fatal("no #target in markup")
	}
	return sel.Nodes[0]
}

func TestTexts(t *testing.T) {
	cases := []struct {
		markup   string
		expected []string
	}{
		{
			markup:   `<span id="target">  Tent  </span>`,
			expected: []string{"Tent"},
		},
		{
			markup: `<span id="target">
				<a href="#"> <b>Zpacks</b> Duplex </a>
				tail
			</span>`,
			expected: []string{"Zpacks", "Duplex", "tail"},
		},
		{
			markup:   `<span id="target">   <i>   </i>  </span>`,
			expected: nil,
		},
		{
			markup:   `<span id="target"></span>`,
			expected: nil,
		},
	}

	for _, test := range cases {
		node := parseFragment(t, test.markup)
		require.Equal(t, test.expected, slices.Collect(Texts(node)), test.markup)
		// restartable
		require.Equal(t, test.expected, slices.Collect(Texts(node)), test.markup)
	}
}

func TestFirstText(t *testing.T) {
	node := parseFragment(t, `<span id="target"><a> <em></em> </a><a>first</a> second</span>`)
	text, ok := FirstText(node)
	require.True(t, ok)
	require.Equal(t, "first", text)

	_, ok = FirstText(parseFragment(t, `<span id="target">   </span>`))
	require.False(t, ok)

	_, ok = FirstText(nil)
	require.False(t, ok)
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "Sleep System", CleanText("  Sleep\n\t  System \n"))
	require.Equal(t, "ab", CleanText("a\u0000b"))
}

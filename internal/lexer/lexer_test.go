package lexer

import (
	"iter"
	"strconv"
	"strings"
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"
	"github.com/teleivo/bgraph/internal/token"
)

func TestLexer(t *testing.T) {
	tests := map[string]struct {
		in   string
		want []token.Token
	}{
		"Empty": {
			in:   "",
			want: []token.Token{},
		},
		"OnlyWhitespace": {
			in:   "\t \n \t\t   ",
			want: []token.Token{},
		},
		"LiteralSingleCharacterTokens": {
			in: "{};=[],:",
			want: []token.Token{
				{Type: token.LeftBrace, Literal: "{"},
				{Type: token.RightBrace, Literal: "}"},
				{Type: token.Semicolon, Literal: ";"},
				{Type: token.Equal, Literal: "="},
				{Type: token.LeftBracket, Literal: "["},
				{Type: token.RightBracket, Literal: "]"},
				{Type: token.Comma, Literal: ","},
				{Type: token.Colon, Literal: ":"},
			},
		},
		"KeywordsAreCaseInsensitive": {
			in: " graph Graph strict  Strict\ndigraph\tDigraph Subgraph  subgraph Node node edge Edge \n \t ",
			want: []token.Token{
				{Type: token.Graph, Literal: "graph"},
				{Type: token.Graph, Literal: "Graph"},
				{Type: token.Strict, Literal: "strict"},
				{Type: token.Strict, Literal: "Strict"},
				{Type: token.Digraph, Literal: "digraph"},
				{Type: token.Digraph, Literal: "Digraph"},
				{Type: token.Subgraph, Literal: "Subgraph"},
				{Type: token.Subgraph, Literal: "subgraph"},
				{Type: token.Node, Literal: "Node"},
				{Type: token.Node, Literal: "node"},
				{Type: token.Edge, Literal: "edge"},
				{Type: token.Edge, Literal: "Edge"},
			},
		},
		"AttributeList": {
			in: `	graph [
				labelloc = t
				fontname = "Helvetica,Arial,sans-serif",fontsize=16
			]
					edge [arrowhead=none color="#00008844",style = filled];  `,
			want: []token.Token{
				{Type: token.Graph, Literal: "graph"},
				{Type: token.LeftBracket, Literal: "["},
				{Type: token.Identifier, Literal: "labelloc"},
				{Type: token.Equal, Literal: "="},
				{Type: token.Identifier, Literal: "t"},
				{Type: token.Identifier, Literal: "fontname"},
				{Type: token.Equal, Literal: "="},
				{Type: token.Identifier, Literal: `"Helvetica,Arial,sans-serif"`},
				{Type: token.Comma, Literal: ","},
				{Type: token.Identifier, Literal: "fontsize"},
				{Type: token.Equal, Literal: "="},
				{Type: token.Identifier, Literal: "16"},
				{Type: token.RightBracket, Literal: "]"},
				{Type: token.Edge, Literal: "edge"},
				{Type: token.LeftBracket, Literal: "["},
				{Type: token.Identifier, Literal: "arrowhead"},
				{Type: token.Equal, Literal: "="},
				{Type: token.Identifier, Literal: "none"},
				{Type: token.Identifier, Literal: "color"},
				{Type: token.Equal, Literal: "="},
				{Type: token.Identifier, Literal: `"#00008844"`},
				{Type: token.Comma, Literal: ","},
				{Type: token.Identifier, Literal: "style"},
				{Type: token.Equal, Literal: "="},
				{Type: token.Identifier, Literal: "filled"},
				{Type: token.RightBracket, Literal: "]"},
				{Type: token.Semicolon, Literal: ";"},
			},
		},
		"Subgraphs": {
			in: `  A -> {B C}
				D -- E
			subgraph {
				"F"
			  rank = same; A;B;C;
			}`,
			want: []token.Token{
				{Type: token.Identifier, Literal: "A"},
				{Type: token.DirectedEgde, Literal: "->"},
				{Type: token.LeftBrace, Literal: "{"},
				{Type: token.Identifier, Literal: "B"},
				{Type: token.Identifier, Literal: "C"},
				{Type: token.RightBrace, Literal: "}"},
				{Type: token.Identifier, Literal: "D"},
				{Type: token.UndirectedEgde, Literal: "--"},
				{Type: token.Identifier, Literal: "E"},
				{Type: token.Subgraph, Literal: "subgraph"},
				{Type: token.LeftBrace, Literal: "{"},
				{Type: token.Identifier, Literal: `"F"`},
				{Type: token.Identifier, Literal: "rank"},
				{Type: token.Equal, Literal: "="},
				{Type: token.Identifier, Literal: "same"},
				{Type: token.Semicolon, Literal: ";"},
				{Type: token.Identifier, Literal: "A"},
				{Type: token.Semicolon, Literal: ";"},
				{Type: token.Identifier, Literal: "B"},
				{Type: token.Semicolon, Literal: ";"},
				{Type: token.Identifier, Literal: "C"},
				{Type: token.Semicolon, Literal: ";"},
				{Type: token.RightBrace, Literal: "}"},
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			lexer := New(strings.NewReader(test.in))

			got := make([]token.Token, 0, len(test.want))
			for tok, err := range lexer.All() {
				require.NoErrorf(t, err, "All(%q)", test.in)
				got = append(got, tok)
			}
			assert.EqualValuesf(t, got, test.want, "All(%q)", test.in)
		})
	}

	// https://graphviz.org/doc/info/lang.html#ids
	t.Run("UnquotedIdentifiers", func(t *testing.T) {
		t.Run("Valid", func(t *testing.T) {
			tests := []struct {
				in   string
				want token.Token
			}{
				{in: "_A", want: token.Token{Type: token.Identifier, Literal: "_A"}},
				{in: "A_cZ", want: token.Token{Type: token.Identifier, Literal: "A_cZ"}},
				{in: "A10", want: token.Token{Type: token.Identifier, Literal: "A10"}},
				{in: `ÿ  `, want: token.Token{Type: token.Identifier, Literal: `ÿ`}},
			}

			for i, test := range tests {
				t.Run(strconv.Itoa(i), func(t *testing.T) {
					lexer := New(strings.NewReader(test.in))
					next, stop := iter.Pull2(lexer.All())
					defer stop()

					got, err, ok := next()

					assert.EqualValuesf(t, got, test.want, "All(%q)", test.in)
					assert.NoErrorf(t, err, "All(%q)", test.in)
					assert.Truef(t, ok, "All(%q)", test.in)

					_, _, ok = next()
					assert.Falsef(t, ok, "All(%q) want only one token", test.in)
				})
			}
		})

		t.Run("Invalid", func(t *testing.T) {
			tests := []struct {
				in         string
				wantReason string
			}{
				{in: "  \177", wantReason: "not begin with a digit"},
				{in: "Ā", wantReason: "not begin with a digit"},
			}

			for i, test := range tests {
				t.Run(strconv.Itoa(i), func(t *testing.T) {
					lexer := New(strings.NewReader(test.in))
					next, stop := iter.Pull2(lexer.All())
					defer stop()

					_, err, ok := next()

					got, ok := err.(LexError)
					require.Truef(t, ok, "All(%q) wanted LexError, instead got %v", test.in, err)
					assert.Truef(t, strings.Contains(got.Reason, test.wantReason), "All(%q) reason = %q, want substring %q", test.in, got.Reason, test.wantReason)
				})
			}
		})
	})

	t.Run("NumeralIdentifiers", func(t *testing.T) {
		t.Run("Valid", func(t *testing.T) {
			tests := []struct {
				in   string
				want token.Token
			}{
				{in: " -.9\t\n", want: token.Token{Type: token.Identifier, Literal: "-.9"}},
				{in: "-0.13", want: token.Token{Type: token.Identifier, Literal: "-0.13"}},
				{in: "-0.", want: token.Token{Type: token.Identifier, Literal: "-0."}},
				{in: "-92.58", want: token.Token{Type: token.Identifier, Literal: "-92.58"}},
				{in: "-92", want: token.Token{Type: token.Identifier, Literal: "-92"}},
				{in: ".13", want: token.Token{Type: token.Identifier, Literal: ".13"}},
				{in: "0.", want: token.Token{Type: token.Identifier, Literal: "0."}},
				{in: "0.13", want: token.Token{Type: token.Identifier, Literal: "0.13"}},
				{in: "47", want: token.Token{Type: token.Identifier, Literal: "47"}},
				{in: "47.58", want: token.Token{Type: token.Identifier, Literal: "47.58"}},
			}

			for i, test := range tests {
				t.Run(strconv.Itoa(i), func(t *testing.T) {
					lexer := New(strings.NewReader(test.in))
					next, stop := iter.Pull2(lexer.All())
					defer stop()

					got, err, ok := next()

					assert.EqualValuesf(t, got, test.want, "All(%q)", test.in)
					assert.NoErrorf(t, err, "All(%q)", test.in)
					assert.Truef(t, ok, "All(%q)", test.in)

					_, _, ok = next()
					assert.Falsef(t, ok, "All(%q) want only one token", test.in)
				})
			}
		})

		t.Run("Invalid", func(t *testing.T) {
			tests := []struct {
				in         string
				wantReason string
			}{
				{in: "-.1A", wantReason: "optionally lead with a `-`"},
				{in: "1-20", wantReason: "can only be prefixed with a `-`"},
				{in: ".13.4", wantReason: "can only have one `.`"},
				{in: "-.", wantReason: "must have at least one digit"},
			}

			for i, test := range tests {
				t.Run(strconv.Itoa(i), func(t *testing.T) {
					lexer := New(strings.NewReader(test.in))
					next, stop := iter.Pull2(lexer.All())
					defer stop()

					_, err, ok := next()

					got, ok := err.(LexError)
					require.Truef(t, ok, "All(%q) wanted LexError, instead got %v", test.in, err)
					assert.Truef(t, strings.Contains(got.Reason, test.wantReason), "All(%q) reason = %q, want substring %q", test.in, got.Reason, test.wantReason)
				})
			}
		})
	})

	t.Run("QuotedIdentifiers", func(t *testing.T) {
		t.Run("Valid", func(t *testing.T) {
			tests := []struct {
				in   string
				want token.Token
			}{
				{in: `"graph"`, want: token.Token{Type: token.Identifier, Literal: `"graph"`}},
				{in: `"strict"`, want: token.Token{Type: token.Identifier, Literal: `"strict"`}},
				{in: `"\"d"`, want: token.Token{Type: token.Identifier, Literal: `"\"d"`}},
				{in: `"\nd"`, want: token.Token{Type: token.Identifier, Literal: `"\nd"`}},
				{in: `"\\d"`, want: token.Token{Type: token.Identifier, Literal: `"\\d"`}},
				{in: `"_A"`, want: token.Token{Type: token.Identifier, Literal: `"_A"`}},
				{in: `"-.9"`, want: token.Token{Type: token.Identifier, Literal: `"-.9"`}},
				{in: `"A--B"`, want: token.Token{Type: token.Identifier, Literal: `"A--B"`}},
				{in: `"A->B"`, want: token.Token{Type: token.Identifier, Literal: `"A->B"`}},
				{in: `"A-B"`, want: token.Token{Type: token.Identifier, Literal: `"A-B"`}},
				{in: `"Helvetica,Arial,sans-serif"`, want: token.Token{Type: token.Identifier, Literal: `"Helvetica,Arial,sans-serif"`}},
				{in: `"#00008844"`, want: token.Token{Type: token.Identifier, Literal: `"#00008844"`}},
			}

			for i, test := range tests {
				t.Run(strconv.Itoa(i), func(t *testing.T) {
					lexer := New(strings.NewReader(test.in))
					next, stop := iter.Pull2(lexer.All())
					defer stop()

					got, err, ok := next()

					assert.EqualValuesf(t, got, test.want, "All(%q)", test.in)
					assert.NoErrorf(t, err, "All(%q)", test.in)
					assert.Truef(t, ok, "All(%q)", test.in)

					_, _, ok = next()
					assert.Falsef(t, ok, "All(%q) want only one token", test.in)
				})
			}
		})

		t.Run("Invalid", func(t *testing.T) {
			t.Run("MissingClosingQuote", func(t *testing.T) {
				lexer := New(strings.NewReader(`"asdf`))
				next, stop := iter.Pull2(lexer.All())
				defer stop()

				_, err, ok := next()

				got, ok := err.(LexError)
				require.Truef(t, ok, "wanted LexError, instead got %v", err)
				assert.EqualValuesf(t, "missing closing quote", got.Reason, "reason")
			})

			t.Run("ExceedsMaxLength", func(t *testing.T) {
				in := `"` + strings.Repeat("a", maxQuotedStringLen+1)
				lexer := New(strings.NewReader(in))
				next, stop := iter.Pull2(lexer.All())
				defer stop()

				_, err, ok := next()

				got, ok := err.(LexError)
				require.Truef(t, ok, "wanted LexError, instead got %v", err)
				assert.Truef(t, strings.Contains(got.Reason, "potentially missing closing quote"), "reason = %q", got.Reason)
			})
		})
	})

	t.Run("Clusters", func(t *testing.T) {
		in := `digraph G {
	fontname="Helvetica,Arial,sans-serif"
	node [fontname="Helvetica,Arial,sans-serif"]
	edge [fontname="Helvetica,Arial,sans-serif"]

	subgraph cluster_0 {
		style=filled;
		color=lightgrey;
		node [style=filled,color=white];
		a0 -> a1 -> a2 -> a3;
		label = "process #1";
	}

	subgraph cluster_1 {
		node [style=filled];
		b0 -> b1 -> b2 -> b3;
		label = "process #2";
		color=blue
	}
	start -> a0;
	start -> b0;
	a1 -> b3;
	b2 -> a3;
	a3 -> a0;
	a3 -> end;
	b3 -> end;

	start [shape=Mdiamond];
	end [shape=Msquare];
}`

		lexer := New(strings.NewReader(in))

		for _, err := range lexer.All() {
			require.NoErrorf(t, err, "All(%q)", in)
		}
	})
}

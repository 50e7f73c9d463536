package bibtext

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// braceString generates short strings over letters, spaces and braces.
func braceString() gopter.Gen {
	return gen.SliceOf(gen.OneConstOf('a', 'B', 'c', ' ', ':', '{', '}')).Map(func(rs []rune) string {
		return string(rs)
	})
}

// 先頭からの部分文字列は元の文字列の接頭辞と一致する
func TestProperty_SubstringPrefix(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("Substring(s, 1, k) is the k-rune prefix", prop.ForAll(
		func(s string, k int) bool {
			r := []rune(s)
			if len(r) == 0 {
				return Substring(s, 1, k+1) == ""
			}
			k = k%len(r) + 1
			return Substring(s, 1, k) == string(r[:k])
		},
		gen.AlphaString(),
		gen.IntRange(0, 1000),
	))

	properties.Property("Substring(s, -1, len) is the whole string", prop.ForAll(
		func(s string) bool {
			return Substring(s, -1, len([]rune(s))) == s
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// 小文字変換は冪等である
func TestProperty_LowerCaseIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("ChangeCase l is idempotent", prop.ForAll(
		func(s string) bool {
			once := ChangeCase(s, LowerCase)
			return ChangeCase(once, LowerCase) == once
		},
		braceString(),
	))

	properties.Property("case conversion preserves the logical length", prop.ForAll(
		func(s string) bool {
			n := TextLength(s)
			return TextLength(ChangeCase(s, UpperCase)) == n &&
				TextLength(ChangeCase(s, TitleCase)) == n
		},
		braceString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// text.prefix$ の結果の長さは min(k, text.length$) になる
func TestProperty_TextPrefixLength(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("TextLength(TextPrefix(s, k)) == min(k, TextLength(s))", prop.ForAll(
		func(s string, k int) bool {
			return TextLength(TextPrefix(s, k)) == min(k, TextLength(s))
		},
		braceString(),
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// " and " で連結した名前の数は連結前の数と一致する
func TestProperty_NumNamesJoin(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	name := gen.AlphaString().SuchThat(func(s string) bool {
		return s != "" && !strings.EqualFold(s, "and")
	})

	properties.Property("NumNames counts joined names", prop.ForAll(
		func(names []string) bool {
			return NumNames(strings.Join(names, " and ")) == len(names)
		},
		gen.SliceOf(name),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

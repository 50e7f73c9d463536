package vm

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/zurustar/bibvm/pkg/compiler"
)

// runSource はテスト用にプログラムを実行し、スタックを返す
func runSource(src string, records []Record) ([]Value, error) {
	prog, err := compiler.Compile(src)
	if err != nil {
		return nil, err
	}
	m := New(prog, WithLogger(quietLogger()))
	if _, err := m.Run(records); err != nil {
		return nil, err
	}
	return m.Stack(), nil
}

// duplicate$ は任意の文字列について同じ値を2つ残す
func TestProperty_DuplicateLeavesTwoCopies(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("duplicate$ leaves two equal strings", prop.ForAll(
		func(s string) bool {
			stack, err := runSource(fmt.Sprintf(`
				FUNCTION { push } { "%s" }
				FUNCTION { test } { duplicate$ }
				EXECUTE { push }
				EXECUTE { test }
			`, s), nil)
			if err != nil || len(stack) != 2 {
				return false
			}
			return stack[0].Str == s && stack[1].Str == s
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// substring$ の先頭 k 文字は文字列の接頭辞になる
func TestProperty_SubstringPrefix(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("str #1 #k substring$ is a prefix of str", prop.ForAll(
		func(s string, k int) bool {
			stack, err := runSource(fmt.Sprintf(
				`FUNCTION { test } { "%s" #1 #%d substring$ } EXECUTE { test }`, s, k), nil)
			if err != nil || len(stack) != 1 {
				return false
			}
			got := stack[0].Str
			return strings.HasPrefix(s, got) && len(got) == min(k, len(s))
		},
		gen.AlphaString(),
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// スタックはレコードをまたいで保持される
func TestProperty_StackPersistsAcrossRecords(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("ITERATE leaves one value per record", prop.ForAll(
		func(n int) bool {
			records := make([]Record, n)
			for i := range records {
				records[i] = testRecord{key: fmt.Sprintf("k%d", i)}
			}
			stack, err := runSource(`
				ENTRY { } { } { }
				FUNCTION { residue } { cite$ }
				ITERATE { residue }
			`, records)
			if err != nil || len(stack) != n {
				return false
			}
			for i, v := range stack {
				if v.Str != fmt.Sprintf("k%d", i) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 30),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// while$ はカウンタが0になるまで本体を実行する
func TestProperty_WhileRunsBodyNTimes(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("while$ body runs n times", prop.ForAll(
		func(n int) bool {
			stack, err := runSource(fmt.Sprintf(`
				INTEGERS { counter runs }
				FUNCTION { test } {
					#%d 'counter :=
					{ counter #0 > }
					{ runs #1 + 'runs := counter #1 - 'counter := }
					while$
					runs
				}
				EXECUTE { test }
			`, n), nil)
			return err == nil && len(stack) == 1 && stack[0].Int == int32(n)
		},
		gen.IntRange(0, 200),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// SORT はソートキー順に並べ、同じキーでは入力順を保つ
func TestProperty_SortIsStable(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("SORT orders by sort.key$ and keeps ties in input order", prop.ForAll(
		func(keys []string) bool {
			records := make([]Record, len(keys))
			for i, k := range keys {
				records[i] = testRecord{key: fmt.Sprintf("r%d", i), fields: map[string]string{"k": k}}
			}
			stack, err := runSource(`
				ENTRY { k } { } { }
				READ
				FUNCTION { presort } { k 'sort.key$ := }
				ITERATE { presort }
				SORT
				FUNCTION { show } { cite$ }
				ITERATE { show }
			`, records)
			if err != nil || len(stack) != len(keys) {
				return false
			}

			order := make([]int, len(keys))
			for i := range order {
				order[i] = i
			}
			slices.SortStableFunc(order, func(a, b int) int {
				return strings.Compare(keys[a], keys[b])
			})
			for i, idx := range order {
				if stack[i].Str != fmt.Sprintf("r%d", idx) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.OneConstOf("a", "b", "c", "ab", "")),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// 整数の加算はオーバーフローしない限りGoの加算と一致する
func TestProperty_Addition(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("+ matches int32 addition", prop.ForAll(
		func(a, b int32) bool {
			stack, err := runSource(fmt.Sprintf(
				`FUNCTION { test } { #%d #%d + } EXECUTE { test }`, a, b), nil)
			return err == nil && len(stack) == 1 && stack[0].Int == a+b
		},
		gen.Int32Range(-1000000, 1000000),
		gen.Int32Range(-1000000, 1000000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

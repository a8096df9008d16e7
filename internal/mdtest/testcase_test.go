package mdtest

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestExtractTestCases(t *testing.T) {
	const doc = "# Test: return three\n" +
		"\n" +
		"Some prose describing the test.\n" +
		"\n" +
		"```crema-ast\n" +
		"{\"type\": \"Block\", \"stmts\": []}\n" +
		"```\n" +
		"\n" +
		"```ir\n" +
		"Return v2\n" +
		"```\n" +
		"\n" +
		"## Test: second\n" +
		"\n" +
		"```crema-ast\n" +
		"{\"type\": \"Block\", \"stmts\": []}\n" +
		"```\n" +
		"\n" +
		"```analyze-error\n" +
		"undefined variable\n" +
		"```\n"

	cases, err := ExtractTestCases(doc)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	be.Equal(t, cases[0].Name, "return three")
	be.True(t, strings.Contains(cases[0].Input, `"Block"`))
	be.Equal(t, len(cases[0].Assertions), 1)
	be.Equal(t, cases[0].Assertions[0].Type, AssertIR)
	be.Equal(t, cases[0].Assertions[0].Content, "Return v2")

	be.Equal(t, cases[1].Name, "second")
	be.Equal(t, cases[1].Assertions[0].Type, AssertAnalyzeError)
}

func TestExtractMissingInput(t *testing.T) {
	const doc = "# Test: broken\n" +
		"\n" +
		"```ir\n" +
		"Return v0\n" +
		"```\n"

	_, err := ExtractTestCases(doc)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "has no crema-ast fence"))
}

func TestExtractMissingAssertions(t *testing.T) {
	const doc = "# Test: broken\n" +
		"\n" +
		"```crema-ast\n" +
		"{\"type\": \"Block\", \"stmts\": []}\n" +
		"```\n"

	_, err := ExtractTestCases(doc)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "has no assertion fences"))
}

func TestExtractUnknownFence(t *testing.T) {
	const doc = "# Test: broken\n" +
		"\n" +
		"```crema-ast\n" +
		"{\"type\": \"Block\", \"stmts\": []}\n" +
		"```\n" +
		"\n" +
		"```wat\n" +
		"(module)\n" +
		"```\n"

	_, err := ExtractTestCases(doc)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "unknown fence language"))
}

func TestExtractFenceOutsideCase(t *testing.T) {
	const doc = "Intro prose.\n" +
		"\n" +
		"```ir\n" +
		"Return v0\n" +
		"```\n"

	_, err := ExtractTestCases(doc)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "outside of a test case"))
}

func TestExtractIgnoresUnlabeledFences(t *testing.T) {
	const doc = "# Test: ok\n" +
		"\n" +
		"```\n" +
		"just an illustration\n" +
		"```\n" +
		"\n" +
		"```crema-ast\n" +
		"{\"type\": \"Block\", \"stmts\": []}\n" +
		"```\n" +
		"\n" +
		"```ir\n" +
		"Return\n" +
		"```\n"

	cases, err := ExtractTestCases(doc)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 1)
	be.Equal(t, len(cases[0].Assertions), 1)
}

func TestAssertionLines(t *testing.T) {
	a := Assertion{Content: "first\n\n  second  \n"}
	be.Equal(t, a.Lines(), []string{"first", "second"})
}

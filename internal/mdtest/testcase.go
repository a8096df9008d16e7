// Package mdtest extracts compiler test cases from Markdown documents.
// A test case is a heading of the form "Test: name" followed by one
// crema-ast input fence and one or more assertion fences.
package mdtest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// inputFence is the fence language carrying the program under test,
// in the parser's JSON interchange format.
const inputFence = "crema-ast"

// AssertionType names one kind of assertion fence.
type AssertionType string

const (
	// AssertAnalyzeError: analysis must fail, and every non-empty
	// line of the fence must appear in the error message.
	AssertAnalyzeError AssertionType = "analyze-error"

	// AssertAnalyzeWarning: analysis must succeed, and every
	// non-empty line must match one emitted warning.
	AssertAnalyzeWarning AssertionType = "analyze-warning"

	// AssertIR: the program lowers to IR, the module verifies, and
	// every non-empty line appears in the printed IR.
	AssertIR AssertionType = "ir"

	// AssertLLVM: every non-empty line appears in the emitted LLVM
	// assembly.
	AssertLLVM AssertionType = "llvm"
)

// Assertion is a single assertion fence within a test case.
type Assertion struct {
	Type    AssertionType
	Content string
}

// TestCase is one extracted test: a named input program plus its
// assertions, in document order.
type TestCase struct {
	Name       string
	Input      string
	Assertions []Assertion
}

// ExtractTestCases parses a Markdown document and collects its test
// cases. Prose and unlabeled fences are ignored; labeled fences must
// belong to a test case and use a known language.
func ExtractTestCases(markdownContent string) ([]TestCase, error) {
	md := goldmark.New()
	source := []byte(markdownContent)
	doc := md.Parser().Parse(text.NewReader(source))

	var cases []TestCase
	var current *TestCase

	flush := func() error {
		if current == nil {
			return nil
		}
		if current.Input == "" {
			return fmt.Errorf("test %q has no %s fence", current.Name, inputFence)
		}
		if len(current.Assertions) == 0 {
			return fmt.Errorf("test %q has no assertion fences", current.Name)
		}
		cases = append(cases, *current)
		current = nil
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, source)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkContinue, nil
			}
			if err := flush(); err != nil {
				return ast.WalkStop, err
			}
			current = &TestCase{Name: strings.TrimPrefix(heading, "Test: ")}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			if language == "" {
				return ast.WalkContinue, nil
			}
			content := fenceContent(n, source)

			if current == nil {
				return ast.WalkStop, fmt.Errorf("%s fence found outside of a test case", language)
			}

			switch {
			case language == inputFence:
				if current.Input != "" {
					return ast.WalkStop, fmt.Errorf("test %q has multiple input fences", current.Name)
				}
				current.Input = content
			case isAssertionFence(language):
				current.Assertions = append(current.Assertions, Assertion{
					Type:    AssertionType(language),
					Content: strings.TrimRight(content, "\n"),
				})
			default:
				return ast.WalkStop, fmt.Errorf("unknown fence language %q in test %q", language, current.Name)
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return cases, nil
}

// Lines splits an assertion's content into its non-empty lines.
func (a Assertion) Lines() []string {
	var lines []string
	for _, line := range strings.Split(a.Content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// nodeText extracts the plain text content of a markdown node.
func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// fenceContent extracts the body of a fenced code block.
func fenceContent(fence *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < fence.Lines().Len(); i++ {
		line := fence.Lines().At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

func isAssertionFence(language string) bool {
	switch AssertionType(language) {
	case AssertAnalyzeError, AssertAnalyzeWarning, AssertIR, AssertLLVM:
		return true
	}
	return false
}

// Package prdparse implements the narrow PRD section splitter described in
// §EXP-6: not a general markdown parser, just enough structure extraction
// to populate domain.PRD from a PRD document's heading layout.
package prdparse

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/arclight-dev/taskloom/internal/domain"
)

var sectionAliases = map[string]string{
	"objectives":  "objectives",
	"goals":       "objectives",
	"tech stack":  "tech_stack",
	"technology":  "tech_stack",
	"constraints": "constraints",
	"non-goals":   "constraints",
}

// Parse walks a goldmark AST over raw markdown, takes the first top-level
// heading as the title, and collects the list items under each "##" heading
// matching (case-insensitively) Objectives/Tech Stack/Constraints into the
// corresponding PRD field. Raw is preserved verbatim.
func Parse(markdown string) (domain.PRD, error) {
	src := []byte(markdown)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	prd := domain.PRD{Raw: markdown}
	var currentSection string

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			heading := textOf(node, src)
			if node.Level == 1 && prd.Title == "" {
				prd.Title = heading
				currentSection = ""
				return ast.WalkSkipChildren, nil
			}
			if node.Level == 2 {
				currentSection = sectionAliases[strings.ToLower(strings.TrimSpace(heading))]
				return ast.WalkSkipChildren, nil
			}

		case *ast.ListItem:
			if currentSection == "" {
				return ast.WalkContinue, nil
			}
			item := strings.TrimSpace(textOf(node, src))
			if item == "" {
				return ast.WalkContinue, nil
			}
			switch currentSection {
			case "objectives":
				prd.Objectives = append(prd.Objectives, item)
			case "tech_stack":
				prd.TechStack = append(prd.TechStack, item)
			case "constraints":
				prd.Constraints = append(prd.Constraints, item)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return domain.PRD{}, err
	}
	return prd, nil
}

// textOf concatenates every text segment under n, since goldmark's AST
// stores rendered text as byte-offset segments into the original source
// rather than as node values.
func textOf(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(src))
			continue
		}
		sb.WriteString(textOf(c, src))
	}
	return sb.String()
}

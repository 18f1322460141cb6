package normalize

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-content-sync/internal/content"
)

// RichText accepts a block array, a single block object or a plain/markdown
// string. Anything else yields an empty value.
func (n *Normalizer) RichText(raw Raw, aliases ...string) content.RichText {
	value, ok := Probe(raw, aliases...)
	if !ok {
		return content.RichText{}
	}
	return n.richTextValue(value)
}

func (n *Normalizer) richTextValue(value any) content.RichText {
	switch v := value.(type) {
	case []any:
		out := content.RichText{}
		for _, item := range v {
			if node, ok := item.(map[string]any); ok {
				out = append(out, blocksFromNode(node)...)
			}
		}
		return out
	case map[string]any:
		return content.RichText(blocksFromNode(v))
	case string:
		return n.markdown(v)
	default:
		return content.RichText{}
	}
}

// blocksFromNode flattens one block node. Lists and quotes contribute one
// paragraph per item so nested structures still surface their text.
func blocksFromNode(node Raw) []content.Block {
	kind := strings.ToLower(String(node, "type"))
	switch kind {
	case "heading":
		level := Int(node, "level")
		if level < 1 || level > 6 {
			level = 1
		}
		return []content.Block{{Type: content.BlockHeading, Level: level, Children: runsFrom(node)}}
	case "list":
		var out []content.Block
		children, _ := node["children"].([]any)
		for _, child := range children {
			if item, ok := child.(map[string]any); ok {
				out = append(out, content.Block{Type: content.BlockParagraph, Children: runsFrom(item)})
			}
		}
		return out
	default:
		return []content.Block{{Type: content.BlockParagraph, Children: runsFrom(node)}}
	}
}

func runsFrom(node Raw) []content.Run {
	children, ok := node["children"].([]any)
	if !ok {
		if txt, isText := node["text"].(string); isText {
			return []content.Run{{Text: txt, Bold: Bool(node, false, "bold"), Italic: Bool(node, false, "italic")}}
		}
		return []content.Run{}
	}
	runs := make([]content.Run, 0, len(children))
	for _, child := range children {
		obj, isObj := child.(map[string]any)
		if !isObj {
			continue
		}
		if _, nested := obj["children"]; nested {
			runs = append(runs, runsFrom(obj)...)
			continue
		}
		runs = append(runs, content.Run{
			Text:   String(obj, "text"),
			Bold:   Bool(obj, false, "bold"),
			Italic: Bool(obj, false, "italic"),
		})
	}
	return runs
}

func newMarkdownEngine() goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify))
}

// markdown converts a string into paragraph and heading blocks. Inline
// emphasis maps onto run styles; other inline markup keeps only its text.
func (n *Normalizer) markdown(source string) content.RichText {
	if strings.TrimSpace(source) == "" {
		return content.RichText{}
	}
	src := []byte(source)
	doc := n.md.Parser().Parse(text.NewReader(src))

	out := content.RichText{}
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch block := node.(type) {
		case *ast.Heading:
			out = append(out, content.Block{Type: content.BlockHeading, Level: block.Level, Children: inlineRuns(block, src)})
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock:
			out = append(out, content.Block{Type: content.BlockParagraph, Children: inlineRuns(block, src)})
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			out = append(out, content.Block{Type: content.BlockParagraph, Children: []content.Run{{Text: linesText(block, src)}}})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return out
}

func inlineRuns(parent ast.Node, src []byte) []content.Run {
	var runs []content.Run
	var visit func(node ast.Node, bold, italic bool)
	visit = func(node ast.Node, bold, italic bool) {
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			switch inline := child.(type) {
			case *ast.Text:
				value := string(inline.Segment.Value(src))
				if inline.SoftLineBreak() || inline.HardLineBreak() {
					value += " "
				}
				runs = appendRun(runs, content.Run{Text: value, Bold: bold, Italic: italic})
			case *ast.String:
				runs = appendRun(runs, content.Run{Text: string(inline.Value), Bold: bold, Italic: italic})
			case *ast.AutoLink:
				runs = appendRun(runs, content.Run{Text: string(inline.Label(src)), Bold: bold, Italic: italic})
			case *ast.Emphasis:
				visit(inline, bold || inline.Level >= 2, italic || inline.Level == 1)
			default:
				visit(child, bold, italic)
			}
		}
	}
	visit(parent, false, false)
	if len(runs) > 0 {
		last := &runs[len(runs)-1]
		last.Text = strings.TrimRight(last.Text, " ")
	}
	if runs == nil {
		runs = []content.Run{}
	}
	return runs
}

// appendRun merges adjacent runs that share a style.
func appendRun(runs []content.Run, run content.Run) []content.Run {
	if run.Text == "" {
		return runs
	}
	if len(runs) > 0 {
		last := &runs[len(runs)-1]
		if last.Bold == run.Bold && last.Italic == run.Italic {
			last.Text += run.Text
			return runs
		}
	}
	return append(runs, run)
}

func linesText(node ast.Node, src []byte) string {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		sb.Write(segment.Value(src))
	}
	return strings.TrimRight(sb.String(), "\n")
}

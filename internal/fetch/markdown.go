package fetch

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blankLineRuns = regexp.MustCompile(`\n{3,}`)

// ExtractMarkdown converts an HTML document into Markdown-flavored plain
// text. Headings map to # prefixes, list items to - bullets, and block
// elements are separated by blank lines. Script, style, and chrome
// elements are stripped.
func ExtractMarkdown(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", &Error{Message: "failed to parse HTML", Cause: err}
	}

	doc.Find("script, style, noscript, nav, header, footer, iframe, svg").Remove()

	root := doc.Find("main, article, [role=main]").First()
	if root.Length() == 0 {
		root = doc.Find("body").First()
	}
	if root.Length() == 0 {
		return "", nil
	}

	var b strings.Builder
	renderBlocks(root, &b)

	text := blankLineRuns.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(text), nil
}

func renderBlocks(sel *goquery.Selection, b *strings.Builder) {
	sel.Children().Each(func(_ int, child *goquery.Selection) {
		node := goquery.NodeName(child)
		switch node {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			level := int(node[1] - '0')
			text := collapseSpace(child.Text())
			if text != "" {
				b.WriteString("\n" + strings.Repeat("#", level) + " " + text + "\n\n")
			}
		case "ul", "ol":
			child.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
				text := collapseSpace(li.Text())
				if text != "" {
					b.WriteString("- " + text + "\n")
				}
			})
			b.WriteString("\n")
		case "p", "blockquote", "pre":
			text := collapseSpace(child.Text())
			if text != "" {
				b.WriteString(text + "\n\n")
			}
		case "br", "hr":
			b.WriteString("\n")
		case "table":
			child.Find("tr").Each(func(_ int, tr *goquery.Selection) {
				var cells []string
				tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
					cells = append(cells, collapseSpace(cell.Text()))
				})
				if len(cells) > 0 {
					b.WriteString(strings.Join(cells, " | ") + "\n")
				}
			})
			b.WriteString("\n")
		default:
			if child.Children().Length() > 0 {
				renderBlocks(child, b)
				return
			}
			text := collapseSpace(child.Text())
			if text != "" {
				b.WriteString(text + "\n\n")
			}
		}
	})
}

var spaceRuns = regexp.MustCompile(`\s+`)

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRuns.ReplaceAllString(s, " "))
}

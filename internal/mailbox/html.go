package mailbox

import (
	"html"
	"regexp"
	"strings"
)

var (
	headBlockRe   = regexp.MustCompile(`(?is)<head[\s\S]*?</head>`)
	styleBlockRe  = regexp.MustCompile(`(?is)<style[\s\S]*?</style>`)
	scriptBlockRe = regexp.MustCompile(`(?is)<script[\s\S]*?</script>`)
	brTagRe       = regexp.MustCompile(`(?i)</?br\s*/?>`)
	pTagRe        = regexp.MustCompile(`(?i)</?p[^>]*>`)
	liTagRe       = regexp.MustCompile(`(?i)</?li[^>]*>`)
	headingRe     = regexp.MustCompile(`(?is)<h([1-6])[^>]*>(.*?)</h[1-6]\s*>`)
	anyTagRe      = regexp.MustCompile(`<[^>]+>`)
)

// htmlToMarkdown is a quick lossy HTML to Markdown conversion for mail
// bodies that ship no plain-text part. It keeps paragraph breaks, list
// items and headings and drops everything else.
func htmlToMarkdown(s string) string {
	if s == "" {
		return ""
	}

	s = headBlockRe.ReplaceAllString(s, "")
	s = styleBlockRe.ReplaceAllString(s, "")
	s = scriptBlockRe.ReplaceAllString(s, "")

	s = brTagRe.ReplaceAllString(s, "\n")
	s = pTagRe.ReplaceAllString(s, "\n\n")
	s = liTagRe.ReplaceAllString(s, "\n- ")
	s = headingRe.ReplaceAllStringFunc(s, func(m string) string {
		parts := headingRe.FindStringSubmatch(m)
		level := int(parts[1][0] - '0')
		return "\n" + strings.Repeat("#", level) + " " + parts[2] + "\n"
	})

	s = anyTagRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}

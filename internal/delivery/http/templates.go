package http

import (
	"embed"
	"html/template"
	"strconv"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// ParseTemplates parses the embedded page templates
func ParseTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"usd": usd,
	}).ParseFS(templateFS, "templates/*.html")
}

// usd formats a value as US dollars, e.g. 1234.5 -> "$1,234.50"
func usd(value float64) string {
	negative := value < 0
	if negative {
		value = -value
	}

	s := strconv.FormatFloat(value, 'f', 2, 64)
	dot := strings.Index(s, ".")
	intPart := s[:dot]
	for i := len(intPart) - 3; i > 0; i -= 3 {
		intPart = intPart[:i] + "," + intPart[i:]
	}

	out := "$" + intPart + s[dot:]
	if negative {
		out = "-" + out
	}
	return out
}

package icons

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// FirstFill returns the first usable fill color of an SVG document, which is
// usually the icon background. Fills are read from fill attributes and from
// fill declarations in style attributes, in document order.
func FirstFill(svg []byte) (string, bool, error) {
	dec := xml.NewDecoder(bytes.NewReader(svg))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		for _, attr := range start.Attr {
			var value string
			switch attr.Name.Local {
			case "fill":
				value = attr.Value
			case "style":
				value = styleFill(attr.Value)
			default:
				continue
			}
			if _, ok := ParseColor(value); ok {
				return strings.ToLower(strings.TrimSpace(value)), true, nil
			}
		}
	}
}

// styleFill extracts the fill declaration from an inline style.
func styleFill(style string) string {
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(name) == "fill" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

package game

import (
	"encoding/xml"
	"strings"
)

// svgText extracts the text labels of an SVG drawing in document order.
// Terminals cannot show the drawing itself, but the labels of a worked
// solution usually carry the steps. Malformed input yields what was read
// before the error.
func svgText(svg string) []string {
	dec := xml.NewDecoder(strings.NewReader(svg))
	dec.Strict = false

	var (
		lines []string
		depth int // nesting inside <text>
		cur   strings.Builder
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "text" {
				depth++
			}
		case xml.EndElement:
			if t.Name.Local == "text" && depth > 0 {
				depth--
				if depth == 0 {
					if line := strings.Join(strings.Fields(cur.String()), " "); line != "" {
						lines = append(lines, line)
					}
					cur.Reset()
				}
			}
		case xml.CharData:
			if depth > 0 {
				cur.Write(t)
				cur.WriteByte(' ')
			}
		}
	}
	return lines
}

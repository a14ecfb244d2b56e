package docx

import (
	"encoding/xml"
	"io"
	"sort"
	"strings"
)

const (
	nsWord   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsCompat = "http://schemas.openxmlformats.org/markup-compatibility/2006"
)

// textElem is one <w:t> element. start and end delimit the whole element in
// the part, including a self-closing <w:t/>; text is its decoded content.
type textElem struct {
	start, end int
	qname      string
	text       string
}

// paragraph holds the <w:t> elements a <w:p> owns directly. Text of a
// paragraph nested inside it (a text box) belongs to the nested paragraph.
type paragraph struct {
	start int
	runs  []textElem
	// mirror is set inside mc:Fallback, which repeats the content of
	// mc:Choice for older readers.
	mirror bool
}

func (p paragraph) text() string {
	var b strings.Builder
	for _, r := range p.runs {
		b.WriteString(r.text)
	}
	return b.String()
}

// scanPart walks the XML of one part and returns its paragraphs in document
// order. Malformed XML is an error.
func scanPart(content string) ([]paragraph, error) {
	d := xml.NewDecoder(strings.NewReader(content))
	var (
		done     []paragraph
		open     []*paragraph
		cur      *textElem
		fallback int
	)
	for {
		start := int(d.InputOffset())
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case isWord(t.Name, "p"):
				open = append(open, &paragraph{start: start, mirror: fallback > 0})
			case isWord(t.Name, "t") && len(open) > 0:
				cur = &textElem{start: start, qname: qualifiedName(content[start:])}
			case t.Name.Space == nsCompat && t.Name.Local == "Fallback":
				fallback++
			}
		case xml.CharData:
			if cur != nil {
				cur.text += string(t)
			}
		case xml.EndElement:
			switch {
			case isWord(t.Name, "t") && cur != nil:
				cur.end = int(d.InputOffset())
				top := open[len(open)-1]
				top.runs = append(top.runs, *cur)
				cur = nil
			case isWord(t.Name, "p") && len(open) > 0:
				done = append(done, *open[len(open)-1])
				open = open[:len(open)-1]
			case t.Name.Space == nsCompat && t.Name.Local == "Fallback" && fallback > 0:
				fallback--
			}
		}
	}
	// Inner paragraphs close first.
	sort.SliceStable(done, func(i, j int) bool { return done[i].start < done[j].start })
	return done, nil
}

// qualifiedName returns the prefixed element name of the start tag at the
// beginning of s, such as "w:t".
func qualifiedName(s string) string {
	s = strings.TrimPrefix(s, "<")
	if i := strings.IndexAny(s, " \t\r\n/>"); i >= 0 {
		return s[:i]
	}
	return s
}

func isWord(n xml.Name, local string) bool {
	return n.Space == nsWord && n.Local == local
}

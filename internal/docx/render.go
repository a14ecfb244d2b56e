package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-faster/errors"
)

// Render substitutes values into a copy of the template. Parts without text
// are copied byte for byte.
func (t *Template) Render(values map[string]string) ([]byte, error) {
	var problems []Problem
	for _, tag := range t.tags {
		if _, ok := values[tag.Name]; !ok {
			problems = append(problems, Problem{
				Part:        tag.Part,
				Tag:         OpenDelim + tag.Name + CloseDelim,
				Explanation: fmt.Sprintf("no value supplied for field %q", tag.Name),
			})
		}
	}
	if len(problems) > 0 {
		return nil, &TemplateError{Problems: problems}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range t.files {
		content, ok := t.parts[f.Name]
		if !ok {
			if err := zw.Copy(f); err != nil {
				return nil, errors.Wrapf(err, "copy %s", f.Name)
			}
			continue
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: f.Modified})
		if err != nil {
			return nil, errors.Wrapf(err, "create %s", f.Name)
		}
		if _, err := io.WriteString(w, fillPart(content, t.paras[f.Name], values)); err != nil {
			return nil, errors.Wrapf(err, "write %s", f.Name)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "finish document")
	}
	return buf.Bytes(), nil
}

// RenderFile renders into path, replacing any existing file.
func (t *Template) RenderFile(values map[string]string, path string) error {
	data, err := t.Render(values)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "write document")
	}
	return nil
}

// fillPart rewrites the <w:t> elements of every paragraph that holds a tag
// and copies everything else of content unchanged.
func fillPart(content string, paras []paragraph, values map[string]string) string {
	var edits []textElem
	for _, para := range paras {
		edits = append(edits, fillParagraph(para, values)...)
	}
	if len(edits) == 0 {
		return content
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var b strings.Builder
	last := 0
	for _, e := range edits {
		b.WriteString(content[last:e.start])
		b.WriteString("<" + e.qname + ` xml:space="preserve">`)
		_ = xml.EscapeText(&b, []byte(e.text))
		b.WriteString("</" + e.qname + ">")
		last = e.end
	}
	b.WriteString(content[last:])
	return b.String()
}

// fillParagraph writes each value into the run where its tag starts and
// removes the remainder of the tag from that run and the following ones. It
// returns the new text of every run of the paragraph, or nothing when the
// paragraph has no tag.
func fillParagraph(para paragraph, values map[string]string) []textElem {
	text := para.text()
	spans, _ := scanTags(text)
	if len(spans) == 0 {
		return nil
	}

	filled := make([]textElem, len(para.runs))
	offset, si := 0, 0
	for i, r := range para.runs {
		runStart, runEnd := offset, offset+len(r.text)
		var sb strings.Builder
		p := runStart
		for p < runEnd {
			for si < len(spans) && spans[si].end <= p {
				si++
			}
			if si < len(spans) && spans[si].start <= p {
				sp := spans[si]
				if p == sp.start {
					sb.WriteString(values[sp.name])
				}
				p = min(sp.end, runEnd)
				continue
			}
			next := runEnd
			if si < len(spans) && spans[si].start < runEnd {
				next = spans[si].start
			}
			sb.WriteString(text[p:next])
			p = next
		}
		filled[i] = textElem{start: r.start, end: r.end, qname: r.qname, text: sb.String()}
		offset = runEnd
	}
	return filled
}

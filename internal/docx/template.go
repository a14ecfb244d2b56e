// Package docx fills [[Field]] placeholders in Word documents.
//
// A placeholder may be split over several runs of a paragraph (Word splits
// text whenever formatting, spell checking or revision marks change), so
// tags are found in the joined text of each paragraph rather than per run.
// Parts are read with an XML token walk; only the <w:t> elements are ever
// rewritten, every other byte of a part is kept.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"
)

const (
	OpenDelim  = "[["
	CloseDelim = "]]"
)

var (
	reTagName  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	reTextPart = regexp.MustCompile(`^word/(document|header\d*|footer\d*|footnotes|endnotes)\.xml$`)
)

var ErrNotDocx = errors.New("template is not a .docx document")

// Template is a parsed .docx whose placeholders were all checked against the
// set of known field names.
type Template struct {
	files []*zip.File
	parts map[string]string
	paras map[string][]paragraph
	tags  []Tag
}

// Tag is one placeholder occurrence.
type Tag struct {
	Part string
	Name string
}

// Load reads and parses the template at path.
func Load(path string, known []string) (*Template, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "template")
	}
	if !mtype.Is("application/vnd.openxmlformats-officedocument.wordprocessingml.document") && !mtype.Is("application/zip") {
		return nil, errors.Wrapf(ErrNotDocx, "%s is %s", path, mtype.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read template")
	}
	return Parse(data, known)
}

// Parse validates every placeholder in data. Unknown field names and
// malformed tags are all collected into one *TemplateError.
func Parse(data []byte, known []string) (*Template, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(ErrNotDocx, err.Error())
	}

	knownSet := map[string]struct{}{}
	for _, k := range known {
		knownSet[k] = struct{}{}
	}

	t := &Template{files: zr.File, parts: map[string]string{}, paras: map[string][]paragraph{}}
	var problems []Problem
	hasDocument := false
	for _, f := range zr.File {
		if !reTextPart.MatchString(f.Name) {
			continue
		}
		if f.Name == "word/document.xml" {
			hasDocument = true
		}
		content, err := readZipFile(f)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", f.Name)
		}
		paras, err := scanPart(content)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", f.Name)
		}
		t.parts[f.Name] = content
		t.paras[f.Name] = paras

		for _, para := range paras {
			text := para.text()
			spans, bad := scanTags(text)
			for _, sp := range spans {
				if _, ok := knownSet[sp.name]; !ok {
					bad = append(bad, Problem{
						Tag:         text[sp.start:sp.end],
						Explanation: fmt.Sprintf("field %q is not defined; known fields: %s", sp.name, strings.Join(known, ", ")),
					})
					continue
				}
				if !para.mirror {
					t.tags = append(t.tags, Tag{Part: f.Name, Name: sp.name})
				}
			}
			for _, pr := range bad {
				pr.Part = f.Name
				// mc:Fallback repeats mc:Choice; report its problems once.
				if para.mirror && slices.Contains(problems, pr) {
					continue
				}
				problems = append(problems, pr)
			}
		}
	}
	if !hasDocument {
		return nil, errors.Wrap(ErrNotDocx, "word/document.xml is missing")
	}
	if len(problems) > 0 {
		return nil, &TemplateError{Problems: problems}
	}
	return t, nil
}

// Tags lists the placeholders in document order.
func (t *Template) Tags() []Tag {
	return append([]Tag(nil), t.tags...)
}

func readZipFile(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type tagSpan struct {
	start, end int
	name       string
}

// scanTags finds well-formed tags in text and reports malformed ones.
func scanTags(text string) ([]tagSpan, []Problem) {
	var spans []tagSpan
	var problems []Problem
	pos := 0
	for pos < len(text) {
		openAt := strings.Index(text[pos:], OpenDelim)
		closeAt := strings.Index(text[pos:], CloseDelim)
		if openAt < 0 && closeAt < 0 {
			break
		}
		if openAt < 0 || (closeAt >= 0 && closeAt < openAt) {
			at := pos + closeAt
			problems = append(problems, Problem{
				Tag:         excerpt(text, at, at+len(CloseDelim)),
				Explanation: fmt.Sprintf("closing %q without a matching %q", CloseDelim, OpenDelim),
			})
			pos = at + len(CloseDelim)
			continue
		}

		start := pos + openAt
		bodyStart := start + len(OpenDelim)
		end := strings.Index(text[bodyStart:], CloseDelim)
		nextOpen := strings.Index(text[bodyStart:], OpenDelim)
		if end < 0 || (nextOpen >= 0 && nextOpen < end) {
			stop := len(text)
			if nextOpen >= 0 {
				stop = bodyStart + nextOpen
			}
			problems = append(problems, Problem{
				Tag:         excerpt(text, start, stop),
				Explanation: fmt.Sprintf("tag is not closed with %q", CloseDelim),
			})
			pos = stop
			continue
		}

		stop := bodyStart + end + len(CloseDelim)
		name := strings.TrimSpace(text[bodyStart : bodyStart+end])
		if !reTagName.MatchString(name) {
			explanation := fmt.Sprintf("invalid field name %q", name)
			if name == "" {
				explanation = "empty field name"
			}
			problems = append(problems, Problem{Tag: text[start:stop], Explanation: explanation})
		} else {
			spans = append(spans, tagSpan{start: start, end: stop, name: name})
		}
		pos = stop
	}
	return spans, problems
}

func excerpt(text string, start, stop int) string {
	const maxLen = 40
	s := text[start:stop]
	if r := []rune(s); len(r) > maxLen {
		return string(r[:maxLen]) + "…"
	}
	return s
}

// Package docxtest builds minimal Word documents for tests and reads their
// paragraph text back.
package docxtest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"html"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const rootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

const (
	nsWord    = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	docHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
		` xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006"` +
		` xmlns:wps="http://schemas.microsoft.com/office/word/2010/wordprocessingShape"><w:body>`
	docFooter = `<w:sectPr/></w:body></w:document>`
)

// Paragraph is a list of runs; each run becomes its own <w:r> element, so a
// placeholder can be split across runs the way Word does it.
type Paragraph []string

// Build returns a .docx whose body holds the given paragraphs.
func Build(t testing.TB, paragraphs ...Paragraph) []byte {
	t.Helper()
	return BuildParts(t, map[string]string{"word/document.xml": Document(paragraphs...)})
}

// Document renders paragraphs as a word/document.xml body.
func Document(paragraphs ...Paragraph) string {
	var b strings.Builder
	for _, p := range paragraphs {
		b.WriteString(`<w:p><w:pPr><w:jc w:val="left"/></w:pPr>`)
		for i, run := range p {
			b.WriteString(`<w:r>`)
			if i%2 == 1 {
				b.WriteString(`<w:rPr><w:b/></w:rPr>`)
			}
			b.WriteString(`<w:t xml:space="preserve">`)
			b.WriteString(html.EscapeString(run))
			b.WriteString(`</w:t></w:r>`)
		}
		b.WriteString(`</w:p>`)
	}
	return Body(b.String())
}

// Body wraps raw body XML into a word/document.xml part. The w, mc and wps
// prefixes are declared.
func Body(xmlBody string) string {
	return docHeader + xmlBody + docFooter
}

// BuildParts zips the given parts next to the package boilerplate.
func BuildParts(t testing.TB, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name, content string) {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, content)
		require.NoError(t, err)
	}
	write("[Content_Types].xml", contentTypes)
	write("_rels/.rels", rootRels)
	for name, content := range parts {
		write(name, content)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// Write stores a built document at path.
func Write(t testing.TB, path string, paragraphs ...Paragraph) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, Build(t, paragraphs...), 0o644))
}

// Texts returns the text of every paragraph of part in data, in the order
// the paragraphs open. The part must be well-formed XML.
func Texts(t testing.TB, data []byte, part string) []string {
	t.Helper()
	var (
		out    []string
		stack  []int
		inText bool
	)
	walk(t, Part(t, data, part), func(tok xml.Token) {
		switch el := tok.(type) {
		case xml.StartElement:
			switch {
			case isWord(el.Name, "p"):
				stack = append(stack, len(out))
				out = append(out, "")
			case isWord(el.Name, "t"):
				inText = true
			}
		case xml.EndElement:
			switch {
			case isWord(el.Name, "p"):
				stack = stack[:len(stack)-1]
			case isWord(el.Name, "t"):
				inText = false
			}
		case xml.CharData:
			if inText && len(stack) > 0 {
				out[stack[len(stack)-1]] += string(el)
			}
		}
	})
	return out
}

// Run is one <w:r> of a part as read back: its text and whether its run
// properties make it bold.
type Run struct {
	Text string
	Bold bool
}

// Runs lists every run of part in data that holds text.
func Runs(t testing.TB, data []byte, part string) []Run {
	t.Helper()
	var (
		out    []Run
		cur    *Run
		inProp bool
		inText bool
	)
	walk(t, Part(t, data, part), func(tok xml.Token) {
		switch el := tok.(type) {
		case xml.StartElement:
			switch {
			case isWord(el.Name, "r"):
				cur = &Run{}
			case isWord(el.Name, "rPr"):
				inProp = true
			case isWord(el.Name, "b") && inProp && cur != nil:
				cur.Bold = true
			case isWord(el.Name, "t"):
				inText = true
			}
		case xml.EndElement:
			switch {
			case isWord(el.Name, "r") && cur != nil:
				if cur.Text != "" {
					out = append(out, *cur)
				}
				cur = nil
			case isWord(el.Name, "rPr"):
				inProp = false
			case isWord(el.Name, "t"):
				inText = false
			}
		case xml.CharData:
			if inText && cur != nil {
				cur.Text += string(el)
			}
		}
	})
	return out
}

// Part returns the raw bytes of part in data.
func Part(t testing.TB, data []byte, part string) []byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != part {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, rc.Close())
		require.NoError(t, err)
		return content
	}
	t.Fatalf("part %s not found", part)
	return nil
}

func walk(t testing.TB, content []byte, fn func(xml.Token)) {
	t.Helper()
	d := xml.NewDecoder(bytes.NewReader(content))
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return
		}
		require.NoError(t, err, "part is not well-formed XML")
		fn(tok)
	}
}

func isWord(n xml.Name, local string) bool {
	return n.Space == nsWord && n.Local == local
}

// ReadTexts is Texts for the main document of the file at path.
func ReadTexts(t testing.TB, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return Texts(t, data, "word/document.xml")
}

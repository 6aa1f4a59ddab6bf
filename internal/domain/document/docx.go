package document

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

func extractDOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		paras, err := readParagraphs(rc)
		if err != nil {
			return "", fmt.Errorf("parse word/document.xml: %w", err)
		}
		return strings.Join(paras, "\n"), nil
	}
	return "", errors.New("word/document.xml not found")
}

// readParagraphs returns the text of every w:p element. A paragraph nested in
// another (text boxes) is emitted before the paragraph that contains it.
func readParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var (
		paras  []string
		open   []*strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		var cur *strings.Builder
		if len(open) > 0 {
			cur = open[len(open)-1]
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space != wordNS {
				continue
			}
			switch el.Name.Local {
			case "p":
				open = append(open, &strings.Builder{})
			case "t":
				inText = true
			case "tab":
				if cur != nil {
					cur.WriteByte('\t')
				}
			case "br", "cr":
				if cur != nil {
					cur.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if el.Name.Space != wordNS {
				continue
			}
			switch el.Name.Local {
			case "p":
				if cur != nil {
					paras = append(paras, cur.String())
					open = open[:len(open)-1]
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if cur != nil && inText {
				cur.Write(el)
			}
		}
	}
	return paras, nil
}

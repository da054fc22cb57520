package resume

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	pdf "github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/artem13815/hrbot/pkg/logger"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	ExtPDF  = ".pdf"
	ExtDOCX = ".docx"
)

var ErrUnsupportedFormat = errors.New("unsupported file format: only pdf and docx are allowed")

// Suffix picks the file extension for a document: the declared MIME type wins,
// the file name is the fallback. Unknown formats give "".
func Suffix(mimeType, filename string) string {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case MimePDF:
		return ExtPDF
	case MimeDOCX:
		return ExtDOCX
	}
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ExtPDF, ExtDOCX:
		return ext
	}
	return ""
}

// Extractor turns an uploaded document into plain text.
type Extractor struct {
	log *zap.Logger
}

func NewExtractor(log *zap.Logger) *Extractor {
	return &Extractor{log: logger.OrNop(log)}
}

// ExtractFile returns best-effort text of the document at path, or "" when the
// format is unsupported or parsing fails. The file is removed before returning.
func (e *Extractor) ExtractFile(path, mimeType string) string {
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			e.log.Error("deleting temp file", zap.String("path", path), zap.Error(err))
		}
	}()

	text, err := readFile(path, Suffix(mimeType, path))
	if err != nil {
		e.log.Error("extracting text", zap.String("mime_type", mimeType), zap.Error(err))
		return ""
	}
	return text
}

func readFile(path, suffix string) (string, error) {
	if suffix == "" {
		return "", ErrUnsupportedFormat
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return ParseResumeText("resume"+suffix, data)
}

// ParseResumeText extracts plain text from pdf or docx content. The result is
// valid UTF-8 without NUL bytes so it can be stored as TEXT.
func ParseResumeText(filename string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch Suffix("", filename) {
	case ExtPDF:
		text, err = extractTextFromPDF(data)
	case ExtDOCX:
		text, err = extractTextFromDocx(data)
	default:
		return "", ErrUnsupportedFormat
	}
	if err != nil {
		return "", err
	}
	return sanitize(text), nil
}

func sanitize(s string) string {
	s = strings.ToValidUTF8(s, "")
	return strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
}

func extractTextFromPDF(data []byte) (text string, err error) {
	defer recoverParse(&err)
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	return pdfPages(r)
}

// pdfPages joins page texts with single spaces; unreadable pages count as "".
func pdfPages(r *pdf.Reader) (string, error) {
	n := r.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		txt, err := p.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, txt)
	}
	return strings.TrimSpace(strings.Join(pages, " ")), nil
}

func extractTextFromDocx(data []byte) (text string, err error) {
	defer recoverParse(&err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		paragraphs, err := docxParagraphs(rc)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(strings.Join(paragraphs, " ")), nil
	}
	return "", errors.New("no document.xml found in docx")
}

// docxParagraphs collects the text runs of every w:p element in document order.
func docxParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var (
		paragraphs []string
		cur        strings.Builder
		inPara     bool
		inText     bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				cur.Reset()
			case "t":
				inText = true
			case "tab":
				if inPara {
					cur.WriteByte('\t')
				}
			case "br", "cr":
				if inPara {
					cur.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inPara {
					paragraphs = append(paragraphs, cur.String())
				}
				inPara = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inPara && inText {
				cur.Write(t)
			}
		}
	}
	return paragraphs, nil
}

func recoverParse(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("malformed document: %v", r)
	}
}

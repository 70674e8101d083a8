package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"docvault-backend/internal/shared/storage/object"
)

const (
	mimePDF  = "application/pdf"
	mimePNG  = "image/png"
	mimeJPEG = "image/jpeg"

	// Cleaned text shorter than this is treated as a failed scan, not a
	// soft warning: blank or noisy images must abort the ingestion.
	minTextLength = 10
)

// ErrExtractionFailed marks any failure to obtain usable text from a stored
// file: missing object, recognizer error, or insufficient text.
var ErrExtractionFailed = errors.New("text extraction failed")

// Extractor pulls plain text out of stored documents. Images go through
// tesseract via the Runner; PDFs are read directly.
type Extractor struct {
	Store  object.ObjectStore
	Runner Runner
	Bin    string
	Lang   string
}

// New constructs an Extractor with the tesseract binary and language to use.
func New(store object.ObjectStore, runner Runner, bin, lang string) *Extractor {
	if bin == "" {
		bin = "tesseract"
	}
	if lang == "" {
		lang = "eng"
	}
	return &Extractor{Store: store, Runner: runner, Bin: bin, Lang: lang}
}

// Extract reads the stored object and returns cleaned plain text.
// Failures wrap ErrExtractionFailed; there are no retries at this layer.
func (e *Extractor) Extract(ctx context.Context, storageKey, mimeType, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := e.Store.Open(ctx, storageKey)
	if err != nil {
		return "", fmt.Errorf("%w: open key=%s: %v", ErrExtractionFailed, storageKey, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("%w: read key=%s: %v", ErrExtractionFailed, storageKey, err)
	}

	var text string
	switch normalizeMimeType(mimeType, fileName) {
	case mimePNG, mimeJPEG:
		text, err = e.recognize(ctx, raw, fileName)
	case mimePDF:
		text, err = extractPDF(raw)
	default:
		err = fmt.Errorf("unsupported mime type: %s", mimeType)
	}
	if err != nil {
		if errors.Is(err, ErrExtractionFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: key=%s: %v", ErrExtractionFailed, storageKey, err)
	}

	cleaned := NormalizeText(text)
	if len(cleaned) < minTextLength {
		return "", fmt.Errorf("%w: insufficient text extracted (%d chars)", ErrExtractionFailed, len(cleaned))
	}
	return cleaned, nil
}

// recognize runs tesseract over the image bytes via a temp file:
// tesseract <file> stdout -l <lang>.
func (e *Extractor) recognize(ctx context.Context, data []byte, fileName string) (string, error) {
	tmp, err := os.CreateTemp("", "ocr-*"+filepath.Ext(fileName))
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	out, stderr, err := e.Runner.Run(ctx, e.Bin, tmp.Name(), "stdout", "-l", e.Lang)
	if err != nil {
		return "", fmt.Errorf("tesseract: %v: %s", err, truncate(string(stderr), 512))
	}
	return string(out), nil
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// NormalizeText collapses whitespace runs to single spaces and trims the ends.
func NormalizeText(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

func normalizeMimeType(mimeType string, fileName string) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case mimePNG, mimeJPEG, mimePDF:
		return clean
	case "image/jpg":
		return mimeJPEG
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".png":
		return mimePNG
	case ".jpg", ".jpeg":
		return mimeJPEG
	case ".pdf":
		return mimePDF
	}
	return clean
}

package tools

import (
	"context"
	"strings"
)

// Tesseract runs OCR over captured frames.
type Tesseract struct {
	runner *Runner
}

func NewTesseract(runner *Runner) *Tesseract {
	return &Tesseract{runner: runner}
}

// Recognize returns the text found in the image, trimmed of surrounding
// whitespace. An empty result is not an error; frames without text are
// common.
func (t *Tesseract) Recognize(ctx context.Context, imagePath string) (string, error) {
	const op = "Tesseract.Recognize"

	path, err := t.runner.resolve(op, t.runner.config.TesseractPath)
	if err != nil {
		return "", err
	}

	lang := t.runner.config.OCRLanguage
	if lang == "" {
		lang = "eng"
	}

	output, err := t.runner.run(ctx, op, path, imagePath, "stdout", "-l", lang)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(output)), nil
}

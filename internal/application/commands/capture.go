package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"kinetic/internal/application"
	"kinetic/internal/outline"
	"kinetic/internal/ports"
)

// CaptureCommand appends a new unscheduled task line to the Coming Up
// section of the scheduling document. The next sync assigns it an id.
type CaptureCommand struct {
	Docs   ports.DocumentStore
	S3Path string
	Text   string

	// FromClipboard reads the task text from the system clipboard instead
	FromClipboard bool
}

// CaptureResult contains the outcome of a capture
type CaptureResult struct {
	Text    string
	Message string
}

// Validate checks the capture inputs
func (c *CaptureCommand) Validate() error {
	if c.Docs == nil || c.S3Path == "" {
		return &application.ValidationError{Field: "capture", Message: "missing dependencies"}
	}
	if !c.FromClipboard && strings.TrimSpace(c.Text) == "" {
		return application.ErrEmptyCapture
	}
	return nil
}

// Execute appends the captured line
func (c *CaptureCommand) Execute(ctx context.Context) (*CaptureResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(c.Text)
	if c.FromClipboard {
		pasted, err := clipboard.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read clipboard: %w", err)
		}
		text = strings.TrimSpace(pasted)
		if text == "" {
			return nil, application.ErrEmptyCapture
		}
		// Multi-line pastes collapse to the first non-empty line.
		for _, line := range strings.Split(text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				text = line
				break
			}
		}
	}

	var lines []string
	if c.Docs.Exists(c.S3Path) {
		read, err := c.Docs.Read(c.S3Path)
		if err != nil {
			return nil, err
		}
		lines = read
	} else {
		lines = []string{"## " + outline.S3Title}
	}

	entry := "- [ ] " + text
	if _, end, ok := outline.FindSectionBounds(lines, 3, outline.SectionComing); ok {
		out := make([]string, 0, len(lines)+1)
		out = append(out, lines[:end]...)
		out = append(out, entry)
		out = append(out, lines[end:]...)
		lines = out
	} else {
		lines = append(lines, "", "### "+outline.SectionComing, "", entry)
	}

	if err := c.Docs.Write(c.S3Path, outline.NormalizeSpacing(lines)); err != nil {
		return nil, err
	}
	return &CaptureResult{
		Text:    text,
		Message: fmt.Sprintf("Captured: %s", text),
	}, nil
}

package commands

import (
	"context"
	"errors"
	"strings"
	"testing"

	"kinetic/internal/adapters/filesystem"
	"kinetic/internal/application"
	"kinetic/internal/outline"
)

func TestCaptureCreatesDocument(t *testing.T) {
	docs := filesystem.NewStore(t.TempDir(), "Projects", "Cards")
	cmd := &CaptureCommand{Docs: docs, S3Path: "S3.md", Text: "  Buy milk  "}

	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Text != "Buy milk" {
		t.Errorf("text = %q", result.Text)
	}

	lines, err := docs.Read("S3.md")
	if err != nil {
		t.Fatal(err)
	}
	text := strings.Join(lines, "\n")
	if !strings.Contains(text, "### "+outline.SectionComing) {
		t.Errorf("section missing:\n%s", text)
	}
	if !strings.Contains(text, "- [ ] Buy milk") {
		t.Errorf("entry missing:\n%s", text)
	}
}

func TestCaptureAppendsToExistingSection(t *testing.T) {
	docs := filesystem.NewStore(t.TempDir(), "Projects", "Cards")
	docs.Write("S3.md", strings.Join([]string{
		"## " + outline.S3Title,
		"",
		"### " + outline.SectionComing,
		"",
		"- [ ] First {T1}",
		"",
		"### Something Else",
		"",
		"prose",
	}, "\n")+"\n")

	cmd := &CaptureCommand{Docs: docs, S3Path: "S3.md", Text: "Second"}
	if _, err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	lines, _ := docs.Read("S3.md")
	doc := outline.NewParser(0).Parse("S3.md", lines)
	coming := doc.Root.FindTitle(outline.SectionComing)
	if coming == nil || len(coming.Items) != 2 {
		t.Fatalf("coming up items = %+v", coming)
	}
	if coming.Items[1].Text != "Second" {
		t.Errorf("appended item = %q", coming.Items[1].Text)
	}
}

func TestCaptureRejectsEmptyText(t *testing.T) {
	docs := filesystem.NewStore(t.TempDir(), "Projects", "Cards")
	cmd := &CaptureCommand{Docs: docs, S3Path: "S3.md", Text: "   "}
	if _, err := cmd.Execute(context.Background()); !errors.Is(err, application.ErrEmptyCapture) {
		t.Errorf("err = %v, want ErrEmptyCapture", err)
	}
}

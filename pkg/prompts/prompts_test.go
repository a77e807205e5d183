package prompts

import (
	"os"
	"strings"
	"testing"
)

func TestDefaultsComplete(t *testing.T) {
	p := Defaults()

	if p.System.Script == "" || p.System.Translate == "" || p.System.Queries == "" || p.System.Metadata == "" {
		t.Error("a system prompt is empty")
	}
	if p.Template.Script == "" || p.Template.Translate == "" || p.Template.Queries == "" || p.Template.Metadata == "" {
		t.Error("a template is empty")
	}
}

func TestRenderScript(t *testing.T) {
	p := Defaults()

	got, err := p.RenderScript(ScriptParams{Description: "deep sea facts", Language: "Spanish"})
	if err != nil {
		t.Fatalf("RenderScript() error: %v", err)
	}
	if !strings.Contains(got, "deep sea facts") {
		t.Errorf("description not substituted: %q", got)
	}
	if !strings.Contains(got, "Spanish") {
		t.Errorf("language not substituted: %q", got)
	}
}

func TestRenderTranslate(t *testing.T) {
	p := Defaults()

	got, err := p.RenderTranslate(TranslateParams{Script: "hello world", Language: "French"})
	if err != nil {
		t.Fatalf("RenderTranslate() error: %v", err)
	}
	if !strings.Contains(got, "hello world") || !strings.Contains(got, "French") {
		t.Errorf("params not substituted: %q", got)
	}
}

func TestRenderQueries(t *testing.T) {
	p := Defaults()

	got, err := p.RenderQueries(QueriesParams{Transcript: "[0.00, 4.00] the ocean floor"})
	if err != nil {
		t.Fatalf("RenderQueries() error: %v", err)
	}
	if !strings.Contains(got, "the ocean floor") {
		t.Errorf("transcript not substituted: %q", got)
	}
}

func TestRenderMetadata(t *testing.T) {
	p := Defaults()

	got, err := p.RenderMetadata(MetadataParams{Script: "five facts about anglerfish"})
	if err != nil {
		t.Fatalf("RenderMetadata() error: %v", err)
	}
	if !strings.Contains(got, "anglerfish") {
		t.Errorf("script not substituted: %q", got)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	p, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if p.System.Script != Defaults().System.Script {
		t.Error("Load() without a file should return the defaults")
	}
}

func TestLoadMergesOverride(t *testing.T) {
	t.Chdir(t.TempDir())

	override := "system:\n  script: Custom script persona.\n"
	if err := os.WriteFile("prompts.yaml", []byte(override), 0644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	p, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if p.System.Script != "Custom script persona." {
		t.Errorf("override not applied: %q", p.System.Script)
	}
	if p.System.Queries != Defaults().System.Queries {
		t.Error("unset fields should keep their defaults")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := os.WriteFile("prompts.yaml", []byte(":\n\t bad"), 0644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	if _, err := Load(); err == nil {
		t.Error("Load() should reject malformed YAML")
	}
}

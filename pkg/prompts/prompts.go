package prompts

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

type Prompts struct {
	System   SystemPrompts   `yaml:"system"`
	Template TemplatePrompts `yaml:"template"`
}

type SystemPrompts struct {
	Script    string `yaml:"script"`
	Translate string `yaml:"translate"`
	Queries   string `yaml:"queries"`
	Metadata  string `yaml:"metadata"`
}

type TemplatePrompts struct {
	Script    string `yaml:"script"`
	Translate string `yaml:"translate"`
	Queries   string `yaml:"queries"`
	Metadata  string `yaml:"metadata"`
}

type ScriptParams struct {
	Description string
	Language    string
}

type TranslateParams struct {
	Script   string
	Language string
}

type QueriesParams struct {
	Transcript string
}

type MetadataParams struct {
	Script string
}

// Load returns the built-in prompts, overridden field by field when a
// prompts.yaml is present in the working directory.
func Load() (*Prompts, error) {
	p := Defaults()
	data, err := os.ReadFile(defaultPromptsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, fmt.Errorf("read prompts file: %w", err)
	}

	var override Prompts
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse prompts file: %w", err)
	}
	merge(p, &override)
	return p, nil
}

func merge(base, override *Prompts) {
	applyIfSet(&base.System.Script, override.System.Script)
	applyIfSet(&base.System.Translate, override.System.Translate)
	applyIfSet(&base.System.Queries, override.System.Queries)
	applyIfSet(&base.System.Metadata, override.System.Metadata)
	applyIfSet(&base.Template.Script, override.Template.Script)
	applyIfSet(&base.Template.Translate, override.Template.Translate)
	applyIfSet(&base.Template.Queries, override.Template.Queries)
	applyIfSet(&base.Template.Metadata, override.Template.Metadata)
}

func applyIfSet(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func (p *Prompts) RenderScript(params ScriptParams) (string, error) {
	return render(p.Template.Script, params)
}

func (p *Prompts) RenderTranslate(params TranslateParams) (string, error) {
	return render(p.Template.Translate, params)
}

func (p *Prompts) RenderQueries(params QueriesParams) (string, error) {
	return render(p.Template.Queries, params)
}

func (p *Prompts) RenderMetadata(params MetadataParams) (string, error) {
	return render(p.Template.Metadata, params)
}

func render(text string, params any) (string, error) {
	tmpl, err := template.New("prompt").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

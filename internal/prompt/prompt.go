// Package prompt holds the instruction template sent ahead of a repository
// document.
package prompt

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template is the fixed instruction text. It is passed by value, so callers
// cannot change the copy another caller holds.
type Template struct {
	System string `yaml:"system"`
	Task   string `yaml:"task"`
	Schema string `yaml:"schema"`
}

const systemPrompt = `You are a helpful assistant that sets up any GitHub repository on a user's PC.
If an output schema is defined by the user, output nothing other than that schema.`

const taskPrompt = `## Task

Analyze the given GitHub repository and create a Pinokio script to install and run the application.

## Instructions

1. Focus on Pinokio: the script uses the 'shell.run' method to install dependencies and run the application.
2. Dependency installation: identify the correct way to install dependencies (e.g. 'pip install -r requirements.txt', 'playwright install --with-deps', 'npm install').
3. Application launch: identify the command(s) that launch the application (e.g. 'python app.py', 'npm run start').
4. Description: give a short description of the application for pinokio.js.
5. Requirements: give the content of requirements.txt if it exists. Otherwise generate a default requirements.txt for the programming language (e.g. for Python: flask, numpy, requests).
6. Multiple commands: if the application needs several commands to run, give them as a list.
7. Terminal monitoring: if the application prints a specific message when it is ready, give a regular expression that matches it.`

const schemaPrompt = `## Output Format

Return the install command, start command(s), description, requirements and terminal monitoring regex as this JSON object:

{
    "install_script": "Single line install command (e.g. pip install -r requirements.txt)",
    "start_script": "Single line or multi line start command(s) (e.g. python app.py or [python app.py, npm run start])",
    "description": "Single line description for pinokio.js (e.g. A simple Python application)",
    "requirements": "Single line requirements.txt content (e.g. requests\nnumpy). If requirements.txt is not found, give default dependencies for the programming language.",
    "terminal_regex": "Regular expression for the terminal output (e.g. /http:\\/\\/\\S+/)"
}

DO NOT OUTPUT ANY CHARACTER OUTSIDE OF THIS JSON OBJECT.`

// Default returns the built-in Pinokio instructions.
func Default() Template {
	return Template{
		System: systemPrompt,
		Task:   taskPrompt,
		Schema: schemaPrompt,
	}
}

// Load reads a YAML file with optional system, task and schema keys.
// Absent or blank keys keep their default text.
func Load(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("reading prompt file: %w", err)
	}

	var override Template
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Template{}, fmt.Errorf("parsing prompt file %s: %w", path, err)
	}

	t := Default()
	if strings.TrimSpace(override.System) != "" {
		t.System = override.System
	}
	if strings.TrimSpace(override.Task) != "" {
		t.Task = override.Task
	}
	if strings.TrimSpace(override.Schema) != "" {
		t.Schema = override.Schema
	}
	return t, nil
}

// Assemble places the system, task and schema sections ahead of doc,
// separated by blank lines.
func (t Template) Assemble(doc string) string {
	return strings.Join([]string{t.System, t.Task, t.Schema, doc}, "\n\n")
}

package lox

import (
	"encoding/json"

	"github.com/deepnoodle-ai/lox/builtins"
)

// DocsOption configures documentation retrieval.
type DocsOption func(*docsOptions)

type docsOptions struct {
	category string
	topic    string
	all      bool
}

// DocsCategory filters documentation to a specific category.
// Valid categories: "builtins", "syntax", "errors"
func DocsCategory(cat string) DocsOption {
	return func(o *docsOptions) {
		o.category = cat
	}
}

// DocsTopic retrieves documentation for a single builtin function.
func DocsTopic(topic string) DocsOption {
	return func(o *docsOptions) {
		o.topic = topic
	}
}

// DocsAll returns complete documentation.
func DocsAll() DocsOption {
	return func(o *docsOptions) {
		o.all = true
	}
}

// Documentation provides structured access to Lox documentation.
type Documentation struct {
	data any
}

// JSON returns the documentation as a JSON string.
func (d *Documentation) JSON() string {
	b, _ := json.MarshalIndent(d.data, "", "  ")
	return string(b)
}

// Data returns the raw documentation data.
func (d *Documentation) Data() any {
	return d.data
}

// Version is the current Lox version.
const Version = "0.1.0"

type docsInfo struct {
	Version        string `json:"version"`
	Description    string `json:"description"`
	ExecutionModel string `json:"execution_model"`
}

type docsQuickReference struct {
	Lox    docsInfo          `json:"lox"`
	Topics map[string]string `json:"topics"`
}

type docsSyntaxSection struct {
	Name  string           `json:"name"`
	Items []docsSyntaxItem `json:"items"`
}

type docsSyntaxItem struct {
	Syntax string `json:"syntax"`
	Notes  string `json:"notes"`
}

type docsErrorPattern struct {
	Type           string   `json:"type"`
	MessagePattern string   `json:"message_pattern"`
	Causes         []string `json:"causes"`
	Example        string   `json:"example"`
}

type docsFullDocumentation struct {
	Lox      docsInfo             `json:"lox"`
	Builtins []builtins.FuncSpec  `json:"builtins"`
	Syntax   []docsSyntaxSection  `json:"syntax"`
	Errors   []docsErrorPattern   `json:"errors"`
}

var info = docsInfo{
	Version:        Version,
	Description:    "Small dynamically typed scripting language",
	ExecutionModel: "source → lexer → single-pass compiler → bytecode → stack vm",
}

// Docs returns structured documentation about Lox. Without options it
// returns a quick reference listing the available categories.
//
//	docs := lox.Docs(lox.DocsCategory("builtins"))
//	fmt.Println(docs.JSON())
func Docs(opts ...DocsOption) *Documentation {
	o := &docsOptions{}
	for _, opt := range opts {
		opt(o)
	}
	switch {
	case o.all:
		return &Documentation{data: docsFullDocumentation{
			Lox:      info,
			Builtins: builtins.Docs(),
			Syntax:   docsSyntaxSections,
			Errors:   docsErrorPatterns,
		}}
	case o.category != "":
		return &Documentation{data: buildCategoryDocs(o.category)}
	case o.topic != "":
		return &Documentation{data: buildTopicDocs(o.topic)}
	}
	return &Documentation{data: docsQuickReference{
		Lox: info,
		Topics: map[string]string{
			"builtins": "Native functions (clock, len, str, type)",
			"syntax":   "Declarations, statements and operators",
			"errors":   "Compile and runtime error messages",
		},
	}}
}

func buildCategoryDocs(category string) any {
	switch category {
	case "builtins":
		return map[string]any{
			"category":  "builtins",
			"count":     len(builtins.Docs()),
			"functions": builtins.Docs(),
		}
	case "syntax":
		return map[string]any{
			"category": "syntax",
			"sections": docsSyntaxSections,
		}
	case "errors":
		return map[string]any{
			"category": "errors",
			"patterns": docsErrorPatterns,
		}
	}
	return map[string]any{
		"error":      "unknown category: " + category,
		"categories": []string{"builtins", "syntax", "errors"},
	}
}

func buildTopicDocs(topic string) any {
	for _, spec := range builtins.Docs() {
		if spec.Name == topic {
			return spec
		}
	}
	return map[string]any{"error": "unknown topic: " + topic}
}

var docsSyntaxSections = []docsSyntaxSection{
	{
		Name: "declarations",
		Items: []docsSyntaxItem{
			{Syntax: "var name = expr;", Notes: "Initializer is optional and defaults to null"},
			{Syntax: "fun name(a, b) { ... }", Notes: "At most 255 parameters"},
		},
	},
	{
		Name: "statements",
		Items: []docsSyntaxItem{
			{Syntax: "print expr;", Notes: "Writes the value followed by a newline"},
			{Syntax: "if (cond) stmt else stmt", Notes: "else branch is optional"},
			{Syntax: "while (cond) stmt", Notes: ""},
			{Syntax: "for (init; cond; step) stmt", Notes: "Every clause is optional"},
			{Syntax: "return expr;", Notes: "Only inside functions; bare return yields null"},
			{Syntax: "{ ... }", Notes: "Block with its own local scope"},
		},
	},
	{
		Name: "operators",
		Items: []docsSyntaxItem{
			{Syntax: "a = b", Notes: "Assignment, right associative, lowest precedence"},
			{Syntax: "a or b, a and b", Notes: "Short-circuit, return an operand"},
			{Syntax: "== !=", Notes: "Any values; objects compare by identity, strings are interned"},
			{Syntax: "< <= > >=", Notes: "Numbers only"},
			{Syntax: "+ -", Notes: "+ also concatenates two strings"},
			{Syntax: "* /", Notes: "Numbers only"},
			{Syntax: "!x -x", Notes: "null, false and 0 are falsy"},
			{Syntax: "f(args)", Notes: "Call, highest precedence"},
		},
	},
}

var docsErrorPatterns = []docsErrorPattern{
	{
		Type:           "compile",
		MessagePattern: "[line N] Error at 'token': message",
		Causes:         []string{"Missing semicolon", "Invalid assignment target", "Too many constants"},
		Example:        "[line 1] Error at end: Expect ';' after value.",
	},
	{
		Type:           "runtime",
		MessagePattern: "message, then [line N] in function() per frame",
		Causes:         []string{"Undefined variable", "Operand type mismatch", "Wrong argument count"},
		Example:        "Undefined variable 'x'.\n[line 1] in script",
	},
}

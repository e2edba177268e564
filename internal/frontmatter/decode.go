// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frontmatter

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/coil/pkg/types"
)

// ParseError wraps a YAML syntax error. Line is 1-based within the
// frontmatter body, or 0 when the decoder did not report one.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("frontmatter yaml: line %d: %s", e.Line, e.Message)
	}
	return "frontmatter yaml: " + e.Message
}

// SchemaError reports a required field that is missing or has the wrong
// shape. Field is a dotted path such as coil.options.keep_indentation.
type SchemaError struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("frontmatter schema: %s: %s", e.Field, e.Message)
}

// yamlLinePattern matches the line prefix the YAML decoder puts on errors.
var yamlLinePattern = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)

// Decode parses raw frontmatter text into a CoilConfig. Required fields are
// never defaulted.
func Decode(raw string) (*types.CoilConfig, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &root); err != nil {
		return nil, newParseError(err)
	}

	var doc coilDocument
	if err := decodeSection(documentBody(&root), &doc, ""); err != nil {
		return nil, err
	}
	if err := schemaError(doc.Validate()); err != nil {
		return nil, err
	}

	var section coilSection
	if err := decodeSection(&doc.Coil, &section, "coil"); err != nil {
		return nil, err
	}
	if err := schemaError(section.Validate()); err != nil {
		return nil, prefixField(err, "coil")
	}

	var options coilOptions
	if err := decodeSection(&section.Options, &options, "coil.options"); err != nil {
		return nil, err
	}
	if err := schemaError(options.Validate()); err != nil {
		return nil, prefixField(err, "coil.options")
	}

	var cfg types.CoilConfig
	if err := options.KeepIndentation.Decode(&cfg.Options.KeepIndentation); err != nil {
		return nil, &SchemaError{Field: "coil.options.keep_indentation", Message: err.Error()}
	}
	files, err := decodeFiles(&section.Files)
	if err != nil {
		return nil, err
	}
	cfg.Files = files
	return &cfg, nil
}

func newParseError(err error) *ParseError {
	msg := err.Error()
	if m := yamlLinePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return &ParseError{Line: line, Message: m[2]}
	}
	return &ParseError{Message: strings.TrimPrefix(msg, "yaml: ")}
}

// documentBody unwraps the document node. An empty body yields nil.
func documentBody(root *yaml.Node) *yaml.Node {
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		return root.Content[0]
	}
	return nil
}

// decodeSection decodes a mapping node into dst. A nil or absent node
// leaves dst zero so the validation step reports the missing fields.
func decodeSection(node *yaml.Node, dst any, field string) error {
	if node == nil || node.Kind == 0 {
		return nil
	}
	name := field
	if name == "" {
		name = "(root)"
	}
	if node.Kind != yaml.MappingNode {
		return &SchemaError{Field: name, Message: "must be a mapping"}
	}
	if err := node.Decode(dst); err != nil {
		return &SchemaError{Field: name, Message: strings.TrimPrefix(err.Error(), "yaml: ")}
	}
	return nil
}

// decodeFiles converts the coil.files mapping, rejecting duplicate keys and
// values that are not non-empty scalars.
func decodeFiles(node *yaml.Node) (map[string]string, error) {
	files := make(map[string]string, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Kind != yaml.ScalarNode || strings.TrimSpace(k.Value) == "" {
			return nil, &SchemaError{Field: "coil.files", Message: fmt.Sprintf("line %d: key must be a non-empty string", k.Line)}
		}
		field := "coil.files." + k.Value
		if _, dup := files[k.Value]; dup {
			return nil, &SchemaError{Field: field, Message: fmt.Sprintf("line %d: duplicate key", k.Line)}
		}
		if v.Kind != yaml.ScalarNode || v.ShortTag() == "!!null" || strings.TrimSpace(v.Value) == "" {
			return nil, &SchemaError{Field: field, Message: fmt.Sprintf("line %d: must be a non-empty path", v.Line)}
		}
		files[k.Value] = v.Value
	}
	return files, nil
}

// schemaError flattens ozzo validation errors into a SchemaError naming the
// first failing field in sorted order.
func schemaError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	field, msg := firstFieldError(errs)
	return &SchemaError{Field: field, Message: msg}
}

func firstFieldError(errs validation.Errors) (string, string) {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	k := keys[0]
	var nested validation.Errors
	if errors.As(errs[k], &nested) && len(nested) > 0 {
		field, msg := firstFieldError(nested)
		return k + "." + field, msg
	}
	return k, errs[k].Error()
}

func prefixField(err error, prefix string) error {
	var se *SchemaError
	if errors.As(err, &se) {
		se.Field = prefix + "." + se.Field
	}
	return err
}

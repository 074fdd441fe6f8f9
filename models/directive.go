package models

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DirectiveKind identifies the execution strategy for a hunt's directive.
type DirectiveKind string

const (
	DirectiveShell DirectiveKind = "shell"
	DirectiveCode  DirectiveKind = "code"
	DirectiveFile  DirectiveKind = "file"
	DirectiveNote  DirectiveKind = "note"
)

// directivePrefixes maps wire prefixes to kinds. Notes have no prefix;
// any text that matches none of these is a note.
var directivePrefixes = []struct {
	prefix string
	kind   DirectiveKind
}{
	{"shell:", DirectiveShell},
	{"code:", DirectiveCode},
	{"file:", DirectiveFile},
}

// Directive is the typed instruction carried by a hunt. The wire form is
// "<kind>:<payload>" for shell, code and file directives; a note serializes
// as its bare text.
type Directive struct {
	Kind    DirectiveKind
	Payload string
}

// ParseDirective interprets a raw directive string. Text without a
// recognized prefix becomes a note, so parsing never fails; producers that
// want unknown kinds rejected should use NewDirective instead.
func ParseDirective(raw string) Directive {
	for _, p := range directivePrefixes {
		if strings.HasPrefix(raw, p.prefix) {
			return Directive{Kind: p.kind, Payload: strings.TrimSpace(raw[len(p.prefix):])}
		}
	}
	return Directive{Kind: DirectiveNote, Payload: strings.TrimSpace(raw)}
}

// NewDirective constructs a directive of an explicit kind, rejecting kinds
// outside the closed set.
func NewDirective(kind DirectiveKind, payload string) (Directive, error) {
	payload = strings.TrimSpace(payload)
	switch kind {
	case DirectiveShell, DirectiveCode, DirectiveFile:
	case DirectiveNote:
		// A note whose text starts with a recognized prefix would change
		// kind on reload.
		for _, p := range directivePrefixes {
			if strings.HasPrefix(payload, p.prefix) {
				return Directive{}, fmt.Errorf("note text may not start with %q", p.prefix)
			}
		}
	default:
		return Directive{}, fmt.Errorf("unknown directive kind %q", kind)
	}
	d := Directive{Kind: kind, Payload: payload}
	if err := d.Validate(); err != nil {
		return Directive{}, err
	}
	return d, nil
}

// Validate checks that the directive carries a usable payload.
func (d Directive) Validate() error {
	if d.Payload == "" {
		return fmt.Errorf("directive payload is empty")
	}
	switch d.Kind {
	case DirectiveShell, DirectiveCode, DirectiveFile, DirectiveNote:
		return nil
	}
	return fmt.Errorf("unknown directive kind %q", d.Kind)
}

// String returns the wire form of the directive.
func (d Directive) String() string {
	if d.Kind == DirectiveNote {
		return d.Payload
	}
	return string(d.Kind) + ":" + d.Payload
}

// MarshalText implements encoding.TextMarshaler so directives serialize as
// their wire form in JSON and TOML documents.
func (d Directive) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Directive) UnmarshalText(text []byte) error {
	*d = ParseDirective(string(text))
	return nil
}

// MarshalYAML keeps the YAML form aligned with the text form.
func (d Directive) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML decodes the wire form from a YAML scalar.
func (d *Directive) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*d = ParseDirective(raw)
	return nil
}

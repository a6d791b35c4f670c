// Package diag is yambs's error aggregation and reporting layer. It reuses
// hashicorp/hcl's hcl.Diagnostics / hcl.Range machinery for exactly the role
// the teacher's cmd/main.go wires it up for (hcl.NewDiagnosticTextWriter
// rendering a caret-style excerpt), decoupled from HCL's own parser and
// expression evaluator: TOML manifests have no expressions to evaluate, so
// only the diagnostic value types and the text writer are reused.
package diag

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2"
	"github.com/mitchellh/colorstring"
)

// Kind is the error taxonomy of spec §7.
type Kind string

const (
	Io                   Kind = "Io"
	ManifestParse        Kind = "ManifestParse"
	ManifestSchema       Kind = "ManifestSchema"
	BadFlagToken         Kind = "BadFlagToken"
	BadTargetName        Kind = "BadTargetName"
	SourceNotFound       Kind = "SourceNotFound"
	DependencyAmbiguous  Kind = "DependencyAmbiguous"
	DependencyCycle      Kind = "DependencyCycle"
	CompilerNotFound     Kind = "CompilerNotFound"
	UnsupportedCompiler  Kind = "UnsupportedCompiler"
	PkgConfigFailed      Kind = "PkgConfigFailed"
	CacheCorrupted       Kind = "CacheCorrupted"
	BuildFailed          Kind = "BuildFailed"
	BuildRootLocked      Kind = "BuildRootLocked"
	UsageError           Kind = "UsageError"
)

// context is attached to every hcl.Diagnostic we mint, in its Extra slot,
// so downstream consumers (the JSON reporter) can recover the taxonomy
// without re-parsing Summary strings.
type context struct {
	Kind     Kind
	Manifest string
	Target   string
	Source   string
}

// New builds a single fatal diagnostic tagged with the given error kind and
// context. subject may be nil when no source position is available.
func New(kind Kind, summary, detail string, subject *hcl.Range, manifest, target, source string) hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  subject,
		Extra:    context{Kind: kind, Manifest: manifest, Target: target, Source: source},
	}}
}

// Warn builds a single warning-level diagnostic.
func Warn(summary, detail string) hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagWarning,
		Summary:  summary,
		Detail:   detail,
	}}
}

// KindOf recovers the taxonomy Kind attached by New, defaulting to Io when
// a diagnostic wasn't minted through this package (e.g. bubbled up from a
// dependency).
func KindOf(d *hcl.Diagnostic) Kind {
	if ctx, ok := d.Extra.(context); ok {
		return ctx.Kind
	}
	return Io
}

// jsonError is the wire shape of spec §7's --format=json output.
type jsonError struct {
	Kind     Kind   `json:"kind"`
	Message  string `json:"message"`
	Manifest string `json:"manifest,omitempty"`
	Target   string `json:"target,omitempty"`
	Source   string `json:"source,omitempty"`
}

// WriteJSON emits one JSON object per line, per spec §7.
func WriteJSON(w io.Writer, diags hcl.Diagnostics) error {
	enc := json.NewEncoder(w)
	for _, d := range diags {
		ctx, _ := d.Extra.(context)
		message := d.Summary
		if d.Detail != "" {
			message = fmt.Sprintf("%s: %s", d.Summary, d.Detail)
		}

		err := enc.Encode(jsonError{
			Kind:     ctx.Kind,
			Message:  message,
			Manifest: ctx.Manifest,
			Target:   ctx.Target,
			Source:   ctx.Source,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// WriteHuman renders diagnostics as one summary line each, colorized when
// color is true, following the teacher's severity-first style. It prints no
// caret excerpt: a diagnostic's Subject range is not rendered.
func WriteHuman(w io.Writer, diags hcl.Diagnostics, color bool) {
	for _, d := range diags {
		line := fmt.Sprintf("[%s] %s", severityLabel(d.Severity), d.Summary)
		if d.Detail != "" {
			line += ": " + d.Detail
		}

		if color {
			template := "[red]%s[reset]"
			if d.Severity == hcl.DiagWarning {
				template = "[yellow]%s[reset]"
			}
			line = colorstring.Color(fmt.Sprintf(template, line))
		}

		fmt.Fprintln(w, line)
	}
}

func severityLabel(sev hcl.DiagnosticSeverity) string {
	switch sev {
	case hcl.DiagError:
		return "error"
	case hcl.DiagWarning:
		return "warning"
	default:
		return "info"
	}
}

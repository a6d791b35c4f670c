package manifest

import (
	"fmt"

	"github.com/yambs-build/yambs/internal/diag"

	"github.com/hashicorp/hcl/v2"
)

// posAt turns a 1-based (line, col) pair from a go-toml Tree position into
// an hcl.Pos with a computed byte offset, so hcl.NewDiagnosticTextWriter can
// slice src for a caret-style excerpt (spec §7).
func posAt(src []byte, line, col int) hcl.Pos {
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}

	byteOffset := 0
	currentLine := 1
	for i := 0; i < len(src); i++ {
		if currentLine == line {
			break
		}
		if src[i] == '\n' {
			currentLine++
			byteOffset = i + 1
		}
	}

	return hcl.Pos{Line: line, Column: col, Byte: byteOffset + col - 1}
}

// rangeAt builds a single-column hcl.Range anchored at (line, col).
func rangeAt(filename string, src []byte, line, col int) *hcl.Range {
	start := posAt(src, line, col)
	end := start
	end.Column++
	end.Byte++
	return &hcl.Range{Filename: filename, Start: start, End: end}
}

func errIo(path string, err error) hcl.Diagnostics {
	return diag.New(diag.Io, "couldn't read manifest", err.Error(), nil, path, "", "")
}

func errTomlParse(path string, err error) hcl.Diagnostics {
	return diag.New(diag.ManifestParse, "manifest is not valid TOML", err.Error(), nil, path, "", "")
}

func errUnknownTable(path string, table string, subject *hcl.Range) hcl.Diagnostics {
	summary := fmt.Sprintf("unknown top-level table %q", table)
	return diag.New(diag.ManifestSchema, summary, `only "executable" and "library" are recognized`, subject, path, "", "")
}

func errUnknownKey(path, target, key string, subject *hcl.Range) hcl.Diagnostics {
	summary := fmt.Sprintf("unknown key %q", key)
	return diag.New(diag.ManifestSchema, summary, "", subject, path, target, "")
}

func errMissingRequired(path, target, key string) hcl.Diagnostics {
	summary := fmt.Sprintf("target %q is missing required key %q", target, key)
	return diag.New(diag.ManifestSchema, summary, "", nil, path, target, "")
}

func errBadTargetName(path, name string, subject *hcl.Range) hcl.Diagnostics {
	summary := fmt.Sprintf("invalid target name %q", name)
	return diag.New(diag.BadTargetName, summary, `must match [A-Za-z_][A-Za-z0-9_-]*`, subject, path, name, "")
}

func errBadFlagToken(path, target, tok string, subject *hcl.Range) hcl.Diagnostics {
	summary := fmt.Sprintf("invalid flag token %q", tok)
	return diag.New(diag.BadFlagToken, summary, "flags must begin with - and match a recognized family (-W, -f, -D, -I, -std=, -m)", subject, path, target, "")
}

func errSourceNotFound(path, target, source string) hcl.Diagnostics {
	summary := fmt.Sprintf("source %q not found", source)
	return diag.New(diag.SourceNotFound, summary, "", nil, path, target, source)
}

func errDependencyAmbiguous(path, target, dep, detail string) hcl.Diagnostics {
	summary := fmt.Sprintf("dependency %q mixes keys from more than one dependency kind", dep)
	return diag.New(diag.DependencyAmbiguous, summary, detail, nil, path, target, "")
}

package manifest

import (
	"path"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
)

// targetNameRe matches spec §3 TargetSpec.name: `[A-Za-z_][A-Za-z0-9_-]*`.
var targetNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// ValidTargetName reports whether name satisfies spec §3's naming rule.
func ValidTargetName(name string) bool {
	return targetNameRe.MatchString(name)
}

// flagTokenPatterns is the allow-list of spec §3: "a flag must begin with
// - and match a small regex set for -W…, -f…, -D…, -I…, -std=…, -m…".
var flagTokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^-W[A-Za-z0-9_=,+-]+$`),
	regexp.MustCompile(`^-f[A-Za-z0-9_=,-]+$`),
	regexp.MustCompile(`^-D[A-Za-z_][A-Za-z0-9_]*(=.*)?$`),
	regexp.MustCompile(`^-I[^\s]+$`),
	regexp.MustCompile(`^-std=[A-Za-z0-9+]+$`),
	regexp.MustCompile(`^-m[A-Za-z0-9_=-]+$`),
}

// ValidFlagToken reports whether tok is an allowed cxxflags_append /
// cppflags_append entry: it must begin with "-", contain no whitespace or
// shell metacharacters, and match one of the recognized flag families.
func ValidFlagToken(tok string) bool {
	if tok == "" || tok[0] != '-' {
		return false
	}
	if containsShellMeta(tok) {
		return false
	}

	for _, re := range flagTokenPatterns {
		if re.MatchString(tok) {
			return true
		}
	}

	return false
}

func containsShellMeta(tok string) bool {
	const meta = " \t\n;&|<>$`\\\"'*?()[]{}~!#"
	for _, r := range tok {
		for _, m := range meta {
			if r == m {
				return true
			}
		}
	}
	return false
}

// RecognizedSourceExtension reports whether p carries one of the C++
// extensions the parser accepts (spec §3 "recognized C++ extension"),
// matching by glob against recognizedSourceExtensions the way doublestar
// matches path patterns elsewhere in the pack.
func RecognizedSourceExtension(p string) bool {
	base := path.Base(p)
	for _, pattern := range recognizedSourceExtensions {
		ok, err := doublestar.Match(pattern, base)
		if err == nil && ok {
			return true
		}
	}
	return false
}

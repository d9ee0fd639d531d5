// Package version suggests the next semantic version for a release from the
// commit subjects since the previous tag.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/leandrosilvaferreira/gitai/internal/git"
)

type BumpType string

const (
	BumpNone  BumpType = "none"
	BumpPatch BumpType = "patch"
	BumpMinor BumpType = "minor"
	BumpMajor BumpType = "major"
)

// SemVer is a MAJOR.MINOR.PATCH version. Prefix keeps a leading "v" so a
// suggestion is spelled like the tag it came from.
type SemVer struct {
	Prefix string
	Major  int
	Minor  int
	Patch  int
}

func ParseSemVer(tag string) (SemVer, error) {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return SemVer{}, fmt.Errorf("empty version")
	}

	var v SemVer
	if strings.HasPrefix(trimmed, "v") || strings.HasPrefix(trimmed, "V") {
		v.Prefix = trimmed[:1]
		trimmed = trimmed[1:]
	}
	// Pre-release and build metadata do not take part in the suggestion.
	if i := strings.IndexAny(trimmed, "-+"); i >= 0 {
		trimmed = trimmed[:i]
	}

	parts := strings.Split(trimmed, ".")
	if len(parts) != 3 {
		return SemVer{}, fmt.Errorf("invalid semantic version: %s", tag)
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return SemVer{}, fmt.Errorf("invalid semantic version: %s", tag)
		}
		nums[i] = n
	}
	v.Major, v.Minor, v.Patch = nums[0], nums[1], nums[2]
	return v, nil
}

func (v SemVer) String() string {
	return fmt.Sprintf("%s%d.%d.%d", v.Prefix, v.Major, v.Minor, v.Patch)
}

func (v SemVer) Equal(other SemVer) bool {
	return v.Major == other.Major && v.Minor == other.Minor && v.Patch == other.Patch
}

func (v SemVer) Bump(kind BumpType) SemVer {
	switch kind {
	case BumpMajor:
		return SemVer{Prefix: v.Prefix, Major: v.Major + 1}
	case BumpMinor:
		return SemVer{Prefix: v.Prefix, Major: v.Major, Minor: v.Minor + 1}
	case BumpPatch:
		return SemVer{Prefix: v.Prefix, Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	default:
		return v
	}
}

type Suggestion struct {
	Base     SemVer
	Next     SemVer
	BumpType BumpType
	Reason   string
}

var subjectPattern = regexp.MustCompile(`^([a-z]+)(?:\([^)]+\))?(!)?:`)

// Suggest picks the bump from commit subjects: a breaking marker is major,
// any feat is minor, anything else is a patch. No commits means no bump.
func Suggest(base SemVer, commits []git.CommitInfo) Suggestion {
	result := Suggestion{Base: base, Next: base, BumpType: BumpNone, Reason: "No commits found since " + base.String()}
	if len(commits) == 0 {
		return result
	}

	var breaking, features int
	for _, c := range commits {
		subject := strings.TrimSpace(c.Subject)
		m := subjectPattern.FindStringSubmatch(subject)
		switch {
		case (m != nil && m[2] == "!") || strings.Contains(strings.ToUpper(subject), "BREAKING CHANGE"):
			breaking++
		case m != nil && m[1] == "feat":
			features++
		}
	}

	switch {
	case breaking > 0:
		result.BumpType = BumpMajor
		result.Reason = fmt.Sprintf("%d breaking change commit(s) since %s", breaking, base)
	case features > 0:
		result.BumpType = BumpMinor
		result.Reason = fmt.Sprintf("%d feature commit(s) since %s", features, base)
	default:
		result.BumpType = BumpPatch
		result.Reason = fmt.Sprintf("%d fix or maintenance commit(s) since %s", len(commits), base)
	}
	result.Next = base.Bump(result.BumpType)
	return result
}

// Package project guesses the language ecosystem of a directory tree from
// marker files and file extensions. The label is prompt context only.
package project

import (
	"os"
	"path/filepath"
	"strings"
)

// Ecosystem is a detected language/platform label.
type Ecosystem string

const (
	NodeJS     Ecosystem = "Node.js"
	Python     Ecosystem = "Python"
	Java       Ecosystem = "Java"
	Go         Ecosystem = "Go"
	PHP        Ecosystem = "PHP"
	Ruby       Ecosystem = "Ruby"
	Rust       Ecosystem = "Rust"
	Haskell    Ecosystem = "Haskell"
	Swift      Ecosystem = "Swift"
	Elixir     Ecosystem = "Elixir"
	Dart       Ecosystem = "Dart"
	Scala      Ecosystem = "Scala"
	Perl       Ecosystem = "Perl"
	R          Ecosystem = "R"
	CSharp     Ecosystem = "C#"
	Kotlin     Ecosystem = "Kotlin"
	CCpp       Ecosystem = "C/C++"
	JavaScript Ecosystem = "JavaScript"
	TypeScript Ecosystem = "TypeScript"
	Unknown    Ecosystem = "Unknown"
)

func (e Ecosystem) String() string {
	return string(e)
}

type rule struct {
	ecosystem Ecosystem
	patterns  []string
}

// Table order decides ties: the first ecosystem whose rule matches wins.
var markerRules = []rule{
	{NodeJS, []string{"package.json", "yarn.lock", "package-lock.json", "npm-shrinkwrap.json"}},
	{Python, []string{"requirements.txt", "Pipfile", "pyproject.toml", "setup.py", "setup.cfg", "manage.py"}},
	{Java, []string{"pom.xml", "build.gradle", "build.gradle.kts", "build.xml", ".java-version"}},
	{Go, []string{"go.mod", "Gopkg.lock"}},
	{PHP, []string{"composer.json", "composer.lock", "index.php"}},
	{Ruby, []string{"Gemfile", "Gemfile.lock", "Rakefile", "config.ru", ".ruby-version"}},
	{Rust, []string{"Cargo.toml", "Cargo.lock"}},
	{Haskell, []string{"stack.yaml", "cabal.project"}},
	{Swift, []string{"Package.swift"}},
	{Elixir, []string{"mix.exs"}},
	{Dart, []string{"pubspec.yaml"}},
	{Scala, []string{"build.sbt"}},
	{Perl, []string{"Makefile.PL", "Build.PL"}},
	{R, []string{".Rproj"}},
}

var extensionRules = []rule{
	{CSharp, []string{".csproj", ".sln"}},
	{Haskell, []string{".cabal"}},
	{Swift, []string{".xcodeproj", ".xcworkspace"}},
	{Kotlin, []string{".kt", ".kts"}},
	{CCpp, []string{".c", ".cpp", ".h", ".hpp"}},
	{JavaScript, []string{".js", ".jsx"}},
	{TypeScript, []string{".ts", ".tsx"}},
	{Python, []string{".py"}},
	{Java, []string{".java"}},
}

// scanRule is one check of the recursive pass. Names match exactly,
// suffixes match the end of the file name.
type scanRule struct {
	ecosystem Ecosystem
	names     []string
	suffix    string
}

var scanRules = []scanRule{
	{ecosystem: NodeJS, names: []string{"package.json", "yarn.lock", "package-lock.json"}},
	{ecosystem: PHP, suffix: ".php"},
	{ecosystem: Python, suffix: ".py"},
	{ecosystem: Java, suffix: ".java"},
	{ecosystem: Ruby, names: []string{"Gemfile", "Rakefile"}},
	{ecosystem: Rust, names: []string{"Cargo.toml", "Cargo.lock"}},
	{ecosystem: CSharp, suffix: ".csproj"},
	{ecosystem: Dart, names: []string{"pubspec.yaml"}},
	{ecosystem: Swift, names: []string{"Package.swift"}},
}

// Classify returns the best-guess ecosystem for root. Root-level marker
// files take precedence over root-level extensions, which take precedence
// over a recursive scan. It never fails; unreadable roots are Unknown.
func Classify(root string) Ecosystem {
	entries, err := os.ReadDir(root)
	if err != nil {
		return Unknown
	}

	names := make(map[string]struct{}, len(entries))
	ordered := make([]string, 0, len(entries))
	for _, entry := range entries {
		names[entry.Name()] = struct{}{}
		ordered = append(ordered, entry.Name())
	}

	if eco, ok := matchMarkers(root, names); ok {
		return eco
	}
	if eco, ok := matchExtensions(ordered); ok {
		return eco
	}
	if eco, ok := scanTree(root); ok {
		return eco
	}
	return Unknown
}

func matchMarkers(root string, names map[string]struct{}) (Ecosystem, bool) {
	for _, r := range markerRules {
		for _, marker := range r.patterns {
			if strings.ContainsRune(marker, '/') || strings.ContainsRune(marker, filepath.Separator) {
				if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(marker))); err == nil {
					return r.ecosystem, true
				}
				continue
			}
			if _, ok := names[marker]; ok {
				return r.ecosystem, true
			}
		}
	}
	return "", false
}

func matchExtensions(names []string) (Ecosystem, bool) {
	for _, r := range extensionRules {
		for _, name := range names {
			for _, ext := range r.patterns {
				if strings.HasSuffix(name, ext) {
					return r.ecosystem, true
				}
			}
		}
	}
	return "", false
}

// scanTree walks top-down: every file of a directory is checked before any
// of its subdirectories is entered. Unreadable subdirectories are skipped.
func scanTree(dir string) (Ecosystem, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	var subdirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, filepath.Join(dir, entry.Name()))
			continue
		}
		if eco, ok := matchScanRules(entry.Name()); ok {
			return eco, true
		}
	}

	for _, sub := range subdirs {
		if eco, ok := scanTree(sub); ok {
			return eco, true
		}
	}
	return "", false
}

func matchScanRules(name string) (Ecosystem, bool) {
	for _, r := range scanRules {
		if r.suffix != "" && strings.HasSuffix(name, r.suffix) {
			return r.ecosystem, true
		}
		for _, n := range r.names {
			if name == n {
				return r.ecosystem, true
			}
		}
	}
	return "", false
}

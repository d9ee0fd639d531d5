package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	return root
}

func TestClassifyUnknown(t *testing.T) {
	tests := []struct {
		name  string
		files []string
	}{
		{"empty", nil},
		{"docs only", []string{"README.md", "LICENSE", "docs/guide.md"}},
		{"unrelated extensions", []string{"notes.txt", "data/values.csv", "img/logo.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Unknown, Classify(makeTree(t, tt.files...)))
		})
	}
}

func TestClassifyMissingRoot(t *testing.T) {
	assert.Equal(t, Unknown, Classify(filepath.Join(t.TempDir(), "missing")))
}

func TestClassifySingleMarker(t *testing.T) {
	tests := []struct {
		marker   string
		expected Ecosystem
	}{
		{"package.json", NodeJS},
		{"npm-shrinkwrap.json", NodeJS},
		{"pyproject.toml", Python},
		{"manage.py", Python},
		{"pom.xml", Java},
		{"build.gradle.kts", Java},
		{"go.mod", Go},
		{"composer.json", PHP},
		{"index.php", PHP},
		{"Gemfile", Ruby},
		{".ruby-version", Ruby},
		{"Cargo.toml", Rust},
		{"stack.yaml", Haskell},
		{"Package.swift", Swift},
		{"mix.exs", Elixir},
		{"pubspec.yaml", Dart},
		{"build.sbt", Scala},
		{"Makefile.PL", Perl},
		{".Rproj", R},
	}

	for _, tt := range tests {
		t.Run(tt.marker, func(t *testing.T) {
			// Unrelated extensions must not change the result.
			root := makeTree(t, tt.marker, "main.c", "app.ts", "notes.txt")
			assert.Equal(t, tt.expected, Classify(root))
		})
	}
}

func TestClassifyMarkerTableOrder(t *testing.T) {
	// Node.js is listed before Python, Python before Go.
	assert.Equal(t, NodeJS, Classify(makeTree(t, "requirements.txt", "package.json")))
	assert.Equal(t, Python, Classify(makeTree(t, "go.mod", "setup.py")))
	assert.Equal(t, Java, Classify(makeTree(t, "Cargo.toml", "pom.xml")))
}

func TestClassifyExtensions(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		expected Ecosystem
	}{
		{"csharp project", []string{"App.csproj"}, CSharp},
		{"solution", []string{"App.sln"}, CSharp},
		{"cabal", []string{"lib.cabal"}, Haskell},
		{"kotlin", []string{"Main.kt"}, Kotlin},
		{"c header", []string{"util.h"}, CCpp},
		{"jsx", []string{"App.jsx"}, JavaScript},
		{"typescript", []string{"index.ts"}, TypeScript},
		{"python", []string{"script.py"}, Python},
		{"java", []string{"Main.java"}, Java},
		{"table order beats file order", []string{"a.py", "b.cpp"}, CCpp},
		{"csharp before javascript", []string{"app.js", "App.csproj"}, CSharp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(makeTree(t, tt.files...)))
		})
	}
}

func TestClassifyXcodeProjectDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "App.xcodeproj"), 0o755))
	assert.Equal(t, Swift, Classify(root))
}

func TestClassifyPrecedence(t *testing.T) {
	// Marker beats extension.
	assert.Equal(t, Go, Classify(makeTree(t, "go.mod", "App.csproj")))
	// Extension beats recursive scan.
	assert.Equal(t, TypeScript, Classify(makeTree(t, "index.ts", "sub/Gemfile")))
	// Marker beats recursive scan.
	assert.Equal(t, Rust, Classify(makeTree(t, "Cargo.lock", "web/package.json")))
}

func TestClassifyRecursiveScan(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		expected Ecosystem
	}{
		{"nested package.json", []string{"frontend/package.json"}, NodeJS},
		{"deep php", []string{"a/b/c/d/page.php"}, PHP},
		{"root php file", []string{"page.php"}, PHP},
		{"nested python", []string{"src/pkg/mod.py"}, Python},
		{"nested gemfile", []string{"api/Gemfile"}, Ruby},
		{"nested cargo", []string{"crates/core/Cargo.toml"}, Rust},
		{"nested csproj", []string{"src/App/App.csproj"}, CSharp},
		{"nested pubspec", []string{"mobile/pubspec.yaml"}, Dart},
		{"nested swift package", []string{"ios/Package.swift"}, Swift},
		{"rule order within a file name", []string{"sub/package.json"}, NodeJS},
		{"files of a directory before its subdirectories", []string{"a/z/Gemfile", "a/mod.py"}, Python},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(makeTree(t, tt.files...)))
		})
	}
}

func TestEcosystemString(t *testing.T) {
	assert.Equal(t, "C/C++", CCpp.String())
	assert.Equal(t, "Unknown", Unknown.String())
}

// Package docgen generates the Markdown documentation set published to the
// project wiki: one page per library package, exported types first, then
// functions, each with a fenced signature block and its doc comment.
package docgen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/doc"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FilePrefix is the documentation file name prefix; the publish flow removes
// previously published files by this prefix before copying new ones in.
const FilePrefix = "iolib."

// skippedDirs are never documented.
var skippedDirs = map[string]bool{
	"cmd":      true,
	"testutil": true,
	"testdata": true,
	"vendor":   true,
}

var titleCaser = cases.Title(language.English)

// Generate renders documentation for every library package directly under
// root into outDir. The output directory is created if absent and emptied of
// any previous content first. Returns the generated file names.
func Generate(root, outDir string) ([]string, error) {
	if err := resetDir(outDir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read module root: %w", err)
	}

	var generated []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || skippedDirs[name] || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}
		page, err := RenderPackage(filepath.Join(root, name))
		if err != nil {
			return nil, err
		}
		if page == "" {
			continue
		}
		fileName := FilePrefix + name + ".md"
		if err := os.WriteFile(filepath.Join(outDir, fileName), []byte(page), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", fileName, err)
		}
		generated = append(generated, fileName)
	}
	sort.Strings(generated)
	return generated, nil
}

// RenderPackage renders one package directory as a Markdown page. Returns
// the empty string when the directory holds no documentable Go package.
func RenderPackage(dir string) (string, error) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, func(fi os.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.ParseComments)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", dir, err)
	}

	for name, pkg := range pkgs {
		if strings.HasSuffix(name, "_test") {
			continue
		}
		d := doc.New(pkg, name, 0)
		return renderDoc(fset, d), nil
	}
	return "", nil
}

func renderDoc(fset *token.FileSet, d *doc.Package) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", titleCaser.String(d.Name))
	if d.Doc != "" {
		fmt.Fprintf(&b, "```\n%s```\n\n", d.Doc)
	}

	for _, typ := range d.Types {
		fmt.Fprintf(&b, "## %s\n\n", typ.Name)
		if typ.Doc != "" {
			fmt.Fprintf(&b, "```\n%s```\n\n", typ.Doc)
		}
		methods := append([]*doc.Func(nil), typ.Methods...)
		methods = append(methods, typ.Funcs...)
		sort.Slice(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name })
		for _, m := range methods {
			fmt.Fprintf(&b, "### %s\n\n", m.Name)
			writeFunc(&b, fset, d.Name, m)
		}
	}

	for _, fn := range d.Funcs {
		fmt.Fprintf(&b, "## %s\n\n", fn.Name)
		writeFunc(&b, fset, d.Name, fn)
	}

	return b.String()
}

func writeFunc(b *strings.Builder, fset *token.FileSet, pkgName string, fn *doc.Func) {
	fmt.Fprintf(b, "```go\n// %s.%s\n%s\n```\n", pkgName, fn.Name, Signature(fset, fn.Decl))
	if fn.Doc != "" {
		fmt.Fprintf(b, "\n```\n%s```\n", fn.Doc)
	}
	b.WriteString("\n")
}

// Signature renders a function declaration without its body or doc comment.
func Signature(fset *token.FileSet, decl *ast.FuncDecl) string {
	stripped := *decl
	stripped.Body = nil
	stripped.Doc = nil

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, &stripped); err != nil {
		return "func " + decl.Name.Name
	}
	return buf.String()
}

// resetDir creates dir if absent and removes any regular files inside it.
func resetDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read output dir: %w", err)
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("remove stale %s: %w", e.Name(), err)
		}
	}
	return nil
}

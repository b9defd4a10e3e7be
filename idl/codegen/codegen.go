// Package codegen implements the eRPC code generator backend of spec.md:
// given a resolved Program, it applies the binary->list pre-emission
// rewrite, builds a template data map, and renders one output file per
// requested target language from an embedded cpptempl-style template,
// mirroring Generator::generate()/generateOutputFile() in
// erpcgen/src/Generator.hpp.
package codegen

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"erpc/idl/sema"
	"erpc/idl/tmpl"
	"erpc/runtime/wire"
)

//go:embed templates/c/program.tmpl templates/python/program.tmpl templates/rust/program.tmpl
var templateFS embed.FS

var templatePaths = map[Language]string{
	LangC:      "templates/c/program.tmpl",
	LangPython: "templates/python/program.tmpl",
	LangRust:   "templates/rust/program.tmpl",
}

// Options configures a Generate call.
type Options struct {
	// Languages lists every target to render; at least one is required.
	Languages []Language
	// SourceText is the original IDL file content, hashed into the CRC-16
	// program constant embedded in every emitted file (runtime/wire.ProgramCRC).
	SourceText string
}

// Generate applies the pre-emission transforms to prog, then renders one
// file per requested language. The result maps output filename (relative,
// programName + the language's extension) to rendered content, so callers
// can inspect or diff generated output without touching disk.
func Generate(prog *sema.Program, opts Options) (map[string]string, error) {
	if len(opts.Languages) == 0 {
		return nil, fmt.Errorf("codegen: at least one target language is required")
	}
	rewriteBinary(prog)

	crc := wire.ProgramCRC(opts.SourceText)
	out := make(map[string]string, len(opts.Languages))
	for _, lang := range opts.Languages {
		path, ok := templatePaths[lang]
		if !ok {
			return nil, fmt.Errorf("codegen: unsupported language %v", lang)
		}
		src, err := templateFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("codegen: reading embedded template %s: %w", path, err)
		}
		nodes, err := tmpl.Parse(string(src))
		if err != nil {
			return nil, fmt.Errorf("codegen: parsing template %s: %w", path, err)
		}
		scope := BuildData(prog, lang, crc)
		rendered, err := tmpl.Render(nodes, scope)
		if err != nil {
			return nil, fmt.Errorf("codegen: rendering %s for %s: %w", path, lang, err)
		}
		out[prog.Name+lang.Extension()] = rendered
	}
	return out, nil
}

// WriteFiles writes every entry of files under dir, creating it if needed.
func WriteFiles(dir string, files map[string]string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("codegen: creating output dir %s: %w", dir, err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return fmt.Errorf("codegen: writing %s: %w", name, err)
		}
	}
	return nil
}

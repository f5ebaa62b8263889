// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

// docgen renders docs/commands/*.md into man pages and tldr pages.
//
//	docs/man/share/man1/dsctl-<cmd>.1  (md2man, full markdown)
//	docs/tldr/dsctl-<cmd>.md           (Short description + Quick examples)
//
// Every dsctl subcommand must have a page; --tldr is served from the
// generated tldr output, so a missing page is a generation error, not a
// warning.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
)

// subcommands is the authoritative list of documented commands. It must
// match the builders registered in internal/command/app.go.
var subcommands = []string{
	"setup", "activate-env", "deactivate-env", "check-venv",
	"python-version", "clean", "build", "update-deps", "jupyter",
	"install-aws-cli", "check-aws-credentials", "sync-data-to-s3",
	"sync-data-from-s3", "pre-commit", "lint", "format", "check-types",
	"code-quality", "test", "test-verbose", "test-coverage",
	"test-coverage-html", "publish", "generate", "completion",
}

func main() {
	var (
		repoRoot           string
		writeOnlyIfChanged bool
	)
	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&writeOnlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	commandsDir := filepath.Join(repoRoot, "docs", "commands")
	manOutDir := filepath.Join(repoRoot, "docs", "man", "share", "man1")
	tldrOutDir := filepath.Join(repoRoot, "docs", "tldr")

	for _, dir := range []string{manOutDir, tldrOutDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fatalf("creating output dir %s: %v", dir, err)
		}
	}

	pages := map[string][]byte{}
	for _, cmd := range subcommands {
		raw, err := os.ReadFile(filepath.Join(commandsDir, cmd+".md"))
		if err != nil {
			fatalf("missing doc page for %q: %v", cmd, err)
		}
		pages[cmd] = raw
	}
	if extra := undocumentedPages(commandsDir, pages); len(extra) > 0 {
		fatalf("doc pages without a registered command: %s", strings.Join(extra, ", "))
	}

	for cmd, raw := range pages {
		manPath := filepath.Join(manOutDir, "dsctl-"+cmd+".1")
		if err := writeFileIfChanged(manPath, md2man.Render(raw), writeOnlyIfChanged); err != nil {
			fatalf("writing man page for %s: %v", cmd, err)
		}

		doc := parsePage(string(raw))
		tldrPath := filepath.Join(tldrOutDir, "dsctl-"+cmd+".md")
		if err := writeFileIfChanged(tldrPath, []byte(buildTLDR(cmd, doc)), writeOnlyIfChanged); err != nil {
			fatalf("writing tldr page for %s: %v", cmd, err)
		}
	}
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

// undocumentedPages lists .md files in dir that no subcommand claims,
// sorted for stable output.
func undocumentedPages(dir string, pages map[string][]byte) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		fatalf("reading commands dir %s: %v", dir, err)
	}
	var extra []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		if _, ok := pages[strings.TrimSuffix(e.Name(), ".md")]; !ok {
			extra = append(extra, e.Name())
		}
	}
	sort.Strings(extra)
	return extra
}

func writeFileIfChanged(path string, content []byte, onlyIfChanged bool) error {
	if onlyIfChanged {
		old, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err == nil && bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(content)) {
			return nil
		}
	}
	return os.WriteFile(path, content, 0o644)
}

// page holds the sections a command doc is built from.
type page struct {
	short    string
	examples []example
}

type example struct {
	desc string
	cmd  string
}

var sectionRe = regexp.MustCompile(`(?m)^##\s+(.+)$`)

// parsePage splits the markdown into its H2 sections and extracts the short
// description paragraph and the Quick examples code block.
func parsePage(md string) page {
	sections := map[string]string{}
	matches := sectionRe.FindAllStringSubmatchIndex(md, -1)
	for i, m := range matches {
		name := strings.ToLower(strings.TrimSpace(md[m[2]:m[3]]))
		end := len(md)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections[name] = strings.TrimSpace(md[m[1]:end])
	}

	var p page
	p.short = firstParagraph(sections["short description"])
	p.examples = parseExamples(sections["quick examples"])
	return p
}

func firstParagraph(body string) string {
	var out []string
	for _, ln := range strings.Split(body, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			if len(out) > 0 {
				break
			}
			continue
		}
		out = append(out, ln)
	}
	return strings.Join(out, " ")
}

// parseExamples reads the first fenced block: comment lines describe the
// command line that follows them.
func parseExamples(body string) []example {
	open := strings.Index(body, "```")
	if open < 0 {
		return nil
	}
	rest := body[open+3:]
	end := strings.Index(rest, "```")
	if end < 0 {
		return nil
	}

	var exs []example
	desc := ""
	for _, ln := range strings.Split(rest[:end], "\n") {
		ln = strings.TrimSpace(ln)
		switch {
		case ln == "":
			continue
		case strings.HasPrefix(ln, "#"):
			desc = strings.TrimSpace(strings.TrimLeft(ln, "# "))
		default:
			if desc == "" {
				desc = "Example"
			}
			exs = append(exs, example{desc: desc, cmd: strings.Join(strings.Fields(ln), " ")})
			desc = ""
		}
	}
	return exs
}

func buildTLDR(cmd string, doc page) string {
	var b strings.Builder
	b.WriteString("# dsctl-" + cmd + "\n\n")
	if doc.short != "" {
		b.WriteString("> " + doc.short + "\n")
	} else {
		b.WriteString("> dsctl " + cmd + "\n")
	}
	b.WriteString("> More information: https://github.com/statkit/dsctl.\n\n")

	if len(doc.examples) == 0 {
		b.WriteString("- Show help for the command:\n\n")
		b.WriteString("`dsctl " + cmd + " --help`\n")
		return b.String()
	}
	for i, ex := range doc.examples {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + ex.desc + ":\n\n")
		b.WriteString("`" + ex.cmd + "`\n")
	}
	return b.String()
}

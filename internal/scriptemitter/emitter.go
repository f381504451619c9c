// Package scriptemitter is the Script Emitter (spec §4.9): it accumulates
// validated code fragments from the Executor into an output artifact,
// either a file-backed timestamped test scaffold or an in-memory string,
// behind the same Emitter contract. New component with no direct teacher
// analogue; written in the teacher's plain os/fmt style (see e.g. the
// teacher's timestamped migration-file naming convention).
package scriptemitter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Emitter is the contract both variants satisfy.
type Emitter interface {
	AppendCode(code string, thought string)
	Finish() error
	GetOutput() string
}

const scaffoldHeader = "import { test, expect } from '@playwright/test';\n\ntest('%s', async ({ page }) => {\n"
const scaffoldFooter = "});\n"

// slug lowercases goal and replaces runs of non-alphanumeric characters
// with a single hyphen, for use in the output filename.
func slug(goal string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(goal) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func indentedStatement(code, thought string) string {
	var b strings.Builder
	if thought != "" {
		b.WriteString("  // ")
		b.WriteString(strings.ReplaceAll(thought, "\n", " "))
		b.WriteString("\n")
	}
	b.WriteString("  ")
	b.WriteString(code)
	b.WriteString("\n")
	return b.String()
}

// NewMemory builds an in-memory Emitter, used by the Loop's hosted
// construction mode.
func NewMemory(goal string) Emitter {
	m := &memoryEmitter{}
	m.buf.WriteString(fmt.Sprintf(scaffoldHeader, escapeTitle(goal)))
	return m
}

type memoryEmitter struct {
	buf strings.Builder
}

func (m *memoryEmitter) AppendCode(code, thought string) {
	m.buf.WriteString(indentedStatement(code, thought))
}

func (m *memoryEmitter) Finish() error {
	m.buf.WriteString(scaffoldFooter)
	return nil
}

func (m *memoryEmitter) GetOutput() string { return m.buf.String() }

// NewFile builds a file-backed Emitter rooted at outDir, used by the
// Loop's owned construction mode. The filename carries the goal slug and a
// timestamp, matching the teacher's timestamped-artifact convention.
func NewFile(outDir, goal string, now time.Time) (Emitter, error) {
	if outDir == "" {
		outDir = "./scripts"
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("scriptemitter: creating output directory: %w", err)
	}

	filename := fmt.Sprintf("%s-%s.spec.ts", slug(goal), now.Format("20060102T150405"))
	path := filepath.Join(outDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("scriptemitter: creating output file: %w", err)
	}

	if _, err := f.WriteString(fmt.Sprintf(scaffoldHeader, escapeTitle(goal))); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("scriptemitter: writing scaffold header: %w", err)
	}

	return &fileEmitter{f: f, path: path}, nil
}

type fileEmitter struct {
	f    *os.File
	path string
}

func (e *fileEmitter) AppendCode(code, thought string) {
	_, _ = e.f.WriteString(indentedStatement(code, thought))
}

func (e *fileEmitter) Finish() error {
	if _, err := e.f.WriteString(scaffoldFooter); err != nil {
		return err
	}
	return e.f.Close()
}

func (e *fileEmitter) GetOutput() string { return e.path }

func escapeTitle(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

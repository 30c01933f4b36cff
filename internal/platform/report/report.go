// Package report renders batch-run summaries for console output.
package report

import (
	"fmt"
	"strings"

	"github.com/valyala/bytebufferpool"
)

type entryKind int

const (
	entryKindSection entryKind = iota
	entryKindLine
)

type entry struct {
	kind  entryKind
	label string
	value string
}

// Builder accumulates labelled counters and renders them as an aligned
// plain-text block. Not safe for concurrent use.
type Builder struct {
	title   string
	entries []entry
}

func NewBuilder(title string) *Builder {
	return &Builder{title: strings.TrimSpace(title)}
}

// Section starts a named group of lines.
func (b *Builder) Section(name string) *Builder {
	b.entries = append(b.entries, entry{kind: entryKindSection, label: name})
	return b
}

// Line records one label/value pair. Values render via fmt.Sprint.
func (b *Builder) Line(label string, value any) *Builder {
	b.entries = append(b.entries, entry{
		kind:  entryKindLine,
		label: label,
		value: fmt.Sprint(value),
	})
	return b
}

// Linef records a label with a formatted value.
func (b *Builder) Linef(label, format string, args ...any) *Builder {
	return b.Line(label, fmt.Sprintf(format, args...))
}

// String renders the accumulated report. Labels are padded to the
// widest label so values line up in one column.
func (b *Builder) String() string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if b.title != "" {
		_, _ = buf.WriteString("== ")
		_, _ = buf.WriteString(b.title)
		_, _ = buf.WriteString(" ==\n")
	}

	width := 0
	for _, e := range b.entries {
		if e.kind == entryKindLine && len(e.label) > width {
			width = len(e.label)
		}
	}

	for _, e := range b.entries {
		switch e.kind {
		case entryKindSection:
			_, _ = buf.WriteString(e.label)
			_, _ = buf.WriteString(":\n")
		case entryKindLine:
			_, _ = buf.WriteString("  ")
			_, _ = buf.WriteString(e.label)
			for pad := width - len(e.label); pad > 0; pad-- {
				_ = buf.WriteByte(' ')
			}
			_, _ = buf.WriteString("  ")
			_, _ = buf.WriteString(e.value)
			_ = buf.WriteByte('\n')
		}
	}

	return buf.String()
}

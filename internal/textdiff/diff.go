package textdiff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of a diff line
type Op int

const (
	OpEqual Op = iota
	OpDelete
	OpInsert
)

// Line is one line of a line-level diff
type Line struct {
	Op      Op
	Text    string
	OldLine int // 0 for inserted lines
	NewLine int // 0 for deleted lines
}

// Lines returns the line-level diff of two texts
func Lines(before, after string) []Line {
	dmp := diffmatchpatch.New()
	beforeChars, afterChars, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(beforeChars, afterChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var lines []Line
	oldLine, newLine := 1, 1
	for _, d := range diffs {
		chunk := strings.Split(d.Text, "\n")
		if len(chunk) > 0 && chunk[len(chunk)-1] == "" {
			chunk = chunk[:len(chunk)-1]
		}
		for _, text := range chunk {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				lines = append(lines, Line{Op: OpEqual, Text: text, OldLine: oldLine, NewLine: newLine})
				oldLine++
				newLine++
			case diffmatchpatch.DiffDelete:
				lines = append(lines, Line{Op: OpDelete, Text: text, OldLine: oldLine})
				oldLine++
			case diffmatchpatch.DiffInsert:
				lines = append(lines, Line{Op: OpInsert, Text: text, NewLine: newLine})
				newLine++
			}
		}
	}
	return lines
}

// Changes counts inserted and deleted lines
func Changes(lines []Line) (inserted, deleted int) {
	for _, l := range lines {
		switch l.Op {
		case OpInsert:
			inserted++
		case OpDelete:
			deleted++
		}
	}
	return inserted, deleted
}

// Format renders changed lines with up to context unchanged lines around each
// change. Skipped runs are shown as a hunk marker.
func Format(lines []Line, context int) string {
	keep := make([]bool, len(lines))
	for i, l := range lines {
		if l.Op == OpEqual {
			continue
		}
		for j := max(0, i-context); j <= min(len(lines)-1, i+context); j++ {
			keep[j] = true
		}
	}

	var b strings.Builder
	skipping := true
	for i, l := range lines {
		if !keep[i] {
			skipping = true
			continue
		}
		if skipping {
			fmt.Fprintf(&b, "@@ -%d +%d @@\n", startLine(l.OldLine), startLine(l.NewLine))
			skipping = false
		}
		switch l.Op {
		case OpEqual:
			b.WriteString("  ")
		case OpDelete:
			b.WriteString("- ")
		case OpInsert:
			b.WriteString("+ ")
		}
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

func startLine(n int) int {
	if n == 0 {
		return 1
	}
	return n
}

// Unified diffs two texts and formats the result with three lines of context
func Unified(before, after string) string {
	return Format(Lines(before, after), 3)
}

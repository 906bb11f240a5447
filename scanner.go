package docopt

import (
	"regexp"
	"strings"
)

// scanResult is the Scanner's output: the raw usage section and the
// description sections, plus the program name and the unmodified usage
// fragment a caller may want for short "usage: ..." error reporting.
type scanResult struct {
	Program           string
	UsageBlock        string
	DescriptionBlocks []string
	ShortUsage        string
}

var ansiEscapeRe = regexp.MustCompile("\x1b\\[[0-9;]*[a-zA-Z]")

// stripANSI removes terminal escape sequences, used only to make heading
// recognition robust against colored help text; the returned blocks keep
// the original (unstripped) text.
func stripANSI(s string) string { return ansiEscapeRe.ReplaceAllString(s, "") }

var usageHeadingRe = regexp.MustCompile(`(?im)^[ \t]*usage[ \t]*:`)
var orHeadingRe = regexp.MustCompile(`(?im)^[ \t]*or[ \t]*:`)
var optionsHeadingRe = regexp.MustCompile(`(?im)^[ \t]*([A-Za-z][A-Za-z \t]*)?options[A-Za-z \t]*:[ \t]*$`)
var blankLineRe = regexp.MustCompile(`\n[ \t]*\n`)

// scan splits a raw help text into a usage section and zero or more
// description sections. It fails with a *ScanError if no usage section is
// found.
func scan(helpText string) (*scanResult, error) {
	clean := stripANSI(helpText)

	loc := usageHeadingRe.FindStringIndex(clean)
	if loc == nil {
		return nil, scanError("no usage section found (expected a line matching \"usage:\")")
	}

	// The usage block runs from right after "usage:" until a blank line or
	// the next description heading, whichever comes first; "or:" lines
	// belong to the usage block (they introduce further usage branches).
	rest := helpText[loc[1]:]
	end := len(rest)
	if m := blankLineRe.FindStringIndex(stripANSI(rest)); m != nil && m[0] < end {
		end = m[0]
	}
	if m := firstHeadingAfterUsage(stripANSI(rest)); m >= 0 && m < end {
		end = m
	}
	usageBlock := rest[:end]
	tail := rest[end:]

	program := firstToken(usageBlock)
	if program == "" {
		return nil, scanError("usage section has no program name")
	}

	blocks := splitDescriptionBlocks(tail)

	return &scanResult{
		Program:           program,
		UsageBlock:         strings.TrimRight("usage:"+usageBlock, " \t"),
		DescriptionBlocks:  blocks,
		ShortUsage:         strings.TrimSpace("usage:" + usageBlock),
	}, nil
}

// firstHeadingAfterUsage returns the index, within s, of the first
// description-section heading, or -1 if there is none. "or:" lines are not
// headings; they are treated as a continuation of the usage block.
func firstHeadingAfterUsage(s string) int {
	best := -1
	if m := optionsHeadingRe.FindStringIndex(s); m != nil {
		best = m[0]
	}
	return best
}

// firstToken returns the first whitespace-delimited token of the first
// non-blank line of s.
func firstToken(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if orHeadingRe.MatchString(line) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}

// splitDescriptionBlocks scans tail for one or more "... options:" headings
// and returns, for each, the heading-to-next-heading-or-blank-line text.
func splitDescriptionBlocks(tail string) []string {
	clean := stripANSI(tail)
	locs := optionsHeadingRe.FindAllStringIndex(clean, -1)
	if len(locs) == 0 {
		return nil
	}
	var blocks []string
	for i, loc := range locs {
		start := loc[0]
		end := len(tail)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		block := tail[start:end]
		if m := blankLineRe.FindStringIndex(stripANSI(block)); m != nil {
			block = block[:m[0]]
		}
		blocks = append(blocks, strings.TrimRight(block, " \t\n"))
	}
	return blocks
}

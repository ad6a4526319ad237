package shader

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// preambleName is how the preamble is reported in compiler logs.
const preambleName = "preamble"

// sourceNames is the bidirectional table between #line source-string numbers
// and the names they stand for. Numbers are large hashes rather than small
// indexes so that rewriting a log never touches ordinary line numbers.
type sourceNames struct {
	byNumber map[int32]string
	byName   map[string]int32
}

func newSourceNames() *sourceNames {
	return &sourceNames{
		byNumber: make(map[int32]string),
		byName:   make(map[string]int32),
	}
}

// number returns the source-string number for name, assigning one if needed.
// The sign bit is cleared since some compilers parse the number as signed.
func (n *sourceNames) number(name string) int32 {
	if id, ok := n.byName[name]; ok {
		return id
	}
	id := int32(xxhash.Sum64String(name) & 0x7FFFFFFF)
	for {
		if _, taken := n.byNumber[id]; !taken && id != 0 {
			break
		}
		id = (id + 1) & 0x7FFFFFFF
	}
	n.byNumber[id] = name
	n.byName[name] = id
	return id
}

// table returns the number-to-name mapping consumed by FormatLog.
func (n *sourceNames) table() map[int32]string {
	return n.byNumber
}

// assembleSource returns the source parts submitted for one compilation:
// version directive, stage define, preamble, file contents.
func assembleSource(version string, stage Stage, preamble string, preambleID int32, contents string, sourceID int32) []string {
	return []string{
		"#version " + version + "\n",
		"#define " + stage.Define() + "\n",
		lineDirective(preambleID) + preamble + "\n",
		lineDirective(sourceID) + contents + "\n",
	}
}

func lineDirective(id int32) string {
	return "#line 1 " + strconv.FormatInt(int64(id), 10) + "\n"
}

var decimalToken = regexp.MustCompile(`\d+`)

// FormatLog replaces every whole decimal token of raw found in names with the
// name it maps to. Tokens that are part of a longer number are left alone.
func FormatLog(raw string, names map[int32]string) string {
	if len(names) == 0 || raw == "" {
		return raw
	}
	return decimalToken.ReplaceAllStringFunc(raw, func(tok string) string {
		v, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			return tok
		}
		if name, ok := names[int32(v)]; ok {
			return name
		}
		return tok
	})
}

// trimLog drops trailing whitespace and NULs left by native info logs.
func trimLog(log string) string {
	return strings.TrimRight(log, "\x00 \t\r\n")
}

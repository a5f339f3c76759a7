package ocr

import (
	"errors"
	"regexp"
	"strings"
)

// PaddleOCR mixes its structured result into free-form diagnostic output.
// Everything that knows about that output format lives in this file; a
// change in the tool's print format is a compatibility concern handled
// here, not absorbed silently elsewhere.

// recTextsAnchorRE anchors on the known result key. Paddle prints Python
// dict repr, so the key may be single- or double-quoted.
var recTextsAnchorRE = regexp.MustCompile(`['"]rec_texts['"]\s*:\s*\[`)

// quotedStringRE captures the elements of a printed list of strings.
var quotedStringRE = regexp.MustCompile(`'((?:[^'\\]|\\.)*)'|"((?:[^"\\]|\\.)*)"`)

// metadataKeys are list-valued keys in the same output that must never be
// mistaken for the recognized text during the permissive scan.
var metadataKeys = []string{
	"rec_scores", "rec_polys", "rec_boxes",
	"dt_polys", "dt_scores", "textline_orientation_angles",
}

// scrapeRecTexts locates the ordered list of recognized text lines inside
// PaddleOCR's combined output. Two-stage strategy: a targeted pattern
// anchored on the rec_texts key, then a permissive bracket-balanced scan
// that skips known metadata lists.
func scrapeRecTexts(output string) ([]string, error) {
	if loc := recTextsAnchorRE.FindStringIndex(output); loc != nil {
		if list, ok := balancedBracketList(output[loc[1]-1:]); ok {
			return quotedStrings(list), nil
		}
	}

	for i := 0; i < len(output); i++ {
		if output[i] != '[' {
			continue
		}
		if precededByMetadataKey(output[:i]) {
			if list, ok := balancedBracketList(output[i:]); ok {
				i += len(list) - 1
			}
			continue
		}
		list, ok := balancedBracketList(output[i:])
		if !ok {
			continue
		}
		if texts := quotedStrings(list); len(texts) > 0 {
			return texts, nil
		}
		i += len(list) - 1
	}

	return nil, errors.New("no rec_texts list in output")
}

// balancedBracketList returns the bracket-balanced list starting at s[0]
// (which must be '['), respecting quoted strings.
func balancedBracketList(s string) (string, bool) {
	if len(s) == 0 || s[0] != '[' {
		return "", false
	}
	depth := 0
	var quote byte
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}

func precededByMetadataKey(prefix string) bool {
	// Only the text immediately before the bracket matters, e.g.
	// "'rec_scores': [".
	start := len(prefix) - 40
	if start < 0 {
		start = 0
	}
	tail := prefix[start:]
	for _, key := range metadataKeys {
		if idx := strings.LastIndex(tail, key); idx != -1 {
			rest := strings.TrimSpace(tail[idx+len(key):])
			rest = strings.TrimLeft(rest, `'":`)
			if strings.TrimSpace(rest) == "" {
				return true
			}
		}
	}
	return false
}

func quotedStrings(list string) []string {
	var out []string
	for _, m := range quotedStringRE.FindAllStringSubmatch(list, -1) {
		if m[1] != "" {
			out = append(out, unescape(m[1]))
		} else if m[2] != "" {
			out = append(out, unescape(m[2]))
		}
	}
	return out
}

func unescape(s string) string {
	s = strings.ReplaceAll(s, `\'`, `'`)
	s = strings.ReplaceAll(s, `\"`, `"`)
	return strings.ReplaceAll(s, `\\`, `\`)
}

package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf16"
)

const maxASCII = 127

var fileNamePattern = regexp.MustCompile(`^filename="(.*)"$`)

// escapeFileName replaces every code point above ASCII with \uXXXX escapes,
// one per UTF-16 code unit, so the name fits in an object metadata header.
func escapeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r <= maxASCII {
			b.WriteRune(r)
			continue
		}
		for _, unit := range utf16.Encode([]rune{r}) {
			fmt.Fprintf(&b, `\u%04X`, unit)
		}
	}
	return b.String()
}

func contentDisposition(fileName string) string {
	return fmt.Sprintf(`filename="%s"`, escapeFileName(fileName))
}

// fileNameFromDisposition extracts the quoted file name. Dispositions not in
// the filename="..." form are returned as is.
func fileNameFromDisposition(disposition string) string {
	if m := fileNamePattern.FindStringSubmatch(disposition); m != nil {
		return m[1]
	}
	return disposition
}

package tui

import (
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
)

// Swapped out in tests; the real clipboard needs a display.
var (
	readClipboard  = readClipboardText
	writeClipboard = clipboard.WriteAll
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// cleanClipboardText turns pasted rich text into plain note text.
func cleanClipboardText(text string) string {
	switch {
	case text == "":
		return text
	case isRTF(text):
		text = extractTextFromRTF(text)
	case isHTML(text):
		text = extractTextFromHTML(text)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 32 {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "<") &&
		(strings.Contains(text, "<html") || strings.Contains(text, "<body") || strings.Contains(text, "<div") || strings.Contains(text, "<p"))
}

// extractTextFromRTF drops control words and groups, keeping text, escaped
// characters, \par/\line as newlines and \tab as a tab.
func extractTextFromRTF(rtf string) string {
	var b strings.Builder
	b.Grow(len(rtf))
	src := []byte(rtf)
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '{' || c == '}':
			continue
		case c != '\\':
			if c >= 32 && c < 127 || c == '\n' || c == '\t' {
				b.WriteByte(c)
			}
			continue
		case i+1 >= len(src):
			continue
		}

		next := src[i+1]
		switch {
		case next == '\'' && i+3 < len(src):
			if v, err := strconv.ParseUint(string(src[i+2:i+4]), 16, 8); err == nil {
				b.WriteByte(byte(v))
			}
			i += 3
		case next == '\\' || next == '{' || next == '}':
			b.WriteByte(next)
			i++
		case next == '~':
			b.WriteByte(' ')
			i++
		case isLetter(next):
			j := i + 1
			for j < len(src) && isLetter(src[j]) {
				j++
			}
			word := string(src[i+1 : j])
			for j < len(src) && (src[j] == '-' || src[j] >= '0' && src[j] <= '9') {
				j++
			}
			if j < len(src) && src[j] == ' ' {
				j++
			}
			switch word {
			case "par", "line":
				b.WriteByte('\n')
			case "tab":
				b.WriteByte('\t')
			}
			i = j - 1
		default:
			i++
		}
	}
	return b.String()
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

var htmlEntities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", "\"",
	"&#39;", "'",
	"&nbsp;", " ",
)

// extractTextFromHTML strips tags, turning block ends and <br> into newlines.
func extractTextFromHTML(html string) string {
	var b strings.Builder
	b.Grow(len(html))
	var tag strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
			tag.Reset()
		case r == '>' && inTag:
			inTag = false
			fields := strings.Fields(tag.String())
			if len(fields) == 0 {
				continue
			}
			switch strings.ToLower(fields[0]) {
			case "br", "br/", "/p", "/div", "/li":
				b.WriteByte('\n')
			}
		case inTag:
			tag.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return htmlEntities.Replace(b.String())
}

// Package aoml builds Anarchy Online chat markup (AOML): the small
// HTML-like tag language the client embeds in Str payloads for colored
// text, links, and inline images. It is a pure formatting helper, outside
// the protocol's core per spec.md §1.
package aoml

import (
	"fmt"
	"strconv"
	"strings"
)

// Color wraps text in a <font color="..."> tag.
func Color(text, color string) string {
	return fmt.Sprintf(`<font color="%s">%s</font>`, color, text)
}

// Underline wraps text in a <u> tag.
func Underline(text string) string {
	return fmt.Sprintf("<u>%s</u>", text)
}

// Center wraps text in a centered <div>.
func Center(text string) string {
	return fmt.Sprintf(`<div align="center">%s</div>`, text)
}

// Right wraps text in a right-aligned <div>.
func Right(text string) string {
	return fmt.Sprintf(`<div align="right">%s</div>`, text)
}

// Break returns count <br> tags.
func Break(count int) string {
	return strings.Repeat("<br>", count)
}

// Text returns a text:// link, escaping embedded quotes in the payload.
func Text(payload, link string) string {
	escaped := strings.ReplaceAll(payload, `"`, `\"`)
	return fmt.Sprintf(`<a href="text://%s">%s</a>`, escaped, link)
}

// Command returns a chatcmd:// link; cmd is prefixed with "/" if missing.
func Command(cmd, link string) string {
	if !strings.HasPrefix(cmd, "/") {
		cmd = "/" + cmd
	}
	return fmt.Sprintf(`<a href="chatcmd://%s">%s</a>`, cmd, link)
}

// GUI returns a tdb:// inline image tag for a GUI icon id.
func GUI(id string) string {
	return fmt.Sprintf(`<img src="tdb://id:%s">`, strings.ToUpper(id))
}

// Icon returns an rdb:// inline image tag for a numeric icon id.
func Icon(id int) string {
	return fmt.Sprintf(`<img src="rdb://%s">`, strconv.Itoa(id))
}

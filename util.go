package ofxparse

import (
	"bytes"
	"encoding/xml"
)

// escapeString returns properly escaped XML equivalent of the plain text data s. Characters
// outside the XML character range become U+FFFD.
func escapeString(s string) string {
	var buff bytes.Buffer
	// Writes to a bytes.Buffer can't fail.
	_ = xml.EscapeText(&buff, []byte(s))
	return buff.String()
}

// writeStartTag writes the start tag for the given tag name to the given buffer.
func writeStartTag(tag string, buff *bytes.Buffer) {
	buff.WriteByte('<')
	buff.WriteString(tag)
	buff.WriteByte('>')
}

// writeEndTag writes the closing tag for the given tag name to the given buffer.
func writeEndTag(tag string, buff *bytes.Buffer) {
	buff.WriteString("</")
	buff.WriteString(tag)
	buff.WriteByte('>')
}

// writeNode writes the starting and closing tags, text and children of the given node to the
// given buffer.
func writeNode(n *Node, buff *bytes.Buffer) {
	writeStartTag(n.Tag, buff)
	buff.WriteString(escapeString(n.Text))
	for _, c := range n.Children {
		writeNode(c, buff)
	}
	writeEndTag(n.Tag, buff)
}

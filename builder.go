package ofxparse

//go:generate mockgen -source=builder.go -destination=mocks/mock_builder.go -package=mocks

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/golang/glog"
)

// Builder builds the tag tree of a decoded OFX body.
type Builder interface {
	Build(text string) (*Tree, error)
}

type builder struct{}

var builderSingleton *builder
var initBuilder sync.Once

// GetBuilder returns the singleton instance of the tag soup builder.
func GetBuilder() Builder {
	initBuilder.Do(func() {
		builderSingleton = &builder{}
	})
	return builderSingleton
}

// Build returns the tree rooted at the OFX element of text, restoring missing start and end
// tags from the aggregate schema.
func (b builder) Build(text string) (*Tree, error) {
	// document is a synthetic parent of the OFX element and stays at the bottom of the stack.
	// pending is text read while an aggregate was on top of the stack.
	var (
		document = &Node{}
		tagStack = NewStack()
		tree     = &Tree{}
		pending  string
	)
	tagStack.Push(document)

	anomaly := func(n *Node, format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		glog.V(2).Infof("anomaly: %s", msg)
		tree.Anomalies = append(tree.Anomalies, Anomaly{Node: n, Message: msg})
	}

	// expecting returns the position from the top of the nearest open node expecting tag, -1
	// when there is none.
	expecting := func(tag string) int {
		for i := 0; i < tagStack.Size()-1; i++ {
			if ExpectsChild(tagStack.At(i).Tag, tag) {
				return i
			}
		}
		return -1
	}

	// resolvePending hands pending text to the top node if it is still empty, such as an
	// aggregate tag used as an element. Otherwise the text has no place in the tree.
	resolvePending := func() {
		if pending == "" {
			return
		}
		top := tagStack.Peek()
		if top != document && top.Text == "" && len(top.Children) == 0 {
			top.Text = pending
		} else {
			anomaly(top, "text %q has no element", pending)
		}
		pending = ""
	}

	// Start an xml decoder on the decoded body. The body is UTF-8 already, so declared
	// encodings are passed through.
	decoder := xml.NewDecoder(strings.NewReader(text))
	decoder.Strict = false
	decoder.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) {
		return r, nil
	}

	for {
		token, err := decoder.RawToken()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, &TagStructureError{Reason: err.Error()}
		}

		switch t := token.(type) {
		case xml.CharData:
			data := strings.TrimSpace(string(t))
			glog.V(3).Infof("case chardata (%s)", data)
			top := tagStack.Peek()
			if data == "" || top == document {
				continue
			}
			// Text inside an aggregate is held until the next tag tells where it belongs.
			if IsAggregate(top.Tag) || len(top.Children) > 0 {
				pending = joinText(pending, data)
				continue
			}
			top.Text = joinText(top.Text, data)
		case xml.StartElement:
			tag := strings.ToUpper(t.Name.Local)
			glog.V(3).Infof("case start element %s", tag)

			// Text held for an empty aggregate is its text only when this tag closes it, such as
			// an aggregate tag used as an element. Text before an expected child is stray.
			if pending != "" {
				top := tagStack.Peek()
				if expecting(tag) > 0 && top.Text == "" && len(top.Children) == 0 {
					top.Text = pending
				} else {
					anomaly(top, "text %q has no element", pending)
				}
				pending = ""
			}

			// An element holding text can't have nested tags, so its end tag is missing. A known
			// element can't have nested tags at all.
			if top := tagStack.Peek(); top != document && !ExpectsChild(top.Tag, tag) && (top.Text != "" || IsElement(top.Tag)) {
				_, _ = tagStack.Pop()
			}

			// Nest under the nearest open aggregate expecting this tag, closing everything
			// above it. Unknown tags stay where they are.
			parent, expected := tagStack.Peek(), false
			if i := expecting(tag); i >= 0 {
				for j := 0; j < i; j++ {
					_, _ = tagStack.Pop()
				}
				parent, expected = tagStack.Peek(), true
			}
			node := &Node{Tag: tag}
			parent.Children = append(parent.Children, node)
			tagStack.Push(node)
			if !expected && IsAggregate(parent.Tag) {
				anomaly(node, "unexpected tag %s in %s", tag, parent.Tag)
			}
			glog.V(3).Infof("Stack: %#v", tagStack.Dump())
		case xml.EndElement:
			tag := strings.ToUpper(t.Name.Local)
			glog.V(3).Infof("case end element %s", tag)

			open := -1
			for i := 0; i < tagStack.Size()-1; i++ {
				if tagStack.At(i).Tag == tag {
					open = i
					break
				}
			}
			switch {
			case open >= 0:
				resolvePending()
				// Close every open tag till the current closing tag is matched.
				for j := 0; j <= open; j++ {
					_, _ = tagStack.Pop()
				}
			case pending != "":
				// Text followed by an end tag that was never opened is missing its start tag.
				parent := tagStack.Peek()
				parent.Children = append(parent.Children, &Node{Tag: tag, Text: pending})
				pending = ""
			default:
				anomaly(tagStack.Peek(), "closing tag %s was never opened", tag)
			}
			glog.V(3).Infof("Stack: %#v", tagStack.Dump())
		}
	}
	resolvePending()

	if tree.Root = document.Child("OFX"); tree.Root == nil {
		return nil, &TagStructureError{Reason: "invalid file, OFX tag not found"}
	}
	return tree, nil
}

func joinText(a, b string) string {
	if a == "" {
		return b
	}
	return a + " " + b
}

package ofxparse

import (
	"io"

	"github.com/golang/glog"
)

// Parse reads r to the end and parses it into a Document.
// r must be an open stream; callers own opening and closing files.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	cfg := newConfig(opts)

	file, err := NewFile(r)
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("headers: %d, encoding: %s, body: %d bytes", len(file.Headers), file.Encoding, len(file.Body))

	tree, err := cfg.builder.Build(preprocessOFXData(file.Body))
	if err != nil {
		return nil, err
	}
	if tree == nil || tree.Root == nil {
		return nil, &TagStructureError{Reason: "invalid file, OFX tag not found"}
	}
	glog.V(3).Infof("tree: %s", tree.Root)

	d := &dispatcher{failFast: cfg.failFast, anomalies: tree.Anomalies}
	return d.document(file.Headers, tree.Root)
}

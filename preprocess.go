package ofxparse

import (
	"regexp"

	"github.com/golang/glog"
)

type fixup struct {
	name        string
	pattern     *regexp.Regexp
	replacement string
}

// fixups are one-off transforms for bad data seen in the wild.
var fixups = []fixup{
	{
		// Characters the xml tokenizer rejects, e.g. NUL padding or a DOS end of file marker.
		name:    "control characters",
		pattern: regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`),
	},
	{
		name:        "missing BANKACCTFROM",
		pattern:     regexp.MustCompile(`(<CURDEF>[^<]*(?:</CURDEF>)?\s*)(<BANKID>)`),
		replacement: "$1<BANKACCTFROM>$2",
	},
}

// preprocessOFXData applies one-off transforms to fix bad data.
func preprocessOFXData(content string) string {
	for _, f := range fixups {
		if !f.pattern.MatchString(content) {
			continue
		}
		glog.V(2).Infof("preprocess: applying %s", f.name)
		content = f.pattern.ReplaceAllString(content, f.replacement)
	}
	return content
}

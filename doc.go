/*
Package ofxparse is an OFX library that parses bank, credit card and investment statements.

ofxparse reads both the SGML flavor (OFX 1.x, headers 100-103) and the XML flavor (OFX 2.x)
of the format. Real world OFX files frequently omit closing tags; the tree builder restores
the document structure from a table of known aggregates and their expected children.

Decoding failures of individual transactions either abort the parse (the default) or, with
WithFailFast(false), are kept on the statement as discarded entries.

*/
package ofxparse

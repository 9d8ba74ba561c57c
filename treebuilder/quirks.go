package treebuilder

import "strings"

// QuirksMode records which of the three document compatibility modes a
// DOCTYPE selects, per https://html.spec.whatwg.org/multipage/parsing.html#the-initial-insertion-mode.
type QuirksMode uint8

const (
	NoQuirks QuirksMode = iota
	Quirks
	LimitedQuirks
)

// knownQuirksPublicIDPrefixes is the table of public identifier prefixes
// that force quirks mode, carried over verbatim from the standard's list of
// ancient DTDs that never specified a sane box model.
var knownQuirksPublicIDPrefixes = []string{
	"+//Silmaril//dtd html Pro v0r11 19970101//",
	"-//AS//DTD HTML 3.0 asWedit + extensions//",
	"-//AdvaSoft Ltd//DTD HTML 3.0 asWedit + extensions//",
	"-//IETF//DTD HTML 2.0 Level 1//",
	"-//IETF//DTD HTML 2.0 Level 2//",
	"-//IETF//DTD HTML 2.0 Strict Level 1//",
	"-//IETF//DTD HTML 2.0 Strict Level 2//",
	"-//IETF//DTD HTML 2.0 Strict//",
	"-//IETF//DTD HTML 2.0//",
	"-//IETF//DTD HTML 2.1E//",
	"-//IETF//DTD HTML 3.0//",
	"-//IETF//DTD HTML 3.2 Final//",
	"-//IETF//DTD HTML 3.2//",
	"-//IETF//DTD HTML 3//",
	"-//IETF//DTD HTML Level 0//",
	"-//IETF//DTD HTML Level 1//",
	"-//IETF//DTD HTML Level 2//",
	"-//IETF//DTD HTML Level 3//",
	"-//IETF//DTD HTML Strict Level 0//",
	"-//IETF//DTD HTML Strict Level 1//",
	"-//IETF//DTD HTML Strict Level 2//",
	"-//IETF//DTD HTML Strict Level 3//",
	"-//IETF//DTD HTML Strict//",
	"-//IETF//DTD HTML//",
	"-//Metrius//DTD Metrius Presentational//",
	"-//Microsoft//DTD Internet Explorer 2.0 HTML Strict//",
	"-//Microsoft//DTD Internet Explorer 2.0 HTML//",
	"-//Microsoft//DTD Internet Explorer 2.0 Tables//",
	"-//Microsoft//DTD Internet Explorer 3.0 HTML Strict//",
	"-//Microsoft//DTD Internet Explorer 3.0 HTML//",
	"-//Microsoft//DTD Internet Explorer 3.0 Tables//",
	"-//Netscape Comm. Corp.//DTD HTML//",
	"-//Netscape Comm. Corp.//DTD Strict HTML//",
	"-//O'Reilly and Associates//DTD HTML 2.0//",
	"-//O'Reilly and Associates//DTD HTML Extended 1.0//",
	"-//O'Reilly and Associates//DTD HTML Extended Relaxed 1.0//",
	"-//SQ//DTD HTML 2.0 HoTMetaL + extensions//",
	"-//SoftQuad Software//DTD HoTMetaL PRO 6.0::19990601::extensions to HTML 4.0//",
	"-//SoftQuad//DTD HoTMetaL PRO 4.0::19971010::extensions to HTML 4.0//",
	"-//Spyglass//DTD HTML 2.0 Extended//",
	"-//Sun Microsystems Corp.//DTD HotJava HTML//",
	"-//Sun Microsystems Corp.//DTD HotJava Strict HTML//",
	"-//W3C//DTD HTML 3 1995-03-24//",
	"-//W3C//DTD HTML 3.2 Draft//",
	"-//W3C//DTD HTML 3.2 Final//",
	"-//W3C//DTD HTML 3.2//",
	"-//W3C//DTD HTML 3.2S Draft//",
	"-//W3C//DTD HTML 4.0 Frameset//",
	"-//W3C//DTD HTML 4.0 Transitional//",
	"-//W3C//DTD HTML Experimental 19960712//",
	"-//W3C//DTD HTML Experimental 970421//",
	"-//W3C//DTD W3 HTML//",
	"-//W3O//DTD W3 HTML 3.0//",
	"-//WebTechs//DTD Mozilla HTML 2.0//",
	"-//WebTechs//DTD Mozilla HTML//",
	"-//W3O//DTD W3 HTML Strict 3.0//EN//",
}

const (
	quirksPublicIDHTML4Transitional = "-//W3C//DTD HTML 4.01 Transitional//"
	quirksPublicIDHTML4Frameset     = "-//W3C//DTD HTML 4.01 Frameset//"
	quirksSystemIDIBMXHTML          = "http://www.ibm.com/data/dtd/v11/ibmxhtml1-transitional.dtd"
	limitedQuirksXHTML1Frameset     = "-//W3C//DTD XHTML 1.0 Frameset//"
	limitedQuirksXHTML1Transitional = "-//W3C//DTD XHTML 1.0 Transitional//"
)

// Detect computes the document's quirks mode from a DOCTYPE token's name,
// public identifier, and system identifier (token.Missing for absent
// identifiers), per the initial insertion mode's DOCTYPE branch.
func Detect(name, publicID, systemID string, forceQuirks bool) QuirksMode {
	const missing = "MISSING"
	if forceQuirks || name != "html" {
		return Quirks
	}
	if systemID == quirksSystemIDIBMXHTML {
		return Quirks
	}
	for _, prefix := range knownQuirksPublicIDPrefixes {
		if strings.HasPrefix(publicID, prefix) {
			return Quirks
		}
	}
	if systemID == missing {
		if strings.HasPrefix(publicID, quirksPublicIDHTML4Transitional) ||
			strings.HasPrefix(publicID, quirksPublicIDHTML4Frameset) {
			return Quirks
		}
	}
	if strings.HasPrefix(publicID, limitedQuirksXHTML1Frameset) ||
		strings.HasPrefix(publicID, limitedQuirksXHTML1Transitional) {
		return LimitedQuirks
	}
	if systemID != missing {
		if strings.HasPrefix(publicID, quirksPublicIDHTML4Transitional) ||
			strings.HasPrefix(publicID, quirksPublicIDHTML4Frameset) {
			return LimitedQuirks
		}
	}
	return NoQuirks
}

package edgar

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
)

// infoTableNS is the documented namespace of the 13F information table.
const infoTableNS = "http://www.sec.gov/edgar/document/thirteenf/informationtable"

// infoTableNSFallback is a hardcoded copy kept separate from the documented
// constant: filers emit the URI with trailing and casing variations, and the
// fallback comparison is deliberately lenient.
const infoTableNSFallback = "http://www.sec.gov/edgar/document/thirteenf/informationtable"

// Holding is one line item of a filing's information table. Values are
// normalized to whole dollars (the source reports in thousands).
type Holding struct {
	Issuer     string `json:"company"`
	CUSIP      string `json:"cusip"`
	ValueUSD   int64  `json:"value_usd"`
	Shares     int64  `json:"shares"`
	ShareType  string `json:"share_type"`
	Discretion string `json:"investment_discretion"`
}

// xmlNode is a generic element tree. The information table's namespacing is
// too inconsistent across filers for struct tags, so fields are resolved
// dynamically against the raw xml.Name.
type xmlNode struct {
	XMLName  xml.Name
	Text     string    `xml:",chardata"`
	Children []xmlNode `xml:",any"`
}

// nsResolver reports whether an element's namespace is acceptable for a
// lookup. Resolvers are tried in priority order; the first one that yields a
// match wins.
type nsResolver func(space string) bool

// nsResolvers is the ordered namespace cascade: the documented namespace,
// the lenient fallback copy, then no namespace at all.
var nsResolvers = []nsResolver{
	func(space string) bool { return space == infoTableNS },
	func(space string) bool {
		return strings.EqualFold(strings.TrimRight(space, "/"), infoTableNSFallback)
	},
	func(space string) bool { return space == "" },
}

// ParseInfoTable downloads and parses an information table document into
// holdings. Records with missing optional fields are kept, with "" or 0
// defaults. Unparseable XML returns *ParseError.
func (c *Client) ParseInfoTable(url string) ([]Holding, error) {
	body, err := c.Fetch(url)
	if err != nil {
		return nil, err
	}
	return parseInfoTableXML(url, body)
}

func parseInfoTableXML(url string, body []byte) ([]Holding, error) {
	var root xmlNode
	if err := xml.Unmarshal(body, &root); err != nil {
		return nil, &ParseError{URL: url, Err: err}
	}

	entries := findAllDeep(&root, "infoTable")

	holdings := make([]Holding, 0, len(entries))
	for _, entry := range entries {
		holdings = append(holdings, Holding{
			Issuer:     childText(entry, "nameOfIssuer"),
			CUSIP:      childText(entry, "cusip"),
			ValueUSD:   parseAmount(childText(entry, "value")) * 1000, // reported in thousands
			Shares:     parseAmount(nestedText(entry, "shrsOrPrnAmt", "sshPrnamt")),
			ShareType:  nestedText(entry, "shrsOrPrnAmt", "sshPrnamtType"),
			Discretion: childText(entry, "investmentDiscretion"),
		})
	}

	return holdings, nil
}

// findChild returns the first direct child with the wanted local name,
// walking the namespace cascade.
func findChild(n *xmlNode, local string) *xmlNode {
	for _, resolve := range nsResolvers {
		for i := range n.Children {
			child := &n.Children[i]
			if child.XMLName.Local == local && resolve(child.XMLName.Space) {
				return child
			}
		}
	}
	return nil
}

// findAllDeep collects every descendant with the wanted local name, in
// document order, accepting any namespace tier.
func findAllDeep(n *xmlNode, local string) []*xmlNode {
	var out []*xmlNode
	for i := range n.Children {
		child := &n.Children[i]
		if child.XMLName.Local == local && anyResolverMatches(child.XMLName.Space) {
			out = append(out, child)
			continue
		}
		out = append(out, findAllDeep(child, local)...)
	}
	return out
}

func anyResolverMatches(space string) bool {
	for _, resolve := range nsResolvers {
		if resolve(space) {
			return true
		}
	}
	return false
}

// childText returns the trimmed text of a direct child, "" when absent.
func childText(n *xmlNode, local string) string {
	if child := findChild(n, local); child != nil {
		return strings.TrimSpace(child.Text)
	}
	return ""
}

// nestedText resolves a compound field one level under parentLocal. Both the
// parent and the child go through the namespace cascade.
func nestedText(n *xmlNode, parentLocal, childLocal string) string {
	if parent := findChild(n, parentLocal); parent != nil {
		return childText(parent, childLocal)
	}
	return ""
}

// parseAmount parses a numeric field, defaulting to 0 on empty or malformed
// content so a record is never dropped for a missing optional field.
func parseAmount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	// Some filers report fractional share counts.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

// rootElementName returns the local name of a document's root element, or ""
// when the document is not well-formed XML.
func rootElementName(body []byte) string {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := decoder.Token()
		if err != nil {
			return ""
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local
		}
	}
}

package edgar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Filers self-publish with inconsistent tooling, so the information table's
// filename is not standardized. LocateInfoTable runs an ordered cascade of
// strategies and stops at the first hit.

var (
	infoTablePattern = regexp.MustCompile(`(?i)info.*table`)
	xmlHrefPattern   = regexp.MustCompile(`(?i)href="([^"]+\.xml)"`)
)

// commonInfoTableNames are filenames historically used by filers, probed as
// a last resort.
var commonInfoTableNames = []string{
	"Form13fInfoTable.xml",
	"form13fInfoTable.xml",
	"form13finfoTable.xml",
	"infotable.xml",
	"InfoTable.xml",
	"INFOTABLE.XML",
}

type locateStrategy func(baseURL string) (string, error)

// LocateInfoTable resolves the URL of the information table XML inside one
// filing. Returns ErrNotFound when every strategy is exhausted; that means
// "no data for this filing", not a fault.
func (c *Client) LocateInfoTable(cik, accession string) (string, error) {
	baseURL := fmt.Sprintf("%s/%s/%s",
		c.archivesURL, trimCIK(cik), strings.ReplaceAll(accession, "-", ""))

	strategies := []locateStrategy{
		c.locateFromIndexJSON,
		c.locateFromDirectoryPage,
		c.locateByProbing,
	}

	for _, strategy := range strategies {
		url, err := strategy(baseURL)
		if err == nil {
			return url, nil
		}
		if !errors.Is(err, ErrNotFound) {
			// Transport trouble on one strategy should not stop the
			// cascade; the next strategy may still converge.
			c.log.Debug().Err(err).Str("accession", accession).Msg("Locator strategy failed")
		}
	}

	c.log.Warn().Str("cik", cik).Str("accession", accession).Msg("Info table not found")
	return "", ErrNotFound
}

// locateFromIndexJSON reads the filing's machine-readable directory listing
// and picks any file matching the info-table pattern.
func (c *Client) locateFromIndexJSON(baseURL string) (string, error) {
	body, err := c.Fetch(baseURL + "/index.json")
	if err != nil {
		return "", err
	}

	var listing struct {
		Directory struct {
			Item []struct {
				Name string `json:"name"`
			} `json:"item"`
		} `json:"directory"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return "", ErrNotFound
	}

	for _, item := range listing.Directory.Item {
		if isInfoTableName(item.Name) {
			return baseURL + "/" + item.Name, nil
		}
	}
	return "", ErrNotFound
}

// locateFromDirectoryPage scrapes the human-readable directory page for .xml
// hyperlinks. A link matching the info-table pattern wins outright;
// otherwise each candidate is downloaded and accepted if its root element is
// <informationTable>.
func (c *Client) locateFromDirectoryPage(baseURL string) (string, error) {
	body, err := c.Fetch(baseURL)
	if err != nil {
		return "", err
	}

	var candidates []string
	for _, m := range xmlHrefPattern.FindAllStringSubmatch(string(body), -1) {
		href := m[1]
		switch {
		case strings.HasPrefix(href, "http"):
			candidates = append(candidates, href)
		case strings.HasPrefix(href, "/"):
			candidates = append(candidates, "https://www.sec.gov"+href)
		default:
			candidates = append(candidates, baseURL+"/"+href)
		}
	}

	for _, url := range candidates {
		if infoTablePattern.MatchString(url) {
			return url, nil
		}
	}

	for _, url := range candidates {
		doc, err := c.Fetch(url)
		if err != nil {
			continue
		}
		if strings.EqualFold(rootElementName(doc), "informationTable") {
			return url, nil
		}
	}

	return "", ErrNotFound
}

// locateByProbing tries historically common info-table filenames directly.
func (c *Client) locateByProbing(baseURL string) (string, error) {
	for _, name := range commonInfoTableNames {
		url := baseURL + "/" + name
		body, err := c.Fetch(url)
		if err != nil {
			continue
		}
		if bytes.Contains(head(body, 100), []byte("<")) {
			return url, nil
		}
	}
	return "", ErrNotFound
}

func isInfoTableName(name string) bool {
	return infoTablePattern.MatchString(name) &&
		strings.HasSuffix(strings.ToLower(name), ".xml")
}

func head(b []byte, n int) []byte {
	if len(b) < n {
		return b
	}
	return b[:n]
}

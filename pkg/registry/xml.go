package registry

// Only the parts of vk.xml this package reads are modeled; everything else is
// skipped by the decoder.

type xmlRegistry struct {
	Extensions []xmlExtension `xml:"extensions>extension"`
}

type xmlExtension struct {
	Name         string       `xml:"name,attr"`
	Number       string       `xml:"number,attr"`
	Type         string       `xml:"type,attr"`
	Supported    string       `xml:"supported,attr"`
	PromotedTo   string       `xml:"promotedto,attr"`
	DeprecatedBy string       `xml:"deprecatedby,attr"`
	ObsoletedBy  string       `xml:"obsoletedby,attr"`
	Author       string       `xml:"author,attr"`
	Platform     string       `xml:"platform,attr"`
	Depends      string       `xml:"depends,attr"`
	Requires     string       `xml:"requires,attr"`
	Provisional  string       `xml:"provisional,attr"`
	Require      []xmlRequire `xml:"require"`
}

type xmlRequire struct {
	Commands []xmlName `xml:"command"`
	Enums    []xmlEnum `xml:"enum"`
	Types    []xmlName `xml:"type"`
}

type xmlName struct {
	Name string `xml:"name,attr"`
}

type xmlEnum struct {
	Name    string `xml:"name,attr"`
	Extends string `xml:"extends,attr"`
}

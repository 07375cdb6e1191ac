package extractor

// ItemLink is one harvested link: the absolute URL plus the anchor's
// trimmed visible text (which may be empty).
type ItemLink struct {
	URL  string
	Text string
}

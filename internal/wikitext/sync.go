package wikitext

// Sync finds-or-inserts the given template in pageText and returns the new
// page text. When no instance of the marker exists, the canonical rendering
// is inserted at the very start of the page followed by a newline. When one
// exists, the exact consumed span is replaced in place with the new
// rendering. Syncing an already-synced page therefore updates the marker's
// arguments without ever producing a second instance.
func Sync(pageText string, tpl *Template) (string, error) {
	pos, found := Locate(pageText, tpl.Name)
	if !found {
		return tpl.Render() + "\n" + pageText, nil
	}

	_, span, err := ParseAt(pageText, pos)
	if err != nil {
		return "", err
	}

	return pageText[:pos] + tpl.Render() + pageText[pos+span:], nil
}

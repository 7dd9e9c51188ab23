package page

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Snapshot is a parsed copy of a rendered page used to answer field lookups.
type Snapshot struct {
	doc *goquery.Document
}

// NewSnapshot parses rendered HTML.
func NewSnapshot(html string) (*Snapshot, error) {
	return ReadSnapshot(strings.NewReader(html))
}

// ReadSnapshot parses rendered HTML from r.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Snapshot{doc: doc}, nil
}

// Text returns the trimmed text of field and whether its element exists.
func (s *Snapshot) Text(field Field) (string, bool) {
	sel := s.find(field)
	if sel == nil || sel.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(sel.First().Text()), true
}

func (s *Snapshot) find(field Field) *goquery.Selection {
	switch field {
	case FieldConnectionCount:
		return s.doc.Find(SelectorBoldLabel).First()
	case FieldPrimaryAction:
		return s.doc.Find(SelectorButtonLabel).Eq(PrimaryActionIndex)
	case FieldSecondaryAction:
		return s.doc.Find(SelectorButtonLabel).Eq(SecondaryActionIndex)
	case FieldMenuConnect:
		return s.doc.Find(SelectorMenuItem).FilterFunction(func(_ int, sel *goquery.Selection) bool {
			return strings.TrimSpace(sel.Text()) == "Connect"
		})
	case FieldFullName:
		return s.doc.Find(SelectorFullName).First()
	case FieldWeeklyLimit:
		return s.doc.Find(SelectorWeeklyLimit)
	case FieldPendingPrimary:
		return s.doc.Find(SelectorPendingButton)
	case FieldPendingMenu:
		return s.doc.Find(SelectorPendingItem)
	case FieldMessageButton:
		return s.doc.Find(SelectorMessageButton)
	}
	return nil
}

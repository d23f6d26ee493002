package css

import (
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Sheet is a live stylesheet owned by a styling engine. Rules are inserted in
// generation order and rendered deterministically; resetting empties the sheet
// without changing its identity.
type Sheet struct {
	log   *zap.Logger
	items []StylesheetItem
	count int
}

// NewSheet creates an empty rule sheet.
func NewSheet(log *zap.Logger) *Sheet {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sheet{log: log.Named("rule-sheet")}
}

// ParseDeclarationBlock parses a declaration list ("prop: value; ...") into
// property values, validating it with the CSS tokenizer. A block yielding no
// valid declaration is an error.
func ParseDeclarationBlock(decls string) (map[string]Value, error) {
	props := make(map[string]Value)

	input := parse.NewInputString(decls)
	parser := css.NewParser(input, true)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && err.Error() != "EOF" && len(props) == 0 {
				return nil, fmt.Errorf("invalid declaration block: %w", err)
			}
			if len(props) == 0 {
				return nil, errors.New("no valid declarations")
			}
			return props, nil

		case css.DeclarationGrammar:
			propName := string(data)
			values := parser.Values()
			if len(values) > 0 {
				props[propName] = parsePropertyValue(values)
			}

		case css.CustomPropertyGrammar:
			continue
		}
	}
}

// InsertRule validates a declaration block and appends a rule for the given
// selector.
func (s *Sheet) InsertRule(selector, declarations string) error {
	props, err := ParseDeclarationBlock(declarations)
	if err != nil {
		return fmt.Errorf("unable to insert rule '%s': %w", selector, err)
	}
	s.items = append(s.items, StylesheetItem{
		Rule: &Rule{Selector: sheetSelector(selector), Properties: props},
	})
	s.count++
	return nil
}

// InsertMediaRule validates a declaration block and appends the rule wrapped
// in a @media block for the given query text.
func (s *Sheet) InsertMediaRule(query, selector, declarations string) error {
	props, err := ParseDeclarationBlock(declarations)
	if err != nil {
		return fmt.Errorf("unable to insert rule '%s' for media '%s': %w", selector, query, err)
	}
	s.items = append(s.items, StylesheetItem{
		MediaBlock: &MediaBlock{
			Query: MediaQuery{Raw: query},
			Rules: []Rule{{Selector: sheetSelector(selector), Properties: props}},
		},
	})
	s.count++
	return nil
}

// Reset empties the sheet keeping its identity and logger.
func (s *Sheet) Reset() {
	s.items = s.items[:0]
	s.count = 0
}

// Len returns the number of inserted rules, counting rules inside media
// blocks.
func (s *Sheet) Len() int {
	return s.count
}

// Stylesheet returns a snapshot of the sheet content for auditing and debug
// dumps. The snapshot does not follow later inserts.
func (s *Sheet) Stylesheet() *Stylesheet {
	items := make([]StylesheetItem, len(s.items))
	copy(items, s.items)
	return &Stylesheet{Items: items}
}

// WriteTo renders the sheet, implementing io.WriterTo. Equal content renders
// byte-identical output.
func (s *Sheet) WriteTo(w io.Writer) (int64, error) {
	sheet := Stylesheet{Items: s.items}
	return sheet.WriteTo(w)
}

// String returns the CSS text of the sheet.
func (s *Sheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// sheetSelector builds the Selector for an inserted rule. Generated rules use
// single class selectors; anything else is kept as element or element.class.
func sheetSelector(raw string) Selector {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, ".") {
		return Selector{Raw: raw, Class: raw[1:]}
	}
	sel := parseSimpleSelector(raw)
	sel.Raw = raw
	return sel
}

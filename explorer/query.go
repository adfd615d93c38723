package explorer

import (
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/mangagraph/errors"
	grapherr "github.com/teranos/mangagraph/graph/error"
)

// Query is a parsed filter command line such as
//
//	score>=7 strength>=0.2 genre:"Slice of Life" award select:123 clear
//
// Unset fields leave the corresponding state untouched.
type Query struct {
	MinScore    *float64
	MinStrength *float64
	Genres      []string
	ClearGenres bool
	AwardOnly   *bool
	Select      []string
	Focus       string
	Clear       bool
	Fit         bool
}

// ParseQuery splits input with shell quoting rules and parses each term
func ParseQuery(input string) (*Query, error) {
	words, err := shellquote.Split(input)
	if err != nil {
		return nil, grapherr.New(grapherr.CategoryQuery, errors.Wrap(err, "failed to split query"), "").
			WithSubcategory(grapherr.SubcategoryQueryInvalidSyntax).
			WithContext("query", input)
	}

	q := &Query{}
	for _, word := range words {
		if err := q.parseTerm(word); err != nil {
			return nil, err
		}
	}
	return q, nil
}

func (q *Query) parseTerm(word string) error {
	switch strings.ToLower(word) {
	case "clear":
		q.Clear = true
		return nil
	case "fit":
		q.Fit = true
		return nil
	case "award":
		on := true
		q.AwardOnly = &on
		return nil
	}

	key, value, ok := splitTerm(word)
	if !ok {
		return unknownTerm(word)
	}

	switch key {
	case "score":
		v, err := parseNumber(word, value)
		if err != nil {
			return err
		}
		q.MinScore = &v
	case "strength":
		v, err := parseNumber(word, value)
		if err != nil {
			return err
		}
		q.MinStrength = &v
	case "genre":
		if value == "" {
			return invalidValue(word, "genre name is empty")
		}
		if strings.EqualFold(value, "any") {
			q.ClearGenres = true
			q.Genres = nil
			return nil
		}
		q.Genres = append(q.Genres, value)
	case "award":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return invalidValue(word, "expected true or false")
		}
		q.AwardOnly = &on
	case "select":
		if value == "" {
			return invalidValue(word, "node id is empty")
		}
		q.Select = append(q.Select, value)
	case "focus":
		if value == "" {
			return invalidValue(word, "node id is empty")
		}
		q.Focus = value
	default:
		return unknownTerm(word)
	}
	return nil
}

// splitTerm accepts key>=value, key=value and key:value, splitting at the first separator
func splitTerm(word string) (key, value string, ok bool) {
	i := strings.IndexAny(word, ">=:")
	if i <= 0 {
		return "", "", false
	}
	rest := word[i:]
	if strings.HasPrefix(rest, ">=") {
		return strings.ToLower(word[:i]), rest[2:], true
	}
	if rest[0] == '>' {
		return "", "", false
	}
	return strings.ToLower(word[:i]), rest[1:], true
}

func parseNumber(word, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, invalidValue(word, "expected a number")
	}
	return v, nil
}

func unknownTerm(word string) error {
	return grapherr.Newf(grapherr.CategoryQuery, "", "unknown query term %q", word).
		WithSubcategory(grapherr.SubcategoryQueryUnknownTerm).
		WithContext("term", word)
}

func invalidValue(word, reason string) error {
	return grapherr.Newf(grapherr.CategoryQuery, "", "invalid value in %q: %s", word, reason).
		WithSubcategory(grapherr.SubcategoryQueryInvalidValue).
		WithContext("term", word)
}

// Apply runs the query against x: clear first, then one filter update, then
// selections in order, then camera requests
func (q *Query) Apply(x *Explorer) {
	if q.Clear {
		x.ClearSelection()
	}

	f := x.Filter()
	changed := false
	if q.MinScore != nil {
		f.MinScore = *q.MinScore
		changed = true
	}
	if q.MinStrength != nil {
		f.MinStrength = *q.MinStrength
		changed = true
	}
	if q.ClearGenres || len(q.Genres) > 0 {
		f.SelectedGenres = q.Genres
		changed = true
	}
	if q.AwardOnly != nil {
		f.AwardWinningOnly = *q.AwardOnly
		changed = true
	}
	if changed {
		x.SetFilter(f)
	}

	for _, id := range q.Select {
		if !x.selection.Contains(id) {
			x.Toggle(id)
		}
	}

	if q.Focus != "" {
		x.RequestFocus(q.Focus)
	} else if q.Fit {
		x.RequestFitView()
	}
}

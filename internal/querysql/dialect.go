package querysql

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Dialect describes how one database spells identifiers, placeholders and
// LIKE escapes.
type Dialect struct {
	// Name is the dialect's flag value: mysql, postgres or sqlite.
	Name string

	quote       string
	placeholder sq.PlaceholderFormat

	// likeEscape is appended to LIKE comparisons. SQLite has no default
	// escape character, so patterns built by queryir need it spelled out.
	likeEscape string
}

var (
	MySQL    = Dialect{Name: "mysql", quote: "`", placeholder: sq.Question}
	Postgres = Dialect{Name: "postgres", quote: `"`, placeholder: sq.Dollar}
	SQLite   = Dialect{Name: "sqlite", quote: `"`, placeholder: sq.Question, likeEscape: ` ESCAPE '\'`}
)

// Dialects lists the supported dialects in flag help order.
var Dialects = []Dialect{MySQL, Postgres, SQLite}

// ParseDialect returns the dialect with the given name.
func ParseDialect(name string) (Dialect, error) {
	for _, d := range Dialects {
		if d.Name == strings.ToLower(name) {
			return d, nil
		}
	}
	return Dialect{}, fmt.Errorf("unsupported dialect %q: must be one of mysql, postgres, sqlite", name)
}

// String returns the dialect name.
func (d Dialect) String() string {
	return d.Name
}

// Quote quotes an identifier, doubling any embedded quote characters.
func (d Dialect) Quote(ident string) string {
	return d.quote + strings.ReplaceAll(ident, d.quote, d.quote+d.quote) + d.quote
}

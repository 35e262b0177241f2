package gen

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	acronyms = make(map[string]struct{})
	rules    = ruleset()
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{
		"ACL", "API", "ASCII", "CPU", "CSS", "DNS", "EOF", "GUID", "HTML", "HTTP",
		"HTTPS", "ID", "IP", "JSON", "LHS", "QPS", "RAM", "RHS", "RPC", "SLA",
		"SMTP", "SQL", "SSH", "TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI",
		"URL", "UTF8", "UUID", "VM", "XML", "XMPP", "XSRF", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// AddAcronym adds a new word to the acronyms list used when naming
// generated identifiers.
func AddAcronym(word string) {
	acronyms[strings.ToUpper(word)] = struct{}{}
	rules.AddAcronym(word)
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

// pascal converts the given name into a PascalCase identifier.
//
//	user_info => UserInfo
//	author_id => AuthorID
func pascal(s string) string {
	words := strings.FieldsFunc(s, isSeparator)
	for i, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			words[i] = upper
		} else {
			words[i] = rules.Capitalize(w)
		}
	}
	return strings.Join(words, "")
}

// camel converts the given name into a camelCase identifier.
//
//	user_info => userInfo
//	http_code => httpCode
func camel(s string) string {
	words := strings.FieldsFunc(s, isSeparator)
	for i, w := range words {
		if i == 0 {
			words[i] = strings.ToLower(w)
			continue
		}
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			words[i] = upper
		} else {
			words[i] = rules.Capitalize(w)
		}
	}
	return strings.Join(words, "")
}

// singular returns the singular form of the last word of a table name.
//
//	blog_posts => blog_post
func singular(s string) string {
	return rules.Singularize(s)
}

// label returns a human readable title for a table name.
//
//	blog_posts => Blog Posts
func label(s string) string {
	return cases.Title(language.English).String(strings.Join(strings.FieldsFunc(s, isSeparator), " "))
}

// receiver returns the receiver name for a type.
func receiver(typeName string) string {
	return strings.ToLower(typeName[:1])
}

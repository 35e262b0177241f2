package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPascal(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected string
	}{
		{"user_info", "UserInfo"},
		{"full_name", "FullName"},
		{"user_id", "UserID"},
		{"http_code", "HTTPCode"},
		{"full-admin", "FullAdmin"},
		{"already", "Already"},
		{"a", "A"},
		{"a_b", "AB"},
		{"xml_parser", "XMLParser"},
		{"api_url", "APIURL"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, pascal(tt.input))
		})
	}
}

func TestCamel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected string
	}{
		{"user_info", "userInfo"},
		{"user_id", "userID"},
		{"http_code", "httpCode"},
		{"full-admin", "fullAdmin"},
		{"users", "users"},
		{"blog_posts", "blogPosts"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, camel(tt.input))
		})
	}
}

func TestNaming(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "user", singular("users"))
	assert.Equal(t, "blog_post", singular("blog_posts"))
	assert.Equal(t, "audit_log", singular("audit_log"))
	assert.Equal(t, "category", singular("categories"))

	assert.Equal(t, "Blog Posts", label("blog_posts"))
	assert.Equal(t, "Users", label("users"))

	assert.Equal(t, "u", receiver("User"))
	assert.Equal(t, "p", receiver("PostEdit"))
}

func TestAddAcronym(t *testing.T) {
	AddAcronym("orm")
	assert.Equal(t, "ORMConfig", pascal("orm_config"))
	assert.Equal(t, "legacyORM", camel("legacy_orm"))
}

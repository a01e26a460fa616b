package errors

import (
	"testing"
)

func TestValidateCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"group", "org.codehaus.groovy", false},
		{"artifact with dash", "commons-lang3", false},
		{"artifact with underscore", "kotlin_stdlib", false},
		{"plugin marker", "org.jetbrains.kotlin.jvm.gradle.plugin", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"path traversal ..", "org..evil", true},
		{"slash", "org/evil", true},
		{"backslash", "org\\evil", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"spaces", "my group", true},
		{"query", "group?x=1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinate("groupId", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidCoordinate) {
				t.Errorf("ValidateCoordinate(%q) code = %v", tt.input, GetCode(err))
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://repo.maven.apache.org/maven2", false},
		{"http", "http://localhost:8081/repository", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

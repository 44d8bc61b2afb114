package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Migración a AWS para Startup", "migracion-a-aws-para-startup"},
		{"  Hello   World  ", "hello-world"},
		{"ÁRBOL Ñandú Pingüino", "arbol-nandu-pinguino"},
		{"--already-a-slug--", "already-a-slug"},
		{"Cloud & DevOps / 2024!", "cloud-devops-2024"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestSlugifyIdempotentAndWellFormed(t *testing.T) {
	inputs := []string{
		"Migración a AWS para Startup",
		"a--b__c",
		"Über große Straße",
		"日本語 title 42",
		"-x-",
		"UPPER lower 123",
		"ñ",
	}
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), "input %q", in)
		if once != "" {
			assert.True(t, IsSlug(once), "slug %q from %q", once, in)
		}
	}
}

func TestSanitizeSlug(t *testing.T) {
	assert.Equal(t, "cloud-migration", SanitizeSlug("  Cloud-Migration "))
	assert.Equal(t, "", SanitizeSlug("   "))
}

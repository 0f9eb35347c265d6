package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chmouel/vcprobe/internal/models"
)

func TestOptionsFor(t *testing.T) {
	tests := []struct {
		format   string
		debug    bool
		expected models.Options
	}{
		{format: "", expected: models.Options{}},
		{format: "%n", expected: models.Options{}},
		{format: "[%n:%b%m%u] ", expected: models.Options{ShowBranch: true, ShowModified: true, ShowUnknown: true}},
		{format: "%r", debug: true, expected: models.Options{ShowRevision: true, Debug: true}},
		{format: "100%% %b", expected: models.Options{ShowBranch: true}},
		{format: "%%b", expected: models.Options{}},
		{format: "trailing %", expected: models.Options{}},
		{format: "%x%b%r%m%u", expected: models.Options{ShowBranch: true, ShowRevision: true, ShowModified: true, ShowUnknown: true}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.expected, OptionsFor(tt.format, tt.debug))
		})
	}
}

func TestRender(t *testing.T) {
	st := &models.Status{VCS: "git", Branch: "main", Revision: "0123456789ab", Modified: true}

	tests := []struct {
		name     string
		format   string
		status   *models.Status
		expected string
	}{
		{name: "nil status", format: "[%n:%b]", status: nil, expected: ""},
		{name: "default format", format: "[%n:%b%m%u] ", status: st, expected: "[git:main+] "},
		{name: "revision", format: "%n@%r", status: st, expected: "git@0123456789ab"},
		{name: "literal percent", format: "%%%b%%", status: st, expected: "%main%"},
		{name: "unknown code kept", format: "%x %b", status: st, expected: "%x main"},
		{name: "trailing percent kept", format: "%b %", status: st, expected: "main %"},
		{name: "no indicators when clean", format: "%b%m%u", status: &models.Status{VCS: "hg", Branch: "default"}, expected: "default"},
		{name: "unknown indicator", format: "%b%u", status: &models.Status{VCS: "svn", Branch: "trunk", Unknown: true}, expected: "trunk?"},
		{name: "unknown branch", format: "%b", status: &models.Status{VCS: "git", Branch: models.UnknownBranch}, expected: "(unknown)"},
		{name: "empty fields render empty", format: "<%b|%r>", status: &models.Status{VCS: "svn"}, expected: "<|>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Renderer{Format: tt.format, ModifiedIndicator: "+", UnknownIndicator: "?"}
			assert.Equal(t, tt.expected, r.Render(tt.status))
		})
	}
}

func TestRendererOptions(t *testing.T) {
	r := Renderer{Format: "%b %r"}
	assert.Equal(t, models.Options{ShowBranch: true, ShowRevision: true}, r.Options(false))
}

// Package format renders a probe result through a printf-like prompt format.
//
//	%b  branch
//	%r  revision
//	%m  modified indicator, when modified
//	%u  unknown indicator, when untracked files exist
//	%n  backend name
//	%%  literal percent
//
// Any other %-sequence, and a trailing lone %, is copied verbatim.
package format

import (
	"strings"

	"github.com/chmouel/vcprobe/internal/models"
)

// Renderer holds the format string and the indicator texts.
type Renderer struct {
	Format            string
	ModifiedIndicator string
	UnknownIndicator  string
}

// Options derives which fields the format needs extracted.
func (r Renderer) Options(debug bool) models.Options {
	return OptionsFor(r.Format, debug)
}

// OptionsFor returns the options needed to render format.
func OptionsFor(format string, debug bool) models.Options {
	opts := models.Options{Debug: debug}
	eachCode(format, func(code byte) {
		switch code {
		case 'b':
			opts.ShowBranch = true
		case 'r':
			opts.ShowRevision = true
		case 'm':
			opts.ShowModified = true
		case 'u':
			opts.ShowUnknown = true
		}
	})
	return opts
}

// Render expands the format against st. A nil status renders as "".
func (r Renderer) Render(st *models.Status) string {
	if st == nil {
		return ""
	}

	var b strings.Builder
	f := r.Format
	for i := 0; i < len(f); i++ {
		if f[i] != '%' || i+1 == len(f) {
			b.WriteByte(f[i])
			continue
		}

		i++
		switch f[i] {
		case 'b':
			b.WriteString(st.Branch)
		case 'r':
			b.WriteString(st.Revision)
		case 'm':
			if st.Modified {
				b.WriteString(r.ModifiedIndicator)
			}
		case 'u':
			if st.Unknown {
				b.WriteString(r.UnknownIndicator)
			}
		case 'n':
			b.WriteString(st.VCS)
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(f[i])
		}
	}
	return b.String()
}

func eachCode(format string, fn func(code byte)) {
	for i := 0; i+1 < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		i++
		fn(format[i])
	}
}

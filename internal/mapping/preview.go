package mapping

import (
	"strings"

	"github.com/alexanderramin/grantdesk/internal/domain"
)

// Previewer turns stored relative file paths into resolvable URLs.
type Previewer struct {
	Base string
}

func NewPreviewer(base string) Previewer {
	return Previewer{Base: strings.TrimRight(base, "/")}
}

// Resolve returns nil for an empty path. Absolute http(s) URLs are kept as
// they are; anything else is joined to Base.
func (p Previewer) Resolve(path string) *domain.FilePreview {
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return &domain.FilePreview{URL: path}
	}
	return &domain.FilePreview{URL: p.Base + "/" + strings.TrimPrefix(path, "/")}
}

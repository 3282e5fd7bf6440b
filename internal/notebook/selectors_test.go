package notebook

import (
	"strings"
	"testing"

	"github.com/castpilot-ai/castpilot/internal/source"
)

func TestLabelsFor(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"en", labelsByLang["en"].createNotebook},
		{"en-US", labelsByLang["en"].createNotebook},
		{"ja", labelsByLang["ja"].createNotebook},
		{"ja-JP", labelsByLang["ja"].createNotebook},
		{"", labelsByLang["en"].createNotebook},
		{"fr", labelsByLang["en"].createNotebook},
	}

	for _, tt := range tests {
		t.Run("lang "+tt.lang, func(t *testing.T) {
			if got := labelsFor(tt.lang).createNotebook; got != tt.want {
				t.Errorf("labelsFor(%q).createNotebook = %q, want %q", tt.lang, got, tt.want)
			}
		})
	}
}

func TestSourceTypeChipUsesKindLabel(t *testing.T) {
	sel := newSelectors("en")

	website := sel.sourceTypeChip(source.KindWebsite)
	video := sel.sourceTypeChip(source.KindVideo)

	if website.Query == video.Query {
		t.Error("website and video chips must target different labels")
	}
	if !website.XPath || !video.XPath {
		t.Error("chip locators are label-based and must use xpath")
	}
	if !strings.Contains(website.Query, sel.labels.website) {
		t.Errorf("website chip query %q missing label %q", website.Query, sel.labels.website)
	}
}

package publish

import (
	"fmt"
	"strings"

	"github.com/castpilot-ai/castpilot/internal/step"
)

// uiLabels holds the podcast dashboard's localized button text.
type uiLabels struct {
	next    string
	publish string
}

var labelsByLang = map[string]uiLabels{
	"en": {next: "Next", publish: "Publish"},
	"ja": {next: "次へ", publish: "公開する"},
}

func labelsFor(lang string) uiLabels {
	if strings.HasPrefix(strings.ToLower(lang), "ja") {
		return labelsByLang["ja"]
	}
	return labelsByLang["en"]
}

// selectors is the locator table for the episode upload wizard.
type selectors struct {
	labels uiLabels
}

func newSelectors(lang string) selectors {
	return selectors{labels: labelsFor(lang)}
}

// audioInput is the wizard's file input. File inputs are commonly
// hidden behind a styled button, so readiness checks presence only.
func (s selectors) audioInput() step.Locator {
	return step.Locator{Name: "audio file input", Query: `input[type="file"]`}
}

func (s selectors) nextButton() step.Locator {
	return step.Locator{
		Name:  "next button",
		Query: fmt.Sprintf(`//button[contains(., "%s")]`, s.labels.next),
		XPath: true,
	}
}

func (s selectors) titleInput() step.Locator {
	return step.Locator{Name: "episode title input", Query: `input#title-input`}
}

func (s selectors) descriptionBox() step.Locator {
	return step.Locator{Name: "episode description box", Query: `div[role="textbox"][name="description"]`}
}

func (s selectors) categorySelect() step.Locator {
	return step.Locator{Name: "category select", Query: `select[name="category"]`}
}

func (s selectors) detailsSubmit() step.Locator {
	return step.Locator{Name: "details submit button", Query: `button[type="submit"][form="details-form"]`}
}

func (s selectors) coverInput() step.Locator {
	return step.Locator{Name: "cover art input", Query: `input[type="file"][accept^="image"]`}
}

func (s selectors) publishButton() step.Locator {
	return step.Locator{
		Name:  "publish button",
		Query: fmt.Sprintf(`//button[contains(., "%s")]`, s.labels.publish),
		XPath: true,
	}
}

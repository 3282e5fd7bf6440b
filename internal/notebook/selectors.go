package notebook

import (
	"fmt"
	"strings"

	"github.com/castpilot-ai/castpilot/internal/source"
	"github.com/castpilot-ai/castpilot/internal/step"
)

// uiLabels holds the visible UI text the notebook app renders in one
// language. The app localizes button labels, so locators that match by
// text must be resolved against the detected document language.
type uiLabels struct {
	createNotebook string
	addSource      string
	website        string
	video          string
	insert         string
	generate       string
	loadAudio      string
	playAudio      string
	audioOptions   string
	download       string
}

var labelsByLang = map[string]uiLabels{
	"en": {
		createNotebook: "Create new notebook",
		addSource:      "Add source",
		website:        "Website",
		video:          "YouTube",
		insert:         "Insert",
		generate:       "Generate",
		loadAudio:      "Load",
		playAudio:      "Play audio",
		audioOptions:   "Show more options for the audio player",
		download:       "Download",
	},
	"ja": {
		createNotebook: "新規作成",
		addSource:      "ソースを追加",
		website:        "ウェブサイト",
		video:          "YouTube",
		insert:         "挿入",
		generate:       "生成",
		loadAudio:      "読み込み",
		playAudio:      "音声を再生",
		audioOptions:   "オーディオ プレーヤーに関するその他のオプションを表示",
		download:       "ダウンロード",
	},
}

// labelsFor maps a document language to its label set. Anything that
// is not Japanese falls back to English, matching the app's default.
func labelsFor(lang string) uiLabels {
	if strings.HasPrefix(strings.ToLower(lang), "ja") {
		return labelsByLang["ja"]
	}
	return labelsByLang["en"]
}

// selectors is the locator table for the notebook UI. All selector
// brittleness is confined here; the state machine never sees a raw
// selector string.
type selectors struct {
	labels uiLabels
}

func newSelectors(lang string) selectors {
	return selectors{labels: labelsFor(lang)}
}

func buttonByLabel(name, label string) step.Locator {
	return step.Locator{
		Name:  name,
		Query: fmt.Sprintf(`//button[contains(., "%s")]`, label),
		XPath: true,
	}
}

func (s selectors) createNotebook() step.Locator {
	return buttonByLabel("create notebook button", s.labels.createNotebook)
}

func (s selectors) addSource() step.Locator {
	return buttonByLabel("add source button", s.labels.addSource)
}

// sourceTypeChip selects the website or video chip in the add-source
// dialog based on the preprocessed item kind.
func (s selectors) sourceTypeChip(kind source.Kind) step.Locator {
	label := s.labels.website
	if kind == source.KindVideo {
		label = s.labels.video
	}
	return step.Locator{
		Name:  "source type chip",
		Query: fmt.Sprintf(`//span[contains(@class, "mdc-evolution-chip__text-label")][contains(., "%s")]`, label),
		XPath: true,
	}
}

func (s selectors) urlInput() step.Locator {
	return step.Locator{Name: "source url input", Query: `[formcontrolname="newUrl"]`}
}

func (s selectors) insertButton() step.Locator {
	return buttonByLabel("insert button", s.labels.insert)
}

func (s selectors) spinner() step.Locator {
	return step.Locator{Name: "progress spinner", Query: `.mat-progress-spinner`}
}

func (s selectors) generateButton() step.Locator {
	return buttonByLabel("generate button", s.labels.generate)
}

func (s selectors) notebookTitle() step.Locator {
	return step.Locator{Name: "notebook title", Query: `h1.notebook-title`}
}

func (s selectors) notebookSummary() step.Locator {
	return step.Locator{Name: "notebook summary", Query: `div.summary-content`}
}

func (s selectors) playAudioButton() step.Locator {
	return step.Locator{
		Name:  "play audio button",
		Query: fmt.Sprintf(`button[aria-label="%s"]`, s.labels.playAudio),
	}
}

func (s selectors) audioOptionsButton() step.Locator {
	return step.Locator{
		Name:  "audio options button",
		Query: fmt.Sprintf(`button[aria-label="%s"]`, s.labels.audioOptions),
	}
}

func (s selectors) downloadLink() step.Locator {
	return step.Locator{
		Name:  "download menu link",
		Query: fmt.Sprintf(`//a[@mat-menu-item][contains(., "%s")]`, s.labels.download),
		XPath: true,
	}
}

package step

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
)

// Locator names one UI affordance and how to find it. Selector tables
// live with each workflow so that adapting to a UI change touches one
// table, not the state machine logic. The name is carried into action
// errors so a failed step reports which affordance it was stuck on.
type Locator struct {
	Name  string
	Query string
	// XPath selects by document search instead of CSS query. Used for
	// affordances only reachable by their visible label text.
	XPath bool
}

func (l Locator) opts() []chromedp.QueryOption {
	if l.XPath {
		return []chromedp.QueryOption{chromedp.BySearch}
	}
	return []chromedp.QueryOption{chromedp.ByQuery}
}

// named wraps an action so its error identifies the locator.
func (l Locator) named(a chromedp.Action) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := a.Do(ctx); err != nil {
			return fmt.Errorf("%s: %w", l.Name, err)
		}
		return nil
	})
}

// Ready waits until the element is present, visible and enabled.
func (l Locator) Ready() chromedp.Action {
	return l.named(chromedp.Tasks{
		chromedp.WaitVisible(l.Query, l.opts()...),
		chromedp.WaitEnabled(l.Query, l.opts()...),
	})
}

// Present waits until the element exists in the document, visible or
// not. File inputs are usually hidden behind styled buttons.
func (l Locator) Present() chromedp.Action {
	return l.named(chromedp.WaitReady(l.Query, l.opts()...))
}

// Visible waits until the element is present and visible.
func (l Locator) Visible() chromedp.Action {
	return l.named(chromedp.WaitVisible(l.Query, l.opts()...))
}

// Gone waits until no matching element remains in the document.
func (l Locator) Gone() chromedp.Action {
	return l.named(chromedp.WaitNotPresent(l.Query, l.opts()...))
}

// Click scrolls the element into view and clicks it.
func (l Locator) Click() chromedp.Action {
	return l.named(chromedp.Tasks{
		chromedp.ScrollIntoView(l.Query, l.opts()...),
		chromedp.Click(l.Query, l.opts()...),
	})
}

// Fill clears the element and types text into it.
func (l Locator) Fill(text string) chromedp.Action {
	return l.named(chromedp.Tasks{
		chromedp.Clear(l.Query, l.opts()...),
		chromedp.SendKeys(l.Query, text, l.opts()...),
	})
}

// SetValue sets a form control's value directly. More reliable than
// key events for select elements.
func (l Locator) SetValue(value string) chromedp.Action {
	return l.named(chromedp.SetValue(l.Query, value, l.opts()...))
}

// Upload attaches a local file to a file input.
func (l Locator) Upload(path string) chromedp.Action {
	return l.named(chromedp.SetUploadFiles(l.Query, []string{path}, l.opts()...))
}

// Text reads the element's visible text into out.
func (l Locator) Text(out *string) chromedp.Action {
	return l.named(chromedp.Text(l.Query, out, l.opts()...))
}

// Attribute reads one attribute of the element into out; ok reports
// whether the attribute exists.
func (l Locator) Attribute(name string, out *string, ok *bool) chromedp.Action {
	return l.named(chromedp.AttributeValue(l.Query, name, out, ok, l.opts()...))
}

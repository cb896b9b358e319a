package backend

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/vireodyne/protoctl/internal/app"
)

// Browser backs the browser action category with a single long-lived
// Chromium page driven by playwright-go. A protocol drives one browsing
// session at a time, so one persistent page is enough; there is no
// pool of concurrent browser contexts to manage.
type Browser struct {
	log     *app.Logger
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

// BrowserOptions configures the launched browser.
type BrowserOptions struct {
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
}

// NewBrowser launches a Chromium instance and opens a single page.
func NewBrowser(log *app.Logger, opts BrowserOptions) (*Browser, error) {
	if opts.ViewportWidth == 0 {
		opts.ViewportWidth = 1920
	}
	if opts.ViewportHeight == 0 {
		opts.ViewportHeight = 1080
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("backend: start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("backend: launch chromium: %w", err)
	}

	ctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: opts.ViewportWidth, Height: opts.ViewportHeight},
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("backend: create browser context: %w", err)
	}

	page, err := ctx.NewPage()
	if err != nil {
		_ = ctx.Close()
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("backend: create page: %w", err)
	}

	return &Browser{
		log:     log.WithField("backend", "browser"),
		pw:      pw,
		browser: browser,
		context: ctx,
		page:    page,
	}, nil
}

// Close tears down the page, context, browser, and Playwright driver.
func (b *Browser) Close() error {
	_ = b.page.Close()
	_ = b.context.Close()
	_ = b.browser.Close()
	return b.pw.Stop()
}

func (b *Browser) OpenURL(ctx context.Context, url string) error {
	b.log.Debug("browser open_url url=%s", url)
	_, err := b.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("backend: open_url %q: %w", url, err)
	}
	return nil
}

func (b *Browser) Back(ctx context.Context) error {
	_, err := b.page.GoBack()
	return err
}

func (b *Browser) Forward(ctx context.Context) error {
	_, err := b.page.GoForward()
	return err
}

func (b *Browser) Refresh(ctx context.Context) error {
	_, err := b.page.Reload()
	return err
}

func (b *Browser) NewTab(ctx context.Context) error {
	page, err := b.context.NewPage()
	if err != nil {
		return fmt.Errorf("backend: new_tab: %w", err)
	}
	b.page = page
	return nil
}

func (b *Browser) CloseTab(ctx context.Context) error {
	pages := b.context.Pages()
	if len(pages) <= 1 {
		return fmt.Errorf("backend: close_tab: only one tab open")
	}
	if err := b.page.Close(); err != nil {
		return fmt.Errorf("backend: close_tab: %w", err)
	}
	remaining := b.context.Pages()
	b.page = remaining[len(remaining)-1]
	return nil
}

func (b *Browser) SwitchTab(ctx context.Context, index int) error {
	pages := b.context.Pages()
	if index < 0 || index >= len(pages) {
		return fmt.Errorf("backend: switch_tab: index %d out of range (%d tabs)", index, len(pages))
	}
	b.page = pages[index]
	return nil
}

func (b *Browser) AddressBar(ctx context.Context, url string) error {
	return b.OpenURL(ctx, url)
}

func (b *Browser) Bookmark(ctx context.Context) error {
	return fmt.Errorf("backend: bookmark has no Playwright equivalent outside the browser chrome")
}

func (b *Browser) Find(ctx context.Context, text string) error {
	locator := b.page.GetByText(text)
	count, err := locator.Count()
	if err != nil {
		return fmt.Errorf("backend: find %q: %w", text, err)
	}
	if count == 0 {
		return fmt.Errorf("backend: find %q: no match", text)
	}
	return locator.First().ScrollIntoViewIfNeeded()
}

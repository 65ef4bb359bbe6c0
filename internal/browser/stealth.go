package browser

import (
	"github.com/go-rod/rod"
)

// Patches layered on top of stealth.JS. Each one is guarded so a property already
// redefined by stealth.JS does not abort the rest of the document setup.
var stealthScripts = []string{
	`(() => {
        try {
            Object.defineProperty(Navigator.prototype, 'webdriver', {
                get: () => undefined
            });
        } catch (e) {}
    })()`,
	`(() => {
        try {
            Object.defineProperty(navigator, 'languages', {
                get: () => ['en-US', 'en']
            });
        } catch (e) {}
    })()`,
	`(() => {
        if (!window.chrome) {
            window.chrome = { runtime: {} };
        }
    })()`,
}

func ApplyStealth(page *rod.Page) error {
	for _, js := range stealthScripts {
		if _, err := page.EvalOnNewDocument(js); err != nil {
			return err
		}
	}
	return nil
}

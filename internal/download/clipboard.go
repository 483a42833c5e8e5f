package download

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

// Clipboard copies images to the system clipboard. The clipboard is
// initialised on first use; when it is unavailable every copy fails with the
// same error.
type Clipboard struct {
	once sync.Once
	err  error
}

func (c *Clipboard) init() error {
	c.once.Do(func() {
		if err := clipboard.Init(); err != nil {
			c.err = fmt.Errorf("clipboard unavailable: %w", err)
		}
	})
	return c.err
}

// CopyImage puts PNG bytes on the clipboard.
func (c *Clipboard) CopyImage(png []byte) error {
	if err := c.init(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, png)
	return nil
}

// CopyText puts a string on the clipboard.
func (c *Clipboard) CopyText(s string) error {
	if err := c.init(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(s))
	return nil
}

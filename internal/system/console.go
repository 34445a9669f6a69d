// Package system talks to the Linux console and input devices for the
// framebuffer preview.
package system

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Console switches the active virtual terminal between text and graphics
// mode so the kernel does not draw its cursor over the framebuffer.
type Console struct {
	Logger logger

	graphics bool
}

// EnterGraphics sets KD_GRAPHICS and hides the cursor. Failures are logged
// and returned; the preview still works, only with a blinking cursor.
func (c *Console) EnterGraphics() error {
	if err := setConsoleMode(kdGraphics); err != nil {
		c.errorf("KD_GRAPHICS failed: %v", err)
		return err
	}
	c.graphics = true
	c.infof("KD_GRAPHICS set")
	if err := writeConsole("\x1b[?25l"); err != nil {
		c.errorf("hide cursor failed: %v", err)
	}
	return nil
}

// Restore shows the cursor and returns to text mode if EnterGraphics
// succeeded.
func (c *Console) Restore() error {
	if !c.graphics {
		return nil
	}
	if err := writeConsole("\x1b[?25h"); err != nil {
		c.errorf("show cursor failed: %v", err)
	}
	if err := setConsoleMode(kdText); err != nil {
		c.errorf("KD_TEXT failed: %v", err)
		return err
	}
	c.graphics = false
	c.infof("KD_TEXT set")
	return nil
}

func (c *Console) infof(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Infof("tty", format, args...)
	}
}

func (c *Console) errorf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Errorf("tty", format, args...)
	}
}

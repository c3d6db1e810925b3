package term

// Hidden is a no-op Terminal: every write is discarded, the reported
// size is zero, and IsTerminal is false, so a direct draw target writes
// nothing to it.
type Hidden struct{}

// NewHidden returns the no-op Terminal.
func NewHidden() Hidden { return Hidden{} }

func (Hidden) Width() int               { return 0 }
func (Hidden) Height() int              { return 0 }
func (Hidden) CursorUp(int) error       { return nil }
func (Hidden) CursorDown(int) error     { return nil }
func (Hidden) CursorLeft(int) error     { return nil }
func (Hidden) CursorRight(int) error    { return nil }
func (Hidden) ClearLine() error         { return nil }
func (Hidden) WriteLine(string) error   { return nil }
func (Hidden) WriteString(string) error { return nil }
func (Hidden) Flush() error             { return nil }
func (Hidden) IsTerminal() bool         { return false }

package views

// ViewState holds the size and status message shared by the view models.
// Embed it to get SetSize and SetMessage.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets the toast shown by the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// SetError shows err as an error toast
func (s *ViewState) SetError(err error) {
	s.SetMessage(err.Error(), true)
}

package ports

// Clipboard moves text between the application and wherever the user copied it from
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

package domain

// Author is a catalogue contributor. Books and authors are linked many to
// many; the link rows are owned by the book side.
type Author struct {
	ID        string
	FirstName string
	LastName  string
}

// FullName returns the display name.
func (a *Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

package render

// Tooltip is the single hover label shared by all elements.
type Tooltip struct {
	text string
}

func (t *Tooltip) Set(text string) { t.text = text }
func (t *Tooltip) Clear()          { t.text = "" }
func (t *Tooltip) Text() string    { return t.text }

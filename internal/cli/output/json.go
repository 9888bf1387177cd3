package output

import (
	"io"

	"github.com/sugawarayuuta/sonnet"
)

// JSONFormatter formats data as JSON.
type JSONFormatter struct{}

// Format formats data as indented JSON followed by a newline.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	b, err := sonnet.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

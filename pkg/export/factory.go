package export

import "fmt"

// New creates a generator for the given output format.
func New(format Format, opts Options) (Generator, error) {
	switch format {
	case FormatDOT:
		return NewDOTGenerator(opts), nil
	case FormatCSV:
		return NewCSVGenerator(), nil
	case FormatSVG:
		return NewSVGGenerator(opts), nil
	default:
		return nil, fmt.Errorf("unknown export format: %s", format)
	}
}

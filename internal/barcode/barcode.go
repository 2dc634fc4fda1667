// Package barcode pulls the index token out of an Illumina read name and
// scores it against expected indices.
package barcode

import (
	"fmt"
	"strings"
)

// Delimiter separates the sample-number field from the rest of the read name.
// For undetermined reads bcl2fastq writes the observed index sequence there:
//
//	@<instrument>:<run>:<flowcell>:<lane>:<tile>:<x>:<y> <read>:<filtered>:<control>:<index>
const Delimiter = ':'

// ExtractionError reports a read name with no Delimiter in it.
type ExtractionError struct {
	Name string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("read name %q has no %q delimiter to take an index from", e.Name, string(Delimiter))
}

// SeparatorError reports a dual index token without the configured separator.
type SeparatorError struct {
	Token     string
	Separator string
}

func (e *SeparatorError) Error() string {
	return fmt.Sprintf("index %q does not contain separator %q", e.Token, e.Separator)
}

// Extract returns everything after the last Delimiter in name.
func Extract(name string) (string, error) {
	i := strings.LastIndexByte(name, Delimiter)
	if i < 0 {
		return "", &ExtractionError{Name: name}
	}
	return name[i+1:], nil
}

package output

import (
	"encoding/json"
	"fmt"
	"io"
)

const jsonEncodeTemplateConstant = "output: encode json: %w"

// PrintJSON writes the payload as indented JSON followed by a newline.
func PrintJSON(writer io.Writer, payload any) error {
	encoded, encodeError := json.MarshalIndent(payload, "", "  ")
	if encodeError != nil {
		return fmt.Errorf(jsonEncodeTemplateConstant, encodeError)
	}
	fmt.Fprintln(writer, string(encoded))
	return nil
}

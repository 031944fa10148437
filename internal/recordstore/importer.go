package recordstore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds one import line; PGNs with comments can be long.
const maxLineSize = 16 * 1024 * 1024

// Entry is one line of an import stream.
type Entry struct {
	Namespace Namespace       `json:"namespace"`
	ID        string          `json:"id"`
	Value     json.RawMessage `json:"value"`
}

// Import writes every entry of a newline-delimited JSON stream to w and
// returns the number written. Blank lines are skipped. It stops at the first
// invalid line or failed write; entries before it stay written.
func Import(w Writer, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	n, lineNum := 0, 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return n, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if err := w.Write(e.Namespace, e.ID, e.Value); err != nil {
			return n, fmt.Errorf("line %d: %w", lineNum, err)
		}
		n++
	}
	return n, scanner.Err()
}

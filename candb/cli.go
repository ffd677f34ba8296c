package candb

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DecodeLines runs the decode filter described for the CLI: it reads
// whitespace-separated lines of the form "<iface> <hex_id> [<len>]
// <hex>...", decodes each against db, and writes the original line
// followed by " :: NAME(sig: val , sig: val , ...)" to out. A line
// whose id is not in db, or that does not parse, passes through
// unchanged. Returns once r reaches EOF.
func DecodeLines(db *Database, r io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(r)
	w := bufio.NewWriter(out)
	defer w.Flush()

	for scanner.Scan() {
		line := scanner.Text()
		rendered, ok := decodeLine(db, line)
		if !ok {
			fmt.Fprintln(w, line)
			continue
		}
		fmt.Fprintln(w, rendered)
	}
	return scanner.Err()
}

// decodeLine parses and decodes one candump-style line, returning the
// rendered "<line> :: NAME(...)" text and true on success, or "", false
// if the line should pass through unchanged.
func decodeLine(db *Database, line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", false
	}

	frameID, err := parseHexID(fields[1])
	if err != nil {
		return "", false
	}

	byteFields := fields[2:]
	if len(byteFields) > 0 && strings.HasPrefix(byteFields[0], "[") && strings.HasSuffix(byteFields[0], "]") {
		byteFields = byteFields[1:]
	}

	payload := make([]byte, len(byteFields))
	for i, f := range byteFields {
		v, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return "", false
		}
		payload[i] = byte(v)
	}

	m, err := db.MessageByFrameID(frameID &^ 0x80000000)
	if err != nil {
		return "", false
	}
	values, err := m.Decode(payload)
	if err != nil {
		return "", false
	}

	return line + " :: " + formatDecoded(m, values), true
}

// formatDecoded renders a decoded signal set in the message's declared
// signal order, e.g. "MSG(a: 1 , b: 2 )".
func formatDecoded(m *Message, values map[string]Value) string {
	var parts []string
	for _, s := range m.Signals {
		v, ok := values[s.Name]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", s.Name, v.String()))
	}
	if len(parts) == 0 {
		return m.Name + "()"
	}
	return m.Name + "(" + strings.Join(parts, " , ") + " )"
}

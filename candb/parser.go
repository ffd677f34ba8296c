package candb

import (
	"fmt"
	"strings"
)

// parseDBC parses the textual DBC grammar into a fresh Database. It
// halts and returns a *ParseError at the first malformed record.
func parseDBC(src []byte) (*Database, error) {
	db := &Database{
		nodesByName:    make(map[string]*Node),
		messagesByName: make(map[string]*Message),
		messagesByID:   make(map[uint32]*Message),
	}

	lines := strings.Split(string(src), "\n")
	idx := 0
	for idx < len(lines) {
		raw := lines[idx]
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			idx++
			continue
		}

		keyword := firstWord(trimmed)
		var err error
		switch keyword {
		case "VERSION":
			err = parseVersionRecord(db, raw, idx+1)
			idx++
		case "NS_":
			idx = parseNSRecord(db, lines, idx)
		case "BS_":
			db.verbatim = append(db.verbatim, verbatimRecord{keyword: "BS_", text: raw})
			idx++
		case "BU_":
			err = parseBURecord(db, raw, idx+1)
			idx++
		case "BO_":
			idx, err = parseBORecord(db, lines, idx)
		case "CM_":
			var text string
			text, idx, err = readUntilSemicolon(lines, idx)
			if err == nil {
				err = parseCMRecord(db, text, idx)
			}
		case "VAL_":
			var text string
			text, idx, err = readUntilSemicolon(lines, idx)
			if err == nil {
				err = parseVALRecord(db, text, idx)
			}
		case "BA_DEF_DEF_", "BA_DEF_", "BA_", "EV_", "VAL_TABLE_":
			var text string
			text, idx, err = readUntilSemicolon(lines, idx)
			if err == nil {
				db.verbatim = append(db.verbatim, verbatimRecord{keyword: keyword, text: text})
			}
		default:
			var text string
			text, idx, err = readUntilSemicolon(lines, idx)
			if err == nil {
				db.verbatim = append(db.verbatim, verbatimRecord{keyword: keyword, text: text})
			}
		}
		if err != nil {
			return nil, err
		}
	}

	return db, nil
}

// firstWord returns the leading run of identifier characters in s.
func firstWord(s string) string {
	i := 0
	for i < len(s) && isIdentPart(s[i]) {
		i++
	}
	return s[:i]
}

// readUntilSemicolon joins lines starting at idx until an unquoted ';'
// is found, honouring backslash-escaped quotes, and returns the joined
// text (terminator included), the index of the line after it, and a
// *ParseError if EOF is reached first.
func readUntilSemicolon(lines []string, idx int) (string, int, error) {
	var sb strings.Builder
	inQuotes := false
	i := idx
	for ; i < len(lines); i++ {
		line := lines[i]
		if i > idx {
			sb.WriteByte('\n')
		}
		j := 0
		for j < len(line) {
			c := line[j]
			if c == '\\' && j+1 < len(line) {
				sb.WriteByte(c)
				sb.WriteByte(line[j+1])
				j += 2
				continue
			}
			sb.WriteByte(c)
			if c == '"' {
				inQuotes = !inQuotes
			} else if c == ';' && !inQuotes {
				return sb.String(), i + 1, nil
			}
			j++
		}
	}
	return sb.String(), i, &ParseError{Line: idx + 1, Detail: "unterminated record, missing ';'"}
}

func tokenizeAll(text string) ([]token, error) {
	lex := newLexer([]byte(text))
	var toks []token
	for {
		t, err := lex.next()
		if err != nil {
			return nil, err
		}
		if t.kind == tokEOF {
			break
		}
		toks = append(toks, t)
	}
	return toks, nil
}

// cursor walks a fixed token slice for one record.
type cursor struct {
	toks []token
	i    int
	line int
}

func (c *cursor) peek() token {
	if c.i >= len(c.toks) {
		return token{kind: tokEOF, line: c.line}
	}
	return c.toks[c.i]
}

func (c *cursor) next() token {
	t := c.peek()
	c.i++
	return t
}

func (c *cursor) expectPunct(p string) error {
	t := c.next()
	if t.kind != tokPunct || t.text != p {
		return &ParseError{Line: c.line, Detail: fmt.Sprintf("expected %q, got %q", p, t.text)}
	}
	return nil
}

func (c *cursor) expectIdent() (string, error) {
	t := c.next()
	if t.kind != tokIdent {
		return "", &ParseError{Line: c.line, Detail: fmt.Sprintf("expected identifier, got %q", t.text)}
	}
	return t.text, nil
}

func (c *cursor) expectInt() (int64, error) {
	t := c.next()
	if t.kind != tokInt {
		return 0, &ParseError{Line: c.line, Detail: fmt.Sprintf("expected integer, got %q", t.text)}
	}
	return t.ival, nil
}

func (c *cursor) expectNumber() (float64, error) {
	t := c.next()
	switch t.kind {
	case tokInt:
		return float64(t.ival), nil
	case tokFloat:
		return t.fval, nil
	default:
		return 0, &ParseError{Line: c.line, Detail: fmt.Sprintf("expected number, got %q", t.text)}
	}
}

func (c *cursor) expectString() (string, error) {
	t := c.next()
	if t.kind != tokString {
		return "", &ParseError{Line: c.line, Detail: fmt.Sprintf("expected string literal, got %q", t.text)}
	}
	return t.text, nil
}

func parseVersionRecord(db *Database, line string, lineNo int) error {
	toks, err := tokenizeAll(line)
	if err != nil {
		return err
	}
	c := &cursor{toks: toks, line: lineNo}
	if _, err := c.expectIdent(); err != nil { // "VERSION"
		return err
	}
	s, err := c.expectString()
	if err != nil {
		return err
	}
	db.Version = s
	return nil
}

// parseNSRecord consumes the NS_ block: the "NS_ :" header plus every
// following indented attribute-name line, verbatim, since this package
// does not interpret the new-symbols list.
func parseNSRecord(db *Database, lines []string, idx int) int {
	start := idx
	idx++
	for idx < len(lines) {
		t := strings.TrimSpace(lines[idx])
		if t == "" {
			break
		}
		if !strings.HasPrefix(lines[idx], " ") && !strings.HasPrefix(lines[idx], "\t") {
			break
		}
		idx++
	}
	db.verbatim = append(db.verbatim, verbatimRecord{keyword: "NS_", text: strings.Join(lines[start:idx], "\n")})
	return idx
}

func parseBURecord(db *Database, line string, lineNo int) error {
	toks, err := tokenizeAll(line)
	if err != nil {
		return err
	}
	c := &cursor{toks: toks, line: lineNo}
	if _, err := c.expectIdent(); err != nil { // "BU_"
		return err
	}
	if err := c.expectPunct(":"); err != nil {
		return err
	}
	for c.peek().kind == tokIdent {
		name, _ := c.expectIdent()
		if _, exists := db.nodesByName[name]; exists {
			continue
		}
		n := &Node{Name: name}
		db.Nodes = append(db.Nodes, n)
		db.nodesByName[name] = n
	}
	return nil
}

// parseBORecord parses a BO_ header line and the SG_ lines indented
// beneath it, returning the index of the first line not belonging to
// this message.
func parseBORecord(db *Database, lines []string, idx int) (int, error) {
	header := lines[idx]
	toks, err := tokenizeAll(header)
	if err != nil {
		return idx, err
	}
	c := &cursor{toks: toks, line: idx + 1}
	if _, err := c.expectIdent(); err != nil { // "BO_"
		return idx, err
	}
	rawID, err := c.expectInt()
	if err != nil {
		return idx, err
	}
	name, err := c.expectIdent()
	if err != nil {
		return idx, err
	}
	if err := c.expectPunct(":"); err != nil {
		return idx, err
	}
	dlc, err := c.expectInt()
	if err != nil {
		return idx, err
	}
	sender, err := c.expectIdent()
	if err != nil {
		return idx, err
	}

	full := uint32(rawID)
	msg := &Message{
		FrameID:    full &^ 0x80000000,
		IsExtended: full&0x80000000 != 0,
		Name:       name,
		Length:     int(dlc),
		Nodes:      []string{sender},
	}
	db.Messages = append(db.Messages, msg)
	db.messagesByName[msg.Name] = msg
	db.messagesByID[msg.FrameID] = msg

	idx++
	for idx < len(lines) {
		raw := lines[idx]
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			break
		}
		if !strings.HasPrefix(raw, " ") && !strings.HasPrefix(raw, "\t") {
			break
		}
		if firstWord(trimmed) != "SG_" {
			break
		}
		sig, err := parseSGLine(raw, idx+1)
		if err != nil {
			return idx, err
		}
		msg.Signals = append(msg.Signals, sig)
		idx++
	}
	return idx, nil
}

func isMuxMarker(text string) (isM bool, muxID int, ok bool) {
	if text == "M" {
		return true, 0, true
	}
	if len(text) >= 2 && text[0] == 'm' {
		n := 0
		for i := 1; i < len(text); i++ {
			if text[i] < '0' || text[i] > '9' {
				return false, 0, false
			}
			n = n*10 + int(text[i]-'0')
		}
		return false, n, true
	}
	return false, 0, false
}

func parseSGLine(line string, lineNo int) (*Signal, error) {
	toks, err := tokenizeAll(line)
	if err != nil {
		return nil, err
	}
	c := &cursor{toks: toks, line: lineNo}
	if _, err := c.expectIdent(); err != nil { // "SG_"
		return nil, err
	}
	name, err := c.expectIdent()
	if err != nil {
		return nil, err
	}

	sig := &Signal{Name: name}
	if c.peek().kind == tokIdent {
		if isM, muxID, ok := isMuxMarker(c.peek().text); ok {
			c.next()
			if isM {
				sig.IsMultiplexer = true
			} else {
				id := muxID
				sig.MultiplexerID = &id
			}
		}
	}

	if err := c.expectPunct(":"); err != nil {
		return nil, err
	}
	start, err := c.expectInt()
	if err != nil {
		return nil, err
	}
	if err := c.expectPunct("|"); err != nil {
		return nil, err
	}
	length, err := c.expectInt()
	if err != nil {
		return nil, err
	}
	if err := c.expectPunct("@"); err != nil {
		return nil, err
	}
	order, err := c.expectInt()
	if err != nil {
		return nil, err
	}
	signTok := c.next()
	if signTok.kind != tokPunct || (signTok.text != "+" && signTok.text != "-") {
		return nil, &ParseError{Line: lineNo, Detail: fmt.Sprintf("expected sign token, got %q", signTok.text)}
	}

	sig.StartBit = int(start)
	sig.Length = int(length)
	if order == 1 {
		sig.ByteOrder = LittleEndian
	} else {
		sig.ByteOrder = BigEndian
	}
	sig.IsSigned = signTok.text == "-"

	if err := c.expectPunct("("); err != nil {
		return nil, err
	}
	scale, err := c.expectNumber()
	if err != nil {
		return nil, err
	}
	if err := c.expectPunct(","); err != nil {
		return nil, err
	}
	offset, err := c.expectNumber()
	if err != nil {
		return nil, err
	}
	if err := c.expectPunct(")"); err != nil {
		return nil, err
	}
	sig.Scale = scale
	sig.Offset = offset

	if err := c.expectPunct("["); err != nil {
		return nil, err
	}
	minimum, err := c.expectNumber()
	if err != nil {
		return nil, err
	}
	if err := c.expectPunct("|"); err != nil {
		return nil, err
	}
	maximum, err := c.expectNumber()
	if err != nil {
		return nil, err
	}
	if err := c.expectPunct("]"); err != nil {
		return nil, err
	}
	sig.Minimum = minimum
	sig.Maximum = maximum

	unit, err := c.expectString()
	if err != nil {
		return nil, err
	}
	sig.Unit = unit

	for c.peek().kind == tokIdent {
		receiver, _ := c.expectIdent()
		sig.Nodes = append(sig.Nodes, receiver)
		if c.peek().kind == tokPunct && c.peek().text == "," {
			c.next()
			continue
		}
		break
	}

	return sig, nil
}

func parseCMRecord(db *Database, text string, lineNo int) error {
	toks, err := tokenizeAll(text)
	if err != nil {
		return err
	}
	c := &cursor{toks: toks, line: lineNo}
	if _, err := c.expectIdent(); err != nil { // "CM_"
		return err
	}

	if c.peek().kind == tokString {
		comment, _ := c.expectString()
		db.Comment = &comment
		db.commentOrder = append(db.commentOrder, fmt.Sprintf("CM_ %s;", quoteDBCString(comment)))
		return nil
	}

	target, err := c.expectIdent()
	if err != nil {
		return err
	}
	switch target {
	case "BU_":
		name, err := c.expectIdent()
		if err != nil {
			return err
		}
		comment, err := c.expectString()
		if err != nil {
			return err
		}
		if n, ok := db.nodesByName[name]; ok {
			n.Comment = &comment
			db.commentOrder = append(db.commentOrder, fmt.Sprintf("CM_ BU_ %s %s;", name, quoteDBCString(comment)))
		}
	case "BO_":
		id, err := c.expectInt()
		if err != nil {
			return err
		}
		comment, err := c.expectString()
		if err != nil {
			return err
		}
		if m, ok := db.messagesByID[uint32(id)&^0x80000000]; ok {
			m.Comment = &comment
			db.commentOrder = append(db.commentOrder, fmt.Sprintf("CM_ BO_ %d %s;", uint32(id), quoteDBCString(comment)))
		}
	case "SG_":
		id, err := c.expectInt()
		if err != nil {
			return err
		}
		sigName, err := c.expectIdent()
		if err != nil {
			return err
		}
		comment, err := c.expectString()
		if err != nil {
			return err
		}
		if m, ok := db.messagesByID[uint32(id)&^0x80000000]; ok {
			for _, s := range m.Signals {
				if s.Name == sigName {
					s.Comment = &comment
					db.commentOrder = append(db.commentOrder, fmt.Sprintf("CM_ SG_ %d %s %s;", uint32(id), sigName, quoteDBCString(comment)))
					break
				}
			}
		}
	default:
		return &ParseError{Line: lineNo, Detail: fmt.Sprintf("unknown CM_ target %q", target)}
	}
	return nil
}

func parseVALRecord(db *Database, text string, lineNo int) error {
	toks, err := tokenizeAll(text)
	if err != nil {
		return err
	}
	c := &cursor{toks: toks, line: lineNo}
	if _, err := c.expectIdent(); err != nil { // "VAL_"
		return err
	}
	id, err := c.expectInt()
	if err != nil {
		return err
	}
	sigName, err := c.expectIdent()
	if err != nil {
		return err
	}
	m, ok := db.messagesByID[uint32(id)&^0x80000000]
	if !ok {
		return nil
	}
	var sig *Signal
	for _, s := range m.Signals {
		if s.Name == sigName {
			sig = s
			break
		}
	}
	if sig == nil {
		return nil
	}
	choices := NewChoices()
	for c.peek().kind == tokInt {
		raw, _ := c.expectInt()
		label, err := c.expectString()
		if err != nil {
			return err
		}
		choices.Add(raw, label)
	}
	sig.Choices = choices
	return nil
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
)

type docRecord struct {
	line    int
	id      int
	status  index.Status
	ratings []int
	text    string
}

type corpus struct {
	stopWords string
	docs      []docRecord
	queries   []string
}

// readCorpus parses the console format: a stop-word line, a document
// count, that many "<id> <status> <ratings|-> <text>" lines, then one
// query per line until EOF. Blank query lines are skipped.
func readCorpus(r io.Reader) (*corpus, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		lineNo++
		return sc.Text(), true
	}

	c := &corpus{}
	stopWords, ok := next()
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		return nil, fmt.Errorf("reading input: missing stop-word line")
	}
	c.stopWords = stopWords

	countLine, ok := next()
	if !ok {
		return nil, fmt.Errorf("line %d: missing document count", lineNo+1)
	}
	count, err := strconv.Atoi(strings.TrimSpace(countLine))
	if err != nil || count < 0 {
		return nil, fmt.Errorf("line %d: invalid document count %q", lineNo, countLine)
	}

	c.docs = make([]docRecord, 0, count)
	for range count {
		line, ok := next()
		if !ok {
			return nil, fmt.Errorf("line %d: expected %d documents, got %d", lineNo+1, count, len(c.docs))
		}
		rec, err := parseDocLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		rec.line = lineNo
		c.docs = append(c.docs, rec)
	}

	for {
		line, ok := next()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		c.queries = append(c.queries, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return c, nil
}

// parseDocLine keeps the text after the third field verbatim so that
// control characters reach document validation.
func parseDocLine(line string) (docRecord, error) {
	idField, rest := nextField(line)
	statusField, rest := nextField(rest)
	ratingsField, text := nextField(rest)
	if ratingsField == "" {
		return docRecord{}, fmt.Errorf("want \"<id> <status> <ratings|-> <text>\", got %q", line)
	}

	id, err := strconv.Atoi(idField)
	if err != nil {
		return docRecord{}, fmt.Errorf("invalid document id %q", idField)
	}
	status, ok := index.ParseStatus(statusField)
	if !ok {
		return docRecord{}, fmt.Errorf("unknown status %q", statusField)
	}
	var ratings []int
	if ratingsField != "-" {
		for _, f := range strings.Split(ratingsField, ",") {
			r, err := strconv.Atoi(f)
			if err != nil {
				return docRecord{}, fmt.Errorf("invalid rating %q", f)
			}
			ratings = append(ratings, r)
		}
	}
	return docRecord{id: id, status: status, ratings: ratings, text: text}, nil
}

func nextField(s string) (field, rest string) {
	s = strings.TrimLeft(s, " ")
	field, rest, _ = strings.Cut(s, " ")
	return field, rest
}

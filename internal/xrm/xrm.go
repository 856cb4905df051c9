// Package xrm reads the X resource database.
package xrm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("barconf.xrm")

var (
	// ErrUnavailable means the database could not be read at all, e.g. there
	// is no X server or xrdb is not installed.
	ErrUnavailable = errors.New("X resource database unavailable")
	// ErrNotFound means the database was read but has no such resource.
	ErrNotFound = errors.New("X resource not found")
)

// Database answers resource queries.
type Database interface {
	Resource(name string) (string, error)
}

// Map is an in-memory resource database keyed by resource specification,
// e.g. "*background" or "URxvt.font".
type Map map[string]string

// Resource looks name up as given, then as a loose binding ("*name",
// "*.name").
func (m Map) Resource(name string) (string, error) {
	for _, key := range []string{name, "*" + name, "*." + name} {
		if v, ok := m[key]; ok {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Parse reads "name:\tvalue" lines as printed by xrdb -query. Blank lines
// and comments starting with "!" are skipped.
func Parse(r io.Reader) (Map, error) {
	m := Map{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "!") {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		m[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Query loads the database from the xrdb command the first time a resource
// is requested. A failed load is remembered and reported as ErrUnavailable
// for every later query.
type Query struct {
	Command string
	Args    []string
	Timeout time.Duration

	once sync.Once
	db   Map
	err  error
}

// NewQuery returns a Query running "xrdb -query".
func NewQuery() *Query {
	return &Query{
		Command: "xrdb",
		Args:    []string{"-query"},
		Timeout: 5 * time.Second,
	}
}

func (q *Query) Resource(name string) (string, error) {
	q.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), q.Timeout)
		defer cancel()
		q.db, q.err = q.load(ctx)
		if q.err != nil {
			log.Warningf("%s", q.err)
		} else {
			log.Debugf("loaded %d X resources", len(q.db))
		}
	})
	if q.err != nil {
		return "", q.err
	}
	return q.db.Resource(name)
}

func (q *Query) load(ctx context.Context) (Map, error) {
	cmd := exec.CommandContext(ctx, q.Command, q.Args...)
	output, err := cmd.Output()
	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return nil, fmt.Errorf("%w: %s failed: %s", ErrUnavailable, q.Command, strings.TrimSpace(string(exitError.Stderr)))
		}
		return nil, fmt.Errorf("%w: running %s: %v", ErrUnavailable, q.Command, err)
	}

	db, err := Parse(strings.NewReader(string(output)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return db, nil
}
